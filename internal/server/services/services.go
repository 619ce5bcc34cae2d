// Package services contains server-side business logic. Services own the
// validation and merge rules of each resource and talk to storage only
// through repomanager, so handlers stay transport-only.
package services

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/google/uuid"
)

// now is the clock used for every timestamp written by a service.
var now = func() time.Time { return time.Now().UTC() }

// checkID treats ids that cannot be a stored key as missing records.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func cloneTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// dropEmpty turns a pointer to an empty enum value into nil, so "" in a
// patch means "leave unchanged" instead of failing validation.
func dropEmpty[T ~string](p *T) *T {
	if p != nil && *p == "" {
		return nil
	}
	return p
}
