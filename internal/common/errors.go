// Package common defines shared constants and sentinel errors used across
// the ReMember server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Vault passkey errors.
	ErrPasskeyNotSet   = errors.New("no vault passkey set")
	ErrPasskeyMismatch = errors.New("invalid passkey")

	// Video-specific errors.
	ErrInvalidVideoURL = errors.New("invalid YouTube URL")
)

// ValidationError reports rejected input. Fields maps a JSON field name to a
// human-readable reason and may be empty when the failure is not tied to a
// single field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}
