package timex

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// inputLayouts are tried in order. Browsers send date inputs as
// "2006-01-02" and datetime-local inputs without seconds or zone.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time is a timestamp read from request JSON. An empty string decodes to the
// zero value, which callers treat as "clear".
type Time struct {
	time.Time
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range inputLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", s)
}

// Ptr returns the wrapped time, or nil when t is nil or zero.
func (t *Time) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// At wraps ts.
func At(ts time.Time) *Time {
	return &Time{Time: ts}
}
