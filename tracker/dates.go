package tracker

import (
	"fmt"
	"time"
)

// DateLayout is the canonical key format of the daily stats map.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical ISO calendar date. Non-canonical spellings
// such as "2024-1-05" are rejected so one day never maps to two keys.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateKey returns the UTC calendar date of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
