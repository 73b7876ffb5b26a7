package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// TimeNow is the clock every timestamp in the service is taken from. Market
// data is stored in UTC.
func TimeNow() time.Time {
	return time.Now().UTC()
}

// Today returns the current UTC calendar date at midnight.
func Today() time.Time {
	return TruncateToDate(TimeNow())
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an optional YYYY-MM-DD value. Empty input returns nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return &t, nil
}
