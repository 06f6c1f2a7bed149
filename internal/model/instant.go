package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidInstant = errors.New("INVALID_INSTANT")

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseInstant converts user input into a canonical UTC instant. Values
// carrying an offset are taken as-is; wall-clock values are read in loc.
func ParseInstant(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidInstant
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidInstant
}

// FormatInstant renders t in the wire form used by the scheduler API.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
