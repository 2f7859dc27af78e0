package sqlite

import (
	"fmt"
	"time"
)

// parseTime parses a time string from SQLite, trying RFC 3339 first and then
// the CURRENT_TIMESTAMP layout.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}

// formatTime renders t in UTC with fixed-width fractional seconds so that
// lexical ordering of stored strings matches chronological ordering.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
