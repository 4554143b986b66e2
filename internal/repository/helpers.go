package repository

import (
	"time"
)

// storedTimeLayout is fixed-width so timestamps sort as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTime reads a stored timestamp. Plain RFC3339 values are accepted too.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}
