package db

import "strings"

// IsUniqueViolation reports whether err looks like a unique constraint
// failure. Works against both Postgres and the sqlite driver used in tests.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraint != "" && strings.Contains(msg, constraint) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
