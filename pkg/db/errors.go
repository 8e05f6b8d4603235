package db

import "strings"

// IsUniqueViolation reports whether err looks like a unique-constraint
// failure. Pass a constraint name to match a specific index; leave it
// empty to match any duplicate-key error from Postgres or sqlite.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	for _, marker := range []string{"duplicate key value", "UNIQUE constraint failed"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
