package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure. Pass a constraint name (e.g. "users_email") to match a specific
// index, or leave it empty to match any duplicate-key error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	if constraintName != "" {
		return strings.Contains(message, constraintName)
	}
	return strings.Contains(message, "duplicate key value")
}
