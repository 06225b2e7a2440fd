package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique
// constraint violation, matching both the Postgres and SQLite message
// shapes so the dev flag does not change error taxonomy.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
