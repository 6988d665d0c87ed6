package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates no row matched the lookup (or the row belongs to
	// another user).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an insert collided with an existing primary or
	// unique key. Existing rows are never overwritten.
	ErrConflict = errors.New("already exists")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
