// Package repository defines error types that are reused across the data
// access layer.  These sentinel values allow handlers to distinguish
// between failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrShowNotFound indicates that a show was not located in the DB.
// Handlers translate it into an HTTP 404 response.
var ErrShowNotFound = errors.New("show not found")

// ErrTitleExists is returned when another show already uses the title,
// compared without regard to case.  Handlers translate it into 400.
var ErrTitleExists = errors.New("title already exists")

// isUniqueViolation recognises duplicate-key errors from both supported
// drivers: MySQL error 1062 and SQLite's UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}
