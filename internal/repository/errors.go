// Package repository implements data access over MySQL.  This file defines
// sentinel error values shared across repositories so that handlers can map
// failure modes onto HTTP statuses without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist.  Handlers
// translate this into an HTTP 404 (or 401 on auth paths, where revealing
// existence would leak information).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert would violate the unique email
// constraint.  Maps to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when an insert would violate the unique phone
// constraint.  Maps to HTTP 409.
var ErrPhoneExists = errors.New("phone already exists")

// ErrNameExists is returned when a content record with the same unique name
// already exists (e.g. duplicate board).  Maps to HTTP 409.
var ErrNameExists = errors.New("name already exists")

// ErrTokenMismatch is returned when a conditional refresh-token update
// matched no row: the stored value differs from the one presented, meaning
// the session was rotated out, logged out, or never existed.  Maps to 401.
var ErrTokenMismatch = errors.New("refresh token mismatch")

// isFKViolation reports whether err is a MySQL foreign key violation
// (error 1452), which repositories translate into ErrNotFound for the
// missing parent record.
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
