package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert or update would violate
	// the case-insensitive email uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already in use")
)
