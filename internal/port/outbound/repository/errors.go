package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEmail is returned when a write would violate email uniqueness.
	ErrDuplicateEmail = errors.New("email already exists")
)
