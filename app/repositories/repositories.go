// Package repositories wraps the MongoDB collections behind typed CRUD
// methods. Duplicate-key violations surface as ErrDuplicate so callers
// can map them to 409 without pre-checking (the unique index is the
// only authority on uniqueness).
package repositories

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("repositories: not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("repositories: duplicate key")
)
