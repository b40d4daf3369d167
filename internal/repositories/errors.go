package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches nothing. Owner-scoped
	// lookups return it both for missing ids and for rows owned by someone
	// else, so callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when an insert hits the unique username
	// index.
	ErrUsernameTaken = errors.New("username already registered")
)
