package seasondb

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a season slug is already taken.
	ErrDuplicateSlug = errors.New("season slug already exists")
)
