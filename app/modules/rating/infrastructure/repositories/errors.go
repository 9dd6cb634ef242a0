package ratingdb

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a player name is already taken.
	ErrDuplicateName = errors.New("player name already exists")
)
