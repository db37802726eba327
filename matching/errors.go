// Package matching implements the tag-based compatibility scoring and
// ranking core: the profile store, inverted tag index, scoring engine,
// and the coordination that keeps them consistent under concurrency.
package matching

import "errors"

var (
	// ErrNotFound indicates the requested username is not registered.
	ErrNotFound = errors.New("user not found")

	// ErrConflict indicates a registration attempt for a username that already exists.
	ErrConflict = errors.New("username already exists")

	// ErrInvalidPair indicates a scoring attempt between two users of the same role.
	ErrInvalidPair = errors.New("cannot score users of the same role")

	// ErrInvalidConfig indicates scoring weights that are negative or do not sum to 1.0.
	ErrInvalidConfig = errors.New("invalid matching configuration")
)
