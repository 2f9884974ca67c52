package domain

import "errors"

var (
	// ErrValidation marks caller input that fails domain validation.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a lookup for an entity that does not exist.
	ErrNotFound = errors.New("not found")
)
