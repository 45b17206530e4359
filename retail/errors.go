package retail

import "errors"

var (
	// ErrDuplicateKey is returned when a create or modify would violate a
	// logical uniqueness constraint. Surfaced so the caller can warn the user
	// and abort the command.
	ErrDuplicateKey = errors.New("storefront: duplicate key")

	// ErrValidation is returned when command input violates a field
	// constraint, such as a non-positive quantity.
	ErrValidation = errors.New("storefront: validation failed")
)
