package store

import "errors"

var (
	// ErrUnavailable is returned when the store connection or the request
	// transport fails. Not recoverable locally; surfaced to the caller.
	ErrUnavailable = errors.New("storefront: store unavailable")

	// ErrNotFound is returned when an operation targets an id absent from the
	// store and absence is not defined as a no-op.
	ErrNotFound = errors.New("storefront: document not found")

	// ErrAlreadyExists is returned when inserting a document whose id is
	// already present.
	ErrAlreadyExists = errors.New("storefront: document already exists")
)
