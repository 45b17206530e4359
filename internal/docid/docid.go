// Package docid generates and validates document identifiers.
package docid

import "github.com/google/uuid"

// Zero is an identifier guaranteed never to be assigned to a document. Passing
// it as an exclusion to a uniqueness probe excludes nothing, which is exactly
// what a pre-create check wants.
const Zero = "00000000-0000-0000-0000-000000000000"

// New returns a fresh identifier. Identifiers are never reused.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s has identifier shape.
func Valid(s string) bool {
	if s == Zero {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
