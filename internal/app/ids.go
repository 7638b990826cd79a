package app

import "github.com/google/uuid"

// newID returns a random game identifier.
func newID() string { return uuid.NewString() }

// IsValidPlayerID reports whether id has the shape of an issued player id.
func IsValidPlayerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
