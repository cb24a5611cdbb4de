package ari

import "github.com/google/uuid"

// newIdentity generates a fresh identifier in UUID v4 form
// (8-4-4-4-12 lowercase hex) for a resource constructor called without an
// explicit id.
func newIdentity() string {
	return uuid.NewString()
}
