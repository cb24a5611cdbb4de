package ari

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity_MatchesUUIDv4Form(t *testing.T) {
	id := newIdentity()
	assert.Regexp(t, uuidV4Pattern, id)
}

func TestNewIdentity_Unique(t *testing.T) {
	assert.NotEqual(t, newIdentity(), newIdentity())
}
