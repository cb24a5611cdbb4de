package ari

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_CopyIsIndependent(t *testing.T) {
	orig := Options{"endpoint": "PJSIP/100", "app": "demo"}
	cp := orig.copy()
	cp["app"] = "mutated"

	assert.Equal(t, "demo", orig["app"])
	assert.Equal(t, "mutated", cp["app"])
}

func TestOptions_CopyOfNilIsEmptyNotNil(t *testing.T) {
	var orig Options
	cp := orig.copy()

	assert.NotNil(t, cp)
	assert.Empty(t, cp)
}

