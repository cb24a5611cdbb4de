package ari

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostIsNotReachableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &HostIsNotReachableError{Op: "Get", URL: "http://localhost:8088/ari", Cause: cause}

	assert.Contains(t, err.Error(), "host not reachable")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAPILoadError(t *testing.T) {
	cause := errors.New("parsing resources.json: unexpected EOF")
	err := &APILoadError{Cause: cause}
	assert.Contains(t, err.Error(), "failed to load API schema")
	assert.Equal(t, cause, errors.Unwrap(err))

	withResource := &APILoadError{Resource: "channels", Cause: cause}
	assert.Contains(t, withResource.Error(), "channels")
}

func TestOperationError_MessageTakesPrecedence(t *testing.T) {
	err := &OperationError{Resource: "bridges", Operation: "get", StatusCode: 404, Message: "Bridge not found"}
	assert.Equal(t, "Bridge not found", err.Error())
}

func TestOperationError_FallsBackWithoutMessage(t *testing.T) {
	err := &OperationError{Resource: "bridges", Operation: "get", StatusCode: 500}
	assert.Contains(t, err.Error(), "bridges.get")
	assert.Contains(t, err.Error(), "500")
}

func TestProtocolError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := &ProtocolError{Context: "decoding event frame", Cause: cause}
	assert.Contains(t, err.Error(), "decoding event frame")
	assert.Equal(t, cause, errors.Unwrap(err))
}
