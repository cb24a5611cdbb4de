package ari

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnreachableTransportClient() *Client {
	c := &Client{
		conn:              Connection{Protocol: "http", Host: "127.0.0.1:1", User: "u", Secret: "s"},
		schema:            buildTestSchema(),
		emitter:           newEmitter(),
		instanceListeners: make(map[string][]*scopedEntry),
		managed:           make(map[string]bool),
		namespaces:        make(map[string]*ResourceNamespace),
	}
	c.factory = &factory{client: c}
	c.transport = newTransport(c)
	c.transport.backoff = newBackoffController(backoffConfig{
		MaxRetries:   2,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       false,
	})
	return c
}

func TestTransport_ExhaustsRetriesAndEmitsMaxRetries(t *testing.T) {
	c := newUnreachableTransportClient()

	reconnecting := 0
	maxRetries := 0
	c.On("WebSocketReconnecting", func(args ...interface{}) { reconnecting++ })
	c.On("WebSocketMaxRetries", func(args ...interface{}) { maxRetries++ })

	err := c.Start(context.Background(), "demo")
	require.NoError(t, err)

	select {
	case <-c.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transport to give up")
	}

	// scheduleReconnect emits WebSocketReconnecting before consulting the
	// backoff budget, so a MaxRetries of 2 still sees three dial attempts
	// (and three WebSocketReconnecting events) before the third exhausts it.
	assert.Equal(t, 3, reconnecting)
	assert.Equal(t, 1, maxRetries)
}

func TestTransport_StopPreventsFurtherReconnectAttempts(t *testing.T) {
	c := newUnreachableTransportClient()
	c.transport.backoff = newBackoffController(backoffConfig{
		MaxRetries:   100,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	})

	maxRetries := 0
	c.On("WebSocketMaxRetries", func(args ...interface{}) { maxRetries++ })

	err := c.Start(context.Background(), "demo")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	c.Stop()

	select {
	case <-c.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transport to stop")
	}

	assert.Equal(t, 0, maxRetries)
}

func TestTransport_StopIsIdempotent(t *testing.T) {
	c := newUnreachableTransportClient()

	err := c.Start(context.Background(), "demo")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}
