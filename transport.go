package ari

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type transportState int32

const (
	stateInit transportState = iota
	stateConnecting
	stateOpen
	stateReconnecting
	stateClosed
)

// transport owns the single WebSocket used for ARI events. It dials,
// hands each frame to the client's demultiplexer in the order the socket
// yielded them, and reconnects with bounded exponential backoff on an
// unexpected close.
type transport struct {
	client *Client
	dialer *websocket.Dialer
	apps   []string

	mu              sync.Mutex
	conn            *websocket.Conn
	state           transportState
	closedOnPurpose bool
	cancel          context.CancelFunc
	doneCh          chan struct{}
	stopOnce        *sync.Once

	backoff *backoffController
}

func newTransport(c *Client) *transport {
	return &transport{
		client:  c,
		dialer:  websocket.DefaultDialer,
		backoff: newBackoffController(defaultBackoffConfig()),
	}
}

// start opens the WebSocket for the given applications and begins the
// read/reconnect loop in the background. Calling start again after stop
// begins a fresh session.
func (t *transport) start(parent context.Context, apps []string) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	t.apps = apps
	t.cancel = cancel
	t.closedOnPurpose = false
	t.stopOnce = &sync.Once{}
	t.doneCh = make(chan struct{})
	done := t.doneCh
	t.mu.Unlock()

	t.backoff.reset()
	go t.run(ctx, done)
}

// closed returns a channel closed once the transport has fully stopped
// (either via stop() or backoff exhaustion).
func (t *transport) closed() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doneCh
}

func (t *transport) setState(s transportState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *transport) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			t.setState(stateClosed)
			return
		default:
		}

		t.setState(stateConnecting)
		url := t.client.conn.eventsURL(strings.Join(t.apps, ","))

		conn, _, err := t.dialer.DialContext(ctx, url, nil)
		if err != nil {
			if !t.scheduleReconnect(ctx, err) {
				return
			}
			continue
		}

		t.mu.Lock()
		t.conn = conn
		t.mu.Unlock()

		t.setState(stateOpen)
		t.backoff.reset()
		t.client.emitter.emit("WebSocketConnected")

		t.readLoop(conn)

		t.mu.Lock()
		purposeful := t.closedOnPurpose
		t.mu.Unlock()

		if purposeful {
			t.setState(stateClosed)
			return
		}

		if !t.scheduleReconnect(ctx, fmt.Errorf("ari: event socket closed unexpectedly")) {
			return
		}
	}
}

func (t *transport) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		t.client.dispatchFrame(message)
	}
}

// scheduleReconnect emits WebSocketReconnecting, then sleeps for the next
// backoff delay; once the retry budget is exhausted it instead emits
// WebSocketMaxRetries (after that WebSocketReconnecting) and returns false.
func (t *transport) scheduleReconnect(ctx context.Context, lastErr error) bool {
	t.mu.Lock()
	purposeful := t.closedOnPurpose
	t.mu.Unlock()
	if purposeful {
		t.setState(stateClosed)
		return false
	}

	t.setState(stateReconnecting)
	t.client.emitter.emit("WebSocketReconnecting", lastErr)

	delay, ok := t.backoff.next()
	if !ok {
		t.client.emitter.emit("WebSocketMaxRetries", lastErr)
		t.setState(stateClosed)
		return false
	}

	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		t.setState(stateClosed)
		return false
	}
}

// stop closes the socket and inhibits reconnection until start is called
// again. Idempotent.
func (t *transport) stop() {
	t.mu.Lock()
	once := t.stopOnce
	t.closedOnPurpose = true
	conn := t.conn
	cancel := t.cancel
	t.mu.Unlock()

	if once == nil {
		return
	}
	once.Do(func() {
		if conn != nil {
			_ = conn.Close()
		}
		if cancel != nil {
			cancel()
		}
	})
}
