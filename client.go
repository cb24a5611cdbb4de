// Package ari is a client for Asterisk's REST+WebSocket telephony control
// interface (ARI). At connect time it fetches the server's own API
// description and builds its operation tables and event models from that
// description rather than from hand-written bindings; it then opens a
// single WebSocket for events and fans each one out to the global bus, to
// per-instance scoped listeners, and to managed-instance cleanup.
package ari

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/asterisk-go/ari/internal/schema"
)

// Client is the public surface applications use to fetch the schema,
// invoke operations, listen for events, and construct resource instances.
type Client struct {
	conn       Connection
	httpClient *http.Client
	schema     *schema.Schema
	factory    *factory
	emitter    *emitter
	transport  *transport

	mu                sync.Mutex
	instanceListeners map[string][]*scopedEntry
	managed           map[string]bool
	nextListenerID    ListenerID

	namespaces map[string]*ResourceNamespace
}

// New constructs a Client without loading the schema or opening any
// network connection. Register APILoadError listeners before calling
// Connect if you need to observe a schema-load failure as an event rather
// than (only) as the returned error.
func New(rawURL, user, secret string) (*Client, error) {
	conn, err := parseConnection(rawURL, user, secret)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:              conn,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		emitter:           newEmitter(),
		instanceListeners: make(map[string][]*scopedEntry),
		managed:           make(map[string]bool),
		namespaces:        make(map[string]*ResourceNamespace),
	}
	c.factory = &factory{client: c}
	c.transport = newTransport(c)
	return c, nil
}

// Connect fetches the schema and attaches resource namespaces. Schema must
// be loaded before Start or any operation is invoked.
func (c *Client) Connect(ctx context.Context) error {
	loader := &schema.Loader{
		HTTPClient: c.httpClient,
		BaseURL:    fmt.Sprintf("%s://%s", c.conn.Protocol, c.conn.Host),
		User:       c.conn.User,
		Secret:     c.conn.Secret,
	}

	sch, err := loader.Load(ctx)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return &HostIsNotReachableError{Op: urlErr.Op, URL: urlErr.URL, Cause: urlErr.Err}
		}
		loadErr := &APILoadError{Cause: err}
		c.emitter.emit("APILoadError", loadErr)
		return loadErr
	}

	c.schema = sch
	for _, name := range sch.ResourceNames() {
		c.namespaces[name] = &ResourceNamespace{client: c, name: name}
	}
	return nil
}

// Connect is the one-shot convenience form of New+(*Client).Connect: it
// loads the schema and returns a ready client, or an error.
func Connect(ctx context.Context, rawURL, user, secret string) (*Client, error) {
	c, err := New(rawURL, user, secret)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Start opens the event WebSocket for the given application(s) (a string
// or []string). Cancelling ctx aborts a dial in progress and a backoff
// wait; it does not close a socket that is already open, which keeps
// running until Stop is called or the server closes it.
func (c *Client) Start(ctx context.Context, appOrApps interface{}) error {
	if c.schema == nil {
		return fmt.Errorf("ari: Start called before Connect")
	}
	apps, err := normalizeApps(appOrApps)
	if err != nil {
		return err
	}
	c.transport.start(ctx, apps)
	return nil
}

func normalizeApps(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, fmt.Errorf("ari: Start requires at least one application name")
		}
		return []string{t}, nil
	case []string:
		if len(t) == 0 {
			return nil, fmt.Errorf("ari: Start requires at least one application name")
		}
		return t, nil
	default:
		return nil, fmt.Errorf("ari: Start expects a string or []string, got %T", v)
	}
}

// Stop closes the event WebSocket and inhibits reconnection until Start is
// called again. Idempotent.
func (c *Client) Stop() {
	c.transport.stop()
}

// Closed returns a channel that is closed once the transport has fully
// stopped, whether via Stop or backoff exhaustion.
func (c *Client) Closed() <-chan struct{} {
	return c.transport.closed()
}

// ResourceNames lists every resource namespace the schema advertised.
func (c *Client) ResourceNames() []string {
	if c.schema == nil {
		return nil
	}
	return c.schema.ResourceNames()
}

// Resource returns the namespace for an arbitrary resource name, for
// resources the schema advertised that this client has no named
// convenience accessor for.
func (c *Client) Resource(name string) (*ResourceNamespace, bool) {
	ns, ok := c.namespaces[name]
	return ns, ok
}

func (c *Client) Channels() *ResourceNamespace     { return c.namespaces["channels"] }
func (c *Client) Bridges() *ResourceNamespace      { return c.namespaces["bridges"] }
func (c *Client) Playbacks() *ResourceNamespace    { return c.namespaces["playbacks"] }
func (c *Client) Recordings() *ResourceNamespace   { return c.namespaces["recordings"] }
func (c *Client) Mailboxes() *ResourceNamespace    { return c.namespaces["mailboxes"] }
func (c *Client) Endpoints() *ResourceNamespace    { return c.namespaces["endpoints"] }
func (c *Client) DeviceStates() *ResourceNamespace { return c.namespaces["deviceStates"] }
func (c *Client) Sounds() *ResourceNamespace       { return c.namespaces["sounds"] }
func (c *Client) Asterisk() *ResourceNamespace     { return c.namespaces["asterisk"] }
func (c *Client) Applications() *ResourceNamespace { return c.namespaces["applications"] }
func (c *Client) Events() *ResourceNamespace       { return c.namespaces["events"] }

// --- instance constructors ------------------------------------------------

func (c *Client) newInstance(model string, args []interface{}) (*Instance, error) {
	id, values, err := parseConstructorArgs(args)
	if err != nil {
		return nil, err
	}
	return c.factory.new(model, id, values)
}

func (c *Client) Channel(args ...interface{}) (*Instance, error) {
	return c.newInstance("Channel", args)
}
func (c *Client) Bridge(args ...interface{}) (*Instance, error) {
	return c.newInstance("Bridge", args)
}
func (c *Client) Playback(args ...interface{}) (*Instance, error) {
	return c.newInstance("Playback", args)
}
func (c *Client) LiveRecording(args ...interface{}) (*Instance, error) {
	return c.newInstance("LiveRecording", args)
}
func (c *Client) Mailbox(args ...interface{}) (*Instance, error) {
	return c.newInstance("Mailbox", args)
}
func (c *Client) Endpoint(args ...interface{}) (*Instance, error) {
	return c.newInstance("Endpoint", args)
}
func (c *Client) DeviceState(args ...interface{}) (*Instance, error) {
	return c.newInstance("DeviceState", args)
}
func (c *Client) Sound(args ...interface{}) (*Instance, error) {
	return c.newInstance("Sound", args)
}

// --- global event bus -------------------------------------------------------

// On registers a global listener for event (an ARI event name like
// "StasisStart", or a reserved lifecycle event name). No cap is placed on
// the number of listeners per event.
func (c *Client) On(event string, fn func(args ...interface{})) ListenerID {
	return c.emitter.on(event, fn)
}

// Once registers a global listener that fires at most once.
func (c *Client) Once(event string, fn func(args ...interface{})) ListenerID {
	return c.emitter.once(event, fn)
}

// AddListener is an alias for On, matching the source's EventEmitter naming.
func (c *Client) AddListener(event string, fn func(args ...interface{})) ListenerID {
	return c.On(event, fn)
}

// RemoveListener removes a global listener by id. Idempotent.
func (c *Client) RemoveListener(event string, id ListenerID) {
	c.emitter.off(event, id)
}

// RemoveAllListeners removes every listener for event, or for every event
// when event is "".
func (c *Client) RemoveAllListeners(event string) {
	c.emitter.removeAllListeners(event)
}

// OnEvent is a typed convenience wrapper over On for ARI events, whose
// global listeners always receive (event, resources).
func (c *Client) OnEvent(eventType string, fn func(event *Event, resources interface{})) ListenerID {
	return c.On(eventType, wrapEventListener(fn))
}

// OnceEvent is the once-variant of OnEvent.
func (c *Client) OnceEvent(eventType string, fn func(event *Event, resources interface{})) ListenerID {
	return c.Once(eventType, wrapEventListener(fn))
}

// OnAny registers a listener that fires for every ARI event regardless of
// type, after the type-specific global listeners for that frame.
func (c *Client) OnAny(fn func(event *Event, resources interface{})) ListenerID {
	return c.On("*", wrapEventListener(fn))
}

func wrapEventListener(fn func(event *Event, resources interface{})) func(args ...interface{}) {
	return func(args ...interface{}) {
		var ev *Event
		var res interface{}
		if len(args) > 0 {
			ev, _ = args[0].(*Event)
		}
		if len(args) > 1 {
			res = args[1]
		}
		fn(ev, res)
	}
}
