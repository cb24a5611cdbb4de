package ari

import (
	"context"
	"fmt"
	"sync"

	"github.com/asterisk-go/ari/internal/schema"
)

// Instance is a resource object of one of the eight known ARI types
// (Channel, Bridge, Playback, LiveRecording, Mailbox, Endpoint,
// DeviceState, Sound). It carries its own identity, a field map of
// last-known server-side attributes, the operation set bound to its
// identity, and scoped event emitter behavior.
//
// Two Instance values may share the same identity (e.g. one constructed by
// the caller, one materialized from an event) without being the same Go
// object; managed-flag state is tracked by the Client, keyed by identity,
// so it stays coherent across both.
type Instance struct {
	client        *Client
	model         string
	resourceName  string
	identityAttr  string
	identityParam string
	id            string

	mu     sync.RWMutex
	fields Options
}

// Model returns the resource type name, e.g. "Channel".
func (i *Instance) Model() string { return i.model }

// ID returns the instance's stable identity (its "id" or "name" field,
// depending on type).
func (i *Instance) ID() string { return i.id }

// Field returns one field from the instance's last-known state.
func (i *Instance) Field(name string) (interface{}, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.fields[name]
	return v, ok
}

// Fields returns a copy of the instance's field map.
func (i *Instance) Fields() Options {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.fields.copy()
}

// merge folds values into the instance's field map, overwriting any
// existing keys. The field map is advisory state, not identity — merging
// never changes i.id.
func (i *Instance) merge(values Options) {
	if len(values) == 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.fields == nil {
		i.fields = Options{}
	}
	for k, v := range values {
		i.fields[k] = v
	}
}

// Call invokes one of this instance's bound operations, auto-injecting its
// identity into the resource-specific parameter that names it (e.g.
// "bridgeId", whether the operation binds it in the path or the query).
// The caller's options map is copied first, and that identity parameter
// cannot be overridden by a caller-supplied value of the same name.
func (i *Instance) Call(ctx context.Context, opName string, options Options) (interface{}, error) {
	bound := options.copy()
	bound[i.identityParam] = i.id
	return i.client.invoke(ctx, i.resourceName, opName, bound)
}

// On registers a scoped listener: fn fires only for events whose promoted
// instance carries this instance's identity.
func (i *Instance) On(eventName string, fn func(event *Event, instance *Instance)) ListenerID {
	return i.client.addScopedListener(eventName, i.id, fn, false)
}

// Once registers a scoped listener that fires at most once.
func (i *Instance) Once(eventName string, fn func(event *Event, instance *Instance)) ListenerID {
	return i.client.addScopedListener(eventName, i.id, fn, true)
}

// Off removes a scoped listener. Idempotent: removing an id that isn't
// registered (e.g. already cleaned up by managed-instance cleanup) is a
// no-op.
func (i *Instance) Off(eventName string, id ListenerID) {
	i.client.removeScopedListener(eventName, id)
}

// ManageInstance marks the instance as managed: its type-specific terminal
// event will strip all of its scoped listeners and remove it from the
// managed set.
func (i *Instance) ManageInstance() {
	i.client.setManaged(i.model, i.id)
}

// Managed reports whether the identity is currently in the managed set.
func (i *Instance) Managed() bool {
	return i.client.isManaged(i.model, i.id)
}

// factory produces Instance values for the eight known resource types.
// It never talks to the network; construction is pure.
type factory struct {
	client *Client
}

func resourceNameForModel(model string) (string, bool) {
	switch model {
	case "Channel":
		return "channels", true
	case "Bridge":
		return "bridges", true
	case "Playback":
		return "playbacks", true
	case "LiveRecording":
		return "recordings", true
	case "Mailbox":
		return "mailboxes", true
	case "Endpoint":
		return "endpoints", true
	case "DeviceState":
		return "deviceStates", true
	case "Sound":
		return "sounds", true
	default:
		return "", false
	}
}

// new builds an Instance for model, generating an identity when id is
// empty and merging values into the field map.
func (f *factory) new(model, id string, values Options) (*Instance, error) {
	resourceName, ok := resourceNameForModel(model)
	if !ok {
		return nil, fmt.Errorf("ari: unknown resource type %q", model)
	}
	if id == "" {
		id = newIdentity()
	}

	identAttr := schema.IdentityAttribute(model)
	inst := &Instance{
		client:        f.client,
		model:         model,
		resourceName:  resourceName,
		identityAttr:  identAttr,
		identityParam: schema.IdentityParamName(model),
		id:            id,
		fields:        Options{identAttr: id},
	}
	inst.merge(values)
	return inst, nil
}

// fromJSON builds (or re-materializes) an Instance from a decoded JSON
// object, taking the identity from the object's identity attribute. Event
// promotion always goes through this path.
func (f *factory) fromJSON(model string, raw map[string]interface{}) (*Instance, error) {
	identAttr := schema.IdentityAttribute(model)
	id, _ := raw[identAttr].(string)
	if id == "" {
		return nil, fmt.Errorf("ari: %s payload missing identity attribute %q", model, identAttr)
	}
	return f.new(model, id, Options(raw))
}

// parseConstructorArgs interprets the four call shapes the instance
// constructors accept: (), (id), (values), (id, values).
func parseConstructorArgs(args []interface{}) (id string, values Options, err error) {
	switch len(args) {
	case 0:
		return "", nil, nil
	case 1:
		switch v := args[0].(type) {
		case string:
			return v, nil, nil
		case Options:
			return "", v, nil
		case map[string]interface{}:
			return "", Options(v), nil
		default:
			return "", nil, fmt.Errorf("ari: unsupported constructor argument type %T", v)
		}
	case 2:
		id, ok := args[0].(string)
		if !ok {
			return "", nil, fmt.Errorf("ari: constructor id argument must be a string, got %T", args[0])
		}
		switch v := args[1].(type) {
		case Options:
			return id, v, nil
		case map[string]interface{}:
			return id, Options(v), nil
		default:
			return "", nil, fmt.Errorf("ari: unsupported constructor values argument type %T", v)
		}
	default:
		return "", nil, fmt.Errorf("ari: too many constructor arguments (%d)", len(args))
	}
}
