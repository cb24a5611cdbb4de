package ari

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asterisk-go/ari/internal/schema"
)

// scopedEntry is one registration in the client's instance-scoped routing
// table. Routing is keyed by identity string, not by Instance object, so
// object lifetimes stay independent.
type scopedEntry struct {
	id         ListenerID
	instanceID string
	once       bool
	fn         func(event *Event, instance *Instance)
}

func (c *Client) addScopedListener(eventName, instanceID string, fn func(event *Event, instance *Instance), once bool) ListenerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextListenerID++
	id := c.nextListenerID
	c.instanceListeners[eventName] = append(c.instanceListeners[eventName], &scopedEntry{
		id:         id,
		instanceID: instanceID,
		once:       once,
		fn:         fn,
	})
	return id
}

// removeScopedListener is idempotent: removing an id that is not
// currently registered — including one already stripped by managed-instance
// cleanup — is a no-op.
func (c *Client) removeScopedListener(eventName string, id ListenerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.instanceListeners[eventName]
	for i, e := range entries {
		if e.id == id {
			c.instanceListeners[eventName] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func managedKey(model, id string) string { return model + ":" + id }

func (c *Client) setManaged(model, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.managed[managedKey(model, id)] = true
}

func (c *Client) isManaged(model, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managed[managedKey(model, id)]
}

// clearManaged removes every scoped listener attached to identity (across
// all event names) and drops it from the managed set.
func (c *Client) clearManaged(model, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for eventName, entries := range c.instanceListeners {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.instanceID != id {
				filtered = append(filtered, e)
			}
		}
		c.instanceListeners[eventName] = filtered
	}
	delete(c.managed, managedKey(model, id))
}

type promoted struct {
	propertyName string
	instance     *Instance
}

// dispatchFrame parses one inbound text frame, promotes embedded resource
// payloads to Instances using the schema, and fans the event out
// globally, to scoped listeners, and to managed-instance cleanup.
func (c *Client) dispatchFrame(raw []byte) {
	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.emitProtocolError("decoding event frame", err)
		return
	}

	eventType, _ := envelope["type"].(string)
	if eventType == "" {
		c.emitProtocolError("event frame missing type", fmt.Errorf("no \"type\" field"))
		return
	}

	var promotedList []promoted
	if model, ok := c.schema.Events[eventType]; ok {
		promotedList = c.promoteProperties(model, envelope)
	}

	event := &Event{Type: eventType, Raw: envelope}
	resources := buildResourcesArg(promotedList)

	c.emitter.emit(eventType, event, resources)
	c.emitter.emit("*", event, resources)

	c.fanOutScoped(eventType, event, promotedList)
	c.cleanupTerminal(eventType, promotedList)
}

func (c *Client) promoteProperties(model *schema.EventModel, envelope map[string]interface{}) []promoted {
	var out []promoted
	for _, prop := range model.Properties {
		if !prop.Promotable {
			continue
		}
		value, present := envelope[prop.Name]
		if !present || value == nil {
			continue
		}

		if strings.HasPrefix(prop.DataType, "List[") {
			items, ok := value.([]interface{})
			if !ok {
				continue
			}
			elementModel := strings.TrimSuffix(strings.TrimPrefix(prop.DataType, "List["), "]")
			for _, item := range items {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				inst, err := c.factory.fromJSON(elementModel, obj)
				if err != nil {
					c.emitProtocolError("promoting "+prop.Name, err)
					continue
				}
				out = append(out, promoted{propertyName: prop.Name, instance: inst})
			}
			continue
		}

		obj, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		inst, err := c.factory.fromJSON(prop.DataType, obj)
		if err != nil {
			c.emitProtocolError("promoting "+prop.Name, err)
			continue
		}
		out = append(out, promoted{propertyName: prop.Name, instance: inst})
	}
	return out
}

// buildResourcesArg implements §4.5(3): 0 promoted -> nil, 1 -> the
// instance itself, >=2 -> a map of property name to instance.
func buildResourcesArg(promotedList []promoted) interface{} {
	switch len(promotedList) {
	case 0:
		return nil
	case 1:
		return promotedList[0].instance
	default:
		m := make(map[string]*Instance, len(promotedList))
		for _, p := range promotedList {
			m[p.propertyName] = p.instance
		}
		return m
	}
}

// fanOutScoped delivers the secondary per-instance notification. Delivery
// is deduplicated per (event, identity) even when multiple
// properties on the event promote to the same identity.
func (c *Client) fanOutScoped(eventType string, event *Event, promotedList []promoted) {
	if len(promotedList) == 0 {
		return
	}

	seen := make(map[string]*Instance, len(promotedList))
	for _, p := range promotedList {
		if _, ok := seen[p.instance.ID()]; !ok {
			seen[p.instance.ID()] = p.instance
		}
	}

	for instanceID, inst := range seen {
		c.mu.Lock()
		entries := c.instanceListeners[eventType]
		var toFire []*scopedEntry
		var onceIDs []ListenerID
		for _, e := range entries {
			if e.instanceID == instanceID {
				toFire = append(toFire, e)
				if e.once {
					onceIDs = append(onceIDs, e.id)
				}
			}
		}
		if len(onceIDs) > 0 {
			filtered := entries[:0:0]
			for _, e := range entries {
				fire := false
				for _, id := range onceIDs {
					if e.id == id {
						fire = true
						break
					}
				}
				if !fire {
					filtered = append(filtered, e)
				}
			}
			c.instanceListeners[eventType] = filtered
		}
		c.mu.Unlock()

		for _, e := range toFire {
			e.fn(event, inst)
		}
	}
}

// cleanupTerminal strips all scoped listeners for an identity and drops
// it from the managed set once its type-specific terminal event fires —
// but only when the identity is actually managed; an unmanaged instance
// keeps its listeners across its whole lifetime.
func (c *Client) cleanupTerminal(eventType string, promotedList []promoted) {
	for _, p := range promotedList {
		if !c.isManaged(p.instance.Model(), p.instance.ID()) {
			continue
		}
		for _, terminal := range schema.TerminalEvents(p.instance.Model()) {
			if terminal == eventType {
				c.clearManaged(p.instance.Model(), p.instance.ID())
			}
		}
	}
}

func (c *Client) emitProtocolError(context string, err error) {
	pe := &ProtocolError{Context: context, Cause: err}
	c.emitter.emit("ProtocolError", pe)
}
