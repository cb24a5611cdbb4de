package ari

// Event is one parsed WebSocket frame. Raw holds the full decoded JSON
// object so listeners can reach properties the schema doesn't promote.
type Event struct {
	Type string
	Raw  map[string]interface{}
}

// Get returns one raw property of the event.
func (e *Event) Get(key string) (interface{}, bool) {
	v, ok := e.Raw[key]
	return v, ok
}
