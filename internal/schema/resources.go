package schema

// DocumentNames lists the per-resource Swagger 1.2 documents the root
// descriptor (resources.json) is expected to reference. Loader.Load does not
// consult this list: it fetches whatever resources.json's own apis[].path
// names, and a resource document outside this list is loaded and exposed
// generically, just without a typed instance constructor.
var DocumentNames = []string{
	"asterisk",
	"applications",
	"bridges",
	"channels",
	"deviceStates",
	"endpoints",
	"events",
	"mailboxes",
	"playbacks",
	"recordings",
	"sounds",
}

// KnownModels is the set of Swagger model names this client promotes to
// resource instances for event promotion and response typing. Each model's
// identity attribute is given by IdentityAttribute.
var KnownModels = map[string]bool{
	"Channel":       true,
	"Bridge":        true,
	"Playback":      true,
	"LiveRecording": true,
	"Mailbox":       true,
	"Endpoint":      true,
	"DeviceState":   true,
	"Sound":         true,
}

// IdentityAttribute returns the field name that carries a resource
// instance's stable identity in its JSON representation: "id" for
// Channel/Bridge/Playback, "name" for the rest.
func IdentityAttribute(model string) string {
	switch model {
	case "Channel", "Bridge", "Playback":
		return "id"
	default:
		return "name"
	}
}

// IdentityParamName returns the operation parameter name a resource's bound
// methods inject the instance's identity into. This is distinct from
// IdentityAttribute: an object's JSON body carries a plain "id"/"name"
// field, but the path and query parameters that accept it in operations
// are resource-specific — e.g. bridge creation takes `bridgeId`, not `id`
// (`POST /bridges?type=holding&bridgeId=...`).
func IdentityParamName(model string) string {
	switch model {
	case "Channel":
		return "channelId"
	case "Bridge":
		return "bridgeId"
	case "Playback":
		return "playbackId"
	case "LiveRecording":
		return "recordingName"
	case "Mailbox":
		return "mailboxName"
	case "Endpoint":
		return "endpointId"
	case "DeviceState":
		return "deviceName"
	case "Sound":
		return "soundId"
	default:
		return "id"
	}
}

// TerminalEvent returns the event name that concludes a managed instance's
// lifecycle for the given resource type, and whether one is defined.
func TerminalEvent(model string) (string, bool) {
	switch model {
	case "Channel":
		return "StasisEnd", true
	case "Bridge":
		return "BridgeDestroyed", true
	case "Playback":
		return "PlaybackFinished", true
	default:
		return "", false
	}
}

// TerminalEvents returns every terminal event name for a resource type; a
// LiveRecording has two (RecordingFinished, RecordingFailed) so it can't be
// expressed by TerminalEvent alone.
func TerminalEvents(model string) []string {
	switch model {
	case "Channel":
		return []string{"StasisEnd"}
	case "Bridge":
		return []string{"BridgeDestroyed"}
	case "Playback":
		return []string{"PlaybackFinished"}
	case "LiveRecording":
		return []string{"RecordingFinished", "RecordingFailed"}
	default:
		return nil
	}
}

// isVariablesContainer reports whether a body parameter's declared model is
// the keyed string->string "variables container" used by channel variable
// parameters (e.g. originate's "variables"), which serializes as
// {"variables": {...}} rather than being merged flat into the body.
func isVariablesContainer(dataType string) bool {
	return dataType == "Variables" || dataType == "ContainerVars"
}
