package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityAttribute(t *testing.T) {
	assert.Equal(t, "id", IdentityAttribute("Channel"))
	assert.Equal(t, "id", IdentityAttribute("Bridge"))
	assert.Equal(t, "id", IdentityAttribute("Playback"))
	assert.Equal(t, "name", IdentityAttribute("LiveRecording"))
	assert.Equal(t, "name", IdentityAttribute("Mailbox"))
	assert.Equal(t, "name", IdentityAttribute("Endpoint"))
	assert.Equal(t, "name", IdentityAttribute("DeviceState"))
	assert.Equal(t, "name", IdentityAttribute("Sound"))
}

func TestIdentityParamName(t *testing.T) {
	assert.Equal(t, "channelId", IdentityParamName("Channel"))
	assert.Equal(t, "bridgeId", IdentityParamName("Bridge"))
	assert.Equal(t, "playbackId", IdentityParamName("Playback"))
	assert.Equal(t, "recordingName", IdentityParamName("LiveRecording"))
	assert.Equal(t, "mailboxName", IdentityParamName("Mailbox"))
	assert.Equal(t, "endpointId", IdentityParamName("Endpoint"))
	assert.Equal(t, "deviceName", IdentityParamName("DeviceState"))
	assert.Equal(t, "soundId", IdentityParamName("Sound"))
}

func TestTerminalEvent(t *testing.T) {
	ev, ok := TerminalEvent("Channel")
	assert.True(t, ok)
	assert.Equal(t, "StasisEnd", ev)

	ev, ok = TerminalEvent("Bridge")
	assert.True(t, ok)
	assert.Equal(t, "BridgeDestroyed", ev)

	_, ok = TerminalEvent("Mailbox")
	assert.False(t, ok)
}

func TestTerminalEvents(t *testing.T) {
	assert.Equal(t, []string{"StasisEnd"}, TerminalEvents("Channel"))
	assert.Equal(t, []string{"RecordingFinished", "RecordingFailed"}, TerminalEvents("LiveRecording"))
	assert.Nil(t, TerminalEvents("Mailbox"))
}

func TestIsVariablesContainer(t *testing.T) {
	assert.True(t, isVariablesContainer("Variables"))
	assert.True(t, isVariablesContainer("ContainerVars"))
	assert.False(t, isVariablesContainer("string"))
}
