package commands

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

func TestResolveFormats(t *testing.T) {
	source, target, err := resolveFormats("claude", "copilot", canonical.ConfigTypeAgent)
	require.NoError(t, err)
	assert.Equal(t, "claude", source.Name())
	assert.Equal(t, "copilot", target.Name())

	_, _, err = resolveFormats("claude", "claude", canonical.ConfigTypeAgent)
	assert.Error(t, err)

	_, _, err = resolveFormats("cursor", "copilot", canonical.ConfigTypeAgent)
	assert.Error(t, err)

	// Copilot carries permissions in degraded form, so the pairing is valid.
	_, _, err = resolveFormats("claude", "copilot", canonical.ConfigTypePermission)
	assert.NoError(t, err)
}

func TestStatePathEnvOverride(t *testing.T) {
	stateFlags.stateFile = ""
	t.Setenv("AGENTSYNC_STATE_FILE", "/tmp/custom_state.json")

	path, err := statePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom_state.json", path)

	stateFlags.stateFile = "/tmp/flag_state.json"
	defer func() { stateFlags.stateFile = "" }()
	path, err = statePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag_state.json", path)
}

func TestRelevantEvent(t *testing.T) {
	statePath := "/home/user/.agent_sync_state.json"

	assert.True(t, relevantEvent(fsnotify.Event{Name: "/dir/foo.md", Op: fsnotify.Write}, statePath))
	assert.True(t, relevantEvent(fsnotify.Event{Name: "/dir/foo.agent.md", Op: fsnotify.Remove}, statePath))

	// Chmod-only events carry no content change.
	assert.False(t, relevantEvent(fsnotify.Event{Name: "/dir/foo.md", Op: fsnotify.Chmod}, statePath))
	// The engine's own state writes must not retrigger a sync.
	assert.False(t, relevantEvent(fsnotify.Event{Name: "/dir/.agent_sync_state.json", Op: fsnotify.Write}, statePath))
	assert.False(t, relevantEvent(fsnotify.Event{Name: "/dir/.agent_sync_state-123", Op: fsnotify.Create}, statePath))
}
