package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "claude", detectFormat("agents/reviewer.md", "copilot"))
	assert.Equal(t, "claude", detectFormat("settings.json", "copilot"))
	assert.Equal(t, "copilot", detectFormat("agents/reviewer.agent.md", "claude"))
	assert.Equal(t, "copilot", detectFormat("prompts/deploy.prompt.md", "claude"))

	// Unrecognized shapes keep the configured default.
	assert.Equal(t, "claude", detectFormat("notes.txt", "claude"))
}
