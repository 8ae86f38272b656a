package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(NewClaudeAdapter()))
	require.NoError(t, r.Register(NewCopilotAdapter()))
	return r
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(NewClaudeAdapter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryGet(t *testing.T) {
	r := newTestRegistry(t)

	a, ok := r.Get("claude")
	require.True(t, ok)
	assert.Equal(t, "claude", a.Name())

	_, ok = r.Get("cursor")
	assert.False(t, ok)
}

func TestRegistryFormats(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"claude", "copilot"}, r.Formats())
}

func TestRegistryDetect(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		path string
		want string
	}{
		{"reviewer.md", "claude"},
		{"reviewer.agent.md", "copilot"},
		{"settings.json", "claude"},
	}
	for _, tc := range tests {
		a, ok := r.Detect(tc.path)
		require.True(t, ok, tc.path)
		assert.Equal(t, tc.want, a.Name(), tc.path)
	}

	_, ok := r.Detect("README.txt")
	assert.False(t, ok)
}
