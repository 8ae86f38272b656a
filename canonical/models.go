// Package canonical defines the format-neutral record models that adapters
// convert to and from. The sync engine treats these values as opaque payloads;
// only adapters inspect their fields.
package canonical

import "fmt"

// ConfigType identifies the kind of configuration record being synced.
type ConfigType string

const (
	ConfigTypeAgent        ConfigType = "agent"
	ConfigTypePermission   ConfigType = "permission"
	ConfigTypeSlashCommand ConfigType = "slash_command"
)

// ParseConfigType converts a user-supplied string to a ConfigType.
func ParseConfigType(s string) (ConfigType, error) {
	switch ConfigType(s) {
	case ConfigTypeAgent, ConfigTypePermission, ConfigTypeSlashCommand:
		return ConfigType(s), nil
	}
	return "", fmt.Errorf("unsupported config type: %q", s)
}

// Record is implemented by every canonical model.
type Record interface {
	Type() ConfigType
}

// Agent is the canonical representation of a custom agent definition.
//
// Model uses canonical short names (sonnet, opus, haiku); adapters map
// format-specific names to and from this form. Format-specific fields that
// have no canonical slot are carried in Metadata so a round trip through the
// same format preserves them.
type Agent struct {
	Name         string
	Description  string
	Instructions string
	Tools        []string
	Model        string
	SourceFormat string
	Metadata     map[string]any
}

func (a *Agent) Type() ConfigType { return ConfigTypeAgent }

// AddMetadata records a format-specific field for round-trip preservation.
func (a *Agent) AddMetadata(key string, value any) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = value
}

// GetMetadata returns a previously stored format-specific field.
func (a *Agent) GetMetadata(key string) (any, bool) {
	v, ok := a.Metadata[key]
	return v, ok
}

// HasMetadata reports whether a format-specific field is present.
func (a *Agent) HasMetadata(key string) bool {
	_, ok := a.Metadata[key]
	return ok
}

// Permission is the canonical representation of a tool-permission policy.
type Permission struct {
	Allow        []string
	Deny         []string
	Ask          []string
	SourceFormat string
}

func (p *Permission) Type() ConfigType { return ConfigTypePermission }

// SlashCommand is the canonical representation of a reusable prompt command.
type SlashCommand struct {
	Name         string
	Description  string
	Prompt       string
	SourceFormat string
	Metadata     map[string]any
}

func (c *SlashCommand) Type() ConfigType { return ConfigTypeSlashCommand }

// AddMetadata records a format-specific field for round-trip preservation.
func (c *SlashCommand) AddMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// GetMetadata returns a previously stored format-specific field.
func (c *SlashCommand) GetMetadata(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}
