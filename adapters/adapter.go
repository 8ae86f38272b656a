// Package adapters translates between tool-specific configuration formats and
// the canonical in-memory representation. Each adapter knows one format:
// how to recognize its files, parse them, and render canonical records back
// into its native shape.
package adapters

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

// Options tweak conversion output for formats with optional fields.
type Options struct {
	// AddArgumentHint populates the Copilot argument-hint field from the
	// agent description when converting to Copilot format.
	AddArgumentHint bool

	// AddHandoffs adds a placeholder handoffs entry when converting to
	// Copilot format.
	AddHandoffs bool
}

// FormatAdapter converts one tool's configuration format to and from the
// canonical representation.
//
// Warnings returns non-fatal data-loss notes from the most recent conversion,
// such as fields the target format cannot represent. The list is reset at the
// start of every ToCanonical or FromCanonical call.
type FormatAdapter interface {
	// Name is the unique format identifier, e.g. "claude".
	Name() string

	// Extension is the native file suffix for the given config type,
	// including the leading dot.
	Extension(ct canonical.ConfigType) string

	// Supports reports whether this format can represent the config type.
	Supports(ct canonical.ConfigType) bool

	// CanHandle reports whether the file at path belongs to this format.
	CanHandle(path string) bool

	Read(path string, ct canonical.ConfigType) (canonical.Record, error)
	Write(rec canonical.Record, path string, ct canonical.ConfigType, opts Options) error

	ToCanonical(content string, ct canonical.ConfigType) (canonical.Record, error)
	FromCanonical(rec canonical.Record, ct canonical.ConfigType, opts Options) (string, error)

	Warnings() []string
}

func readRecord(a FormatAdapter, path string, ct canonical.ConfigType) (canonical.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.ToCanonical(string(data), ct)
}

// preserveSlashCommandMeta stores frontmatter keys with no canonical slot so
// fields like argument-hint or allowed-tools survive a round trip. Slash
// command frontmatter is plain across formats, so keys are kept unprefixed.
func preserveSlashCommandMeta(cmd *canonical.SlashCommand, meta map[string]any) {
	for key, value := range meta {
		switch key {
		case "name", "description":
			continue
		}
		cmd.AddMetadata(key, value)
	}
}

// renderSlashCommand emits a slash command document: frontmatter only when
// there is something to put in it, preserved keys in sorted order after the
// named fields.
func renderSlashCommand(cmd *canonical.SlashCommand) (string, error) {
	if cmd.Name == "" && cmd.Description == "" && len(cmd.Metadata) == 0 {
		return cmd.Prompt + "\n", nil
	}
	fm := newFrontmatter()
	if cmd.Name != "" {
		fm.set("name", cmd.Name)
	}
	if cmd.Description != "" {
		fm.set("description", cmd.Description)
	}
	keys := make([]string, 0, len(cmd.Metadata))
	for key := range cmd.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fm.set(key, cmd.Metadata[key])
	}
	return fm.render(cmd.Prompt)
}

// writeRecord renders the record and writes it to path, creating parent
// directories as needed.
func writeRecord(a FormatAdapter, rec canonical.Record, path string, ct canonical.ConfigType, opts Options) error {
	content, err := a.FromCanonical(rec, ct, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
