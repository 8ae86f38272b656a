package adapters

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

// Metadata keys used to round-trip Claude-specific agent fields.
const (
	metaClaudePermissionMode = "claude_permission_mode"
	metaClaudeSkills         = "claude_skills"
)

// ClaudeAdapter handles the Claude Code on-disk format:
//   - agents: .md files with YAML frontmatter (tools as a comma-separated
//     string, model as short names sonnet/opus/haiku/inherit)
//   - permissions: settings.json / settings.local.json with a permissions
//     block of allow/deny/ask rule lists
//   - slash commands: .md files with optional frontmatter and a prompt body
//
// Claude's short model names are the canonical form, so model mapping is a
// lowercase normalization on read and a passthrough on write.
type ClaudeAdapter struct {
	warnings []string

	markdownFiles glob.Glob
	copilotFiles  glob.Glob
	promptFiles   glob.Glob
}

func NewClaudeAdapter() *ClaudeAdapter {
	return &ClaudeAdapter{
		markdownFiles: glob.MustCompile("*.md"),
		copilotFiles:  glob.MustCompile("*.agent.md"),
		promptFiles:   glob.MustCompile("*.prompt.md"),
	}
}

func (c *ClaudeAdapter) Name() string { return "claude" }

func (c *ClaudeAdapter) Extension(ct canonical.ConfigType) string {
	if ct == canonical.ConfigTypePermission {
		return ".json"
	}
	return ".md"
}

func (c *ClaudeAdapter) Supports(ct canonical.ConfigType) bool {
	switch ct {
	case canonical.ConfigTypeAgent, canonical.ConfigTypePermission, canonical.ConfigTypeSlashCommand:
		return true
	}
	return false
}

// CanHandle accepts Claude agent files (.md that is not a Copilot .agent.md
// or .prompt.md) and the settings files holding permissions.
func (c *ClaudeAdapter) CanHandle(path string) bool {
	name := filepath.Base(path)
	if name == "settings.json" || name == "settings.local.json" {
		return true
	}
	return c.markdownFiles.Match(name) && !c.copilotFiles.Match(name) && !c.promptFiles.Match(name)
}

func (c *ClaudeAdapter) Read(path string, ct canonical.ConfigType) (canonical.Record, error) {
	return readRecord(c, path, ct)
}

func (c *ClaudeAdapter) Write(rec canonical.Record, path string, ct canonical.ConfigType, opts Options) error {
	return writeRecord(c, rec, path, ct, opts)
}

func (c *ClaudeAdapter) ToCanonical(content string, ct canonical.ConfigType) (canonical.Record, error) {
	c.warnings = nil

	switch ct {
	case canonical.ConfigTypePermission:
		return c.permissionToCanonical(content)
	case canonical.ConfigTypeSlashCommand:
		return c.slashCommandToCanonical(content)
	case canonical.ConfigTypeAgent:
		return c.agentToCanonical(content)
	}
	return nil, fmt.Errorf("claude adapter does not support config type %q", ct)
}

func (c *ClaudeAdapter) FromCanonical(rec canonical.Record, ct canonical.ConfigType, opts Options) (string, error) {
	c.warnings = nil

	switch ct {
	case canonical.ConfigTypePermission:
		p, ok := rec.(*canonical.Permission)
		if !ok {
			return "", fmt.Errorf("expected *canonical.Permission, got %T", rec)
		}
		return c.permissionFromCanonical(p)
	case canonical.ConfigTypeSlashCommand:
		cmd, ok := rec.(*canonical.SlashCommand)
		if !ok {
			return "", fmt.Errorf("expected *canonical.SlashCommand, got %T", rec)
		}
		return c.slashCommandFromCanonical(cmd)
	case canonical.ConfigTypeAgent:
		a, ok := rec.(*canonical.Agent)
		if !ok {
			return "", fmt.Errorf("expected *canonical.Agent, got %T", rec)
		}
		return c.agentFromCanonical(a)
	}
	return "", fmt.Errorf("claude adapter does not support config type %q", ct)
}

func (c *ClaudeAdapter) Warnings() []string { return c.warnings }

func (c *ClaudeAdapter) agentToCanonical(content string) (canonical.Record, error) {
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	agent := &canonical.Agent{
		Name:         stringField(meta, "name"),
		Description:  stringField(meta, "description"),
		Instructions: body,
		Tools:        toolList(meta["tools"]),
		Model:        strings.ToLower(stringField(meta, "model")),
		SourceFormat: c.Name(),
	}

	if v, ok := meta["permissionMode"]; ok {
		agent.AddMetadata(metaClaudePermissionMode, v)
	}
	if v, ok := meta["skills"]; ok {
		agent.AddMetadata(metaClaudeSkills, v)
	}

	return agent, nil
}

func (c *ClaudeAdapter) agentFromCanonical(a *canonical.Agent) (string, error) {
	fm := newFrontmatter()
	fm.set("name", a.Name)
	fm.set("description", a.Description)

	if len(a.Tools) > 0 {
		fm.set("tools", strings.Join(a.Tools, ", "))
	}
	if a.Model != "" {
		fm.set("model", a.Model)
	}

	if v, ok := a.GetMetadata(metaClaudePermissionMode); ok {
		fm.set("permissionMode", v)
	}
	if v, ok := a.GetMetadata(metaClaudeSkills); ok {
		fm.set("skills", v)
	}

	// Copilot-only fields have no Claude representation.
	var dropped []string
	for _, key := range []string{metaCopilotArgumentHint, metaCopilotHandoffs, metaCopilotTarget, metaCopilotMCPServers} {
		if a.HasMetadata(key) {
			dropped = append(dropped, strings.TrimPrefix(key, "copilot_"))
		}
	}
	if len(dropped) > 0 {
		c.warnings = append(c.warnings, fmt.Sprintf("Dropped Copilot-specific fields: %s", strings.Join(dropped, ", ")))
	}

	return fm.render(a.Instructions)
}

type claudeSettings struct {
	Permissions claudePermissions `json:"permissions"`
}

type claudePermissions struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
	Ask   []string `json:"ask"`
}

func (c *ClaudeAdapter) permissionToCanonical(content string) (canonical.Record, error) {
	var settings claudeSettings
	if err := json.Unmarshal([]byte(content), &settings); err != nil {
		return nil, fmt.Errorf("invalid JSON in settings file: %w", err)
	}
	return &canonical.Permission{
		Allow:        settings.Permissions.Allow,
		Deny:         settings.Permissions.Deny,
		Ask:          settings.Permissions.Ask,
		SourceFormat: c.Name(),
	}, nil
}

func (c *ClaudeAdapter) permissionFromCanonical(p *canonical.Permission) (string, error) {
	settings := claudeSettings{
		Permissions: claudePermissions{
			Allow: emptyIfNil(p.Allow),
			Deny:  emptyIfNil(p.Deny),
			Ask:   emptyIfNil(p.Ask),
		},
	}
	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func (c *ClaudeAdapter) slashCommandToCanonical(content string) (canonical.Record, error) {
	// Frontmatter is optional on slash commands; a bare file is all prompt.
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return &canonical.SlashCommand{
			Prompt:       strings.TrimSpace(content),
			SourceFormat: c.Name(),
		}, nil
	}
	cmd := &canonical.SlashCommand{
		Name:         stringField(meta, "name"),
		Description:  stringField(meta, "description"),
		Prompt:       body,
		SourceFormat: c.Name(),
	}
	preserveSlashCommandMeta(cmd, meta)
	return cmd, nil
}

func (c *ClaudeAdapter) slashCommandFromCanonical(cmd *canonical.SlashCommand) (string, error) {
	return renderSlashCommand(cmd)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
