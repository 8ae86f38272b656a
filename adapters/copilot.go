package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

// Metadata keys used to round-trip Copilot-specific agent fields.
const (
	metaCopilotArgumentHint = "copilot_argument_hint"
	metaCopilotHandoffs     = "copilot_handoffs"
	metaCopilotTarget       = "copilot_target"
	metaCopilotMCPServers   = "copilot_mcp_servers"
)

// Model name mappings between canonical short names and the display names
// Copilot uses in its model picker.
var (
	canonicalToCopilotModels = map[string]string{
		"sonnet": "Claude Sonnet 4",
		"opus":   "Claude Opus 4",
		"haiku":  "Claude Haiku 4",
	}
	copilotToCanonicalModels = map[string]string{
		"claude sonnet 4": "sonnet",
		"claude opus 4":   "opus",
		"claude haiku 4":  "haiku",
	}
)

// CopilotAdapter handles the GitHub Copilot on-disk format:
//   - agents: .agent.md files with YAML frontmatter (tools as a list, model
//     as display names, a target field, optional argument-hint and handoffs)
//   - slash commands: .prompt.md files
//   - permissions: not supported by Copilot; reads produce an empty policy
//     with a warning, writes produce a placeholder comment
type CopilotAdapter struct {
	warnings []string

	agentFiles glob.Glob
}

func NewCopilotAdapter() *CopilotAdapter {
	return &CopilotAdapter{
		agentFiles: glob.MustCompile("*.agent.md"),
	}
}

func (c *CopilotAdapter) Name() string { return "copilot" }

func (c *CopilotAdapter) Extension(ct canonical.ConfigType) string {
	switch ct {
	case canonical.ConfigTypePermission:
		return ".perm.json"
	case canonical.ConfigTypeSlashCommand:
		return ".prompt.md"
	}
	return ".agent.md"
}

// Supports includes permissions even though Copilot has no permission model:
// the degraded read/write paths keep a permission sync from failing outright.
func (c *CopilotAdapter) Supports(ct canonical.ConfigType) bool {
	switch ct {
	case canonical.ConfigTypeAgent, canonical.ConfigTypePermission, canonical.ConfigTypeSlashCommand:
		return true
	}
	return false
}

func (c *CopilotAdapter) CanHandle(path string) bool {
	name := filepath.Base(path)
	if strings.HasSuffix(name, ".prompt.md") || strings.HasSuffix(name, ".perm.json") {
		return true
	}
	return c.agentFiles.Match(name)
}

func (c *CopilotAdapter) Read(path string, ct canonical.ConfigType) (canonical.Record, error) {
	return readRecord(c, path, ct)
}

func (c *CopilotAdapter) Write(rec canonical.Record, path string, ct canonical.ConfigType, opts Options) error {
	return writeRecord(c, rec, path, ct, opts)
}

func (c *CopilotAdapter) ToCanonical(content string, ct canonical.ConfigType) (canonical.Record, error) {
	c.warnings = nil

	switch ct {
	case canonical.ConfigTypeAgent:
		return c.agentToCanonical(content)
	case canonical.ConfigTypeSlashCommand:
		return c.slashCommandToCanonical(content)
	case canonical.ConfigTypePermission:
		c.warnings = append(c.warnings, "Copilot does not support permission configs; treating as empty")
		return &canonical.Permission{SourceFormat: c.Name()}, nil
	}
	return nil, fmt.Errorf("copilot adapter does not support config type %q", ct)
}

func (c *CopilotAdapter) FromCanonical(rec canonical.Record, ct canonical.ConfigType, opts Options) (string, error) {
	c.warnings = nil

	switch ct {
	case canonical.ConfigTypeAgent:
		a, ok := rec.(*canonical.Agent)
		if !ok {
			return "", fmt.Errorf("expected *canonical.Agent, got %T", rec)
		}
		return c.agentFromCanonical(a, opts)
	case canonical.ConfigTypeSlashCommand:
		cmd, ok := rec.(*canonical.SlashCommand)
		if !ok {
			return "", fmt.Errorf("expected *canonical.SlashCommand, got %T", rec)
		}
		return c.slashCommandFromCanonical(cmd)
	case canonical.ConfigTypePermission:
		return "# Permissions are not explicitly supported by Copilot format\n", nil
	}
	return "", fmt.Errorf("copilot adapter does not support config type %q", ct)
}

func (c *CopilotAdapter) Warnings() []string { return c.warnings }

func (c *CopilotAdapter) agentToCanonical(content string) (canonical.Record, error) {
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	agent := &canonical.Agent{
		Name:         stringField(meta, "name"),
		Description:  stringField(meta, "description"),
		Instructions: body,
		Tools:        toolList(meta["tools"]),
		SourceFormat: c.Name(),
	}

	if model := stringField(meta, "model"); model != "" {
		if canonicalName, ok := copilotToCanonicalModels[strings.ToLower(model)]; ok {
			agent.Model = canonicalName
		} else {
			agent.Model = model
		}
	}

	if v, ok := meta["argument-hint"]; ok {
		agent.AddMetadata(metaCopilotArgumentHint, v)
	}
	if v, ok := meta["handoffs"]; ok {
		agent.AddMetadata(metaCopilotHandoffs, v)
	}
	if v, ok := meta["target"]; ok {
		agent.AddMetadata(metaCopilotTarget, v)
	}
	if v, ok := meta["mcp-servers"]; ok {
		agent.AddMetadata(metaCopilotMCPServers, v)
	}

	return agent, nil
}

func (c *CopilotAdapter) agentFromCanonical(a *canonical.Agent, opts Options) (string, error) {
	fm := newFrontmatter()
	fm.set("name", a.Name)
	fm.set("description", a.Description)

	if v, ok := a.GetMetadata(metaCopilotArgumentHint); ok {
		fm.set("argument-hint", v)
	} else if opts.AddArgumentHint && a.Description != "" {
		fm.set("argument-hint", a.Description)
	}

	if len(a.Tools) > 0 {
		fm.set("tools", a.Tools)
	}

	switch model := strings.ToLower(a.Model); {
	case model == "" || model == "inherit":
		// Inherit means no explicit model; Copilot falls back to the
		// current model picker selection.
	default:
		if copilotName, ok := canonicalToCopilotModels[model]; ok {
			fm.set("model", copilotName)
		} else {
			fm.set("model", a.Model)
		}
	}

	if v, ok := a.GetMetadata(metaCopilotTarget); ok {
		fm.set("target", v)
	} else {
		fm.set("target", "vscode")
	}

	if v, ok := a.GetMetadata(metaCopilotHandoffs); ok {
		fm.set("handoffs", v)
	} else if opts.AddHandoffs {
		fm.set("handoffs", []map[string]any{{
			"label":  "Next Step",
			"agent":  "agent",
			"prompt": "Continue with the next step",
			"send":   false,
		}})
	}

	if v, ok := a.GetMetadata(metaCopilotMCPServers); ok {
		fm.set("mcp-servers", v)
	}

	// Claude-only fields have no Copilot representation.
	if v, ok := a.GetMetadata(metaClaudePermissionMode); ok {
		c.warnings = append(c.warnings, fmt.Sprintf("Dropped unsupported field: permissionMode=%v", v))
	}
	if v, ok := a.GetMetadata(metaClaudeSkills); ok {
		c.warnings = append(c.warnings, fmt.Sprintf("Dropped unsupported field: skills=%v", v))
	}

	return fm.render(a.Instructions)
}

func (c *CopilotAdapter) slashCommandToCanonical(content string) (canonical.Record, error) {
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

func (c *CopilotAdapter) slashCommandFromCanonical(cmd *canonical.SlashCommand) (string, error) {
	return renderSlashCommand(cmd)
}
