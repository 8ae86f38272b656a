// Package tui holds the interactive terminal surfaces: a per-conflict prompt
// used during sync when both sides of a record changed.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ZacheryGlass/coding-agent-settings-sync/sync"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	mtimeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type conflictKeyMap struct {
	UseSource key.Binding
	UseTarget key.Binding
	Skip      key.Binding
	Quit      key.Binding
}

var conflictKeys = conflictKeyMap{
	UseSource: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "keep source"),
	),
	UseTarget: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "keep target"),
	),
	Skip: key.NewBinding(
		key.WithKeys("3", "esc"),
		key.WithHelp("3/esc", "skip"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "cancel"),
	),
}

type conflictModel struct {
	conflict   sync.Conflict
	resolution sync.Resolution
	done       bool
}

func newConflictModel(c sync.Conflict) *conflictModel {
	return &conflictModel{conflict: c, resolution: sync.ResolutionSkip}
}

func (m *conflictModel) Init() tea.Cmd {
	return nil
}

func (m *conflictModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, conflictKeys.UseSource):
		m.resolution = sync.ResolutionUseSource
	case key.Matches(keyMsg, conflictKeys.UseTarget):
		m.resolution = sync.ResolutionUseTarget
	case key.Matches(keyMsg, conflictKeys.Skip), key.Matches(keyMsg, conflictKeys.Quit):
		// Cancelling is a normal skip, never an error.
		m.resolution = sync.ResolutionSkip
	default:
		return m, nil
	}

	m.done = true
	return m, tea.Sequence(tea.Printf("%s", m.summary()), tea.Quit)
}

func (m *conflictModel) View() string {
	if m.done {
		return ""
	}

	s := titleStyle.Render(fmt.Sprintf("Conflict: %s", m.conflict.BaseID)) + "\n"
	s += "Both copies changed since the last sync.\n\n"
	s += m.candidate("1", m.conflict.SourcePath, m.conflict.SourceModTime)
	s += m.candidate("2", m.conflict.TargetPath, m.conflict.TargetModTime)
	s += fmt.Sprintf("  %s  skip this record\n", selectedStyle.Render("[3]"))
	s += "\n" + helpStyle.Render("1/2 choose a side, 3/esc/ctrl+c to skip")
	return s
}

func (m *conflictModel) candidate(n, path string, mtime time.Time) string {
	return fmt.Sprintf("  %s  %s %s\n",
		selectedStyle.Render("["+n+"]"),
		pathStyle.Render(path),
		mtimeStyle.Render("(modified "+mtime.Format(time.RFC3339)+")"),
	)
}

func (m *conflictModel) summary() string {
	var choice string
	switch m.resolution {
	case sync.ResolutionUseSource:
		choice = "kept " + m.conflict.SourcePath
	case sync.ResolutionUseTarget:
		choice = "kept " + m.conflict.TargetPath
	default:
		choice = "skipped"
	}
	return fmt.Sprintf("Conflict %s: %s", m.conflict.BaseID, choice)
}

// ConflictPrompt returns a resolver that asks the user to pick a side for
// each conflict in turn. The engine blocks on the prompt, so conflicts are
// presented one at a time in BaseID order. Cancelling the prompt skips the
// conflict; it is never reported as an error.
func ConflictPrompt() sync.ConflictResolver {
	return func(c sync.Conflict) (sync.Resolution, error) {
		model := newConflictModel(c)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return sync.ResolutionSkip, fmt.Errorf("conflict prompt failed: %w", err)
		}
		return model.resolution, nil
	}
}
