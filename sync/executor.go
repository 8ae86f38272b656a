package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
)

// Executor applies resolved actions: converting and writing records, deleting
// stale copies, and recording the updated sync state. It is the error
// boundary for per-pair work.
type Executor struct {
	Source     adapters.FormatAdapter
	Target     adapters.FormatAdapter
	SourceDir  string
	TargetDir  string
	ConfigType canonical.ConfigType
	Store      statestore.Store
	DryRun     bool
	Options    adapters.Options
	Stats      *Stats
	Logf       func(format string, args ...any)
}

// Apply performs the action for one pair. Failures are contained to the pair:
// logged, counted as errors, and never allowed to abort the remaining pairs.
// Statistics are updated regardless of dry-run mode; the state store is only
// touched by live writes and deletes.
func (e *Executor) Apply(pair Pair, action Action) {
	if err := e.apply(pair, action); err != nil {
		e.logf("  error: %s: %v", pair.BaseID, err)
		e.Stats.Errors++
		return
	}
	e.Stats.Count(action)
}

func (e *Executor) apply(pair Pair, action Action) error {
	switch action {
	case ActionPropagateToTarget:
		return e.propagate(pair, propagateToTarget)
	case ActionPropagateToSource:
		return e.propagate(pair, propagateToSource)
	case ActionDeleteTarget:
		return e.delete(pair.BaseID, pair.TargetPath)
	case ActionDeleteSource:
		return e.delete(pair.BaseID, pair.SourcePath)
	case ActionSkip:
		return nil
	}
	return fmt.Errorf("unexpected action %q", action)
}

type propagateDirection int

const (
	propagateToTarget propagateDirection = iota
	propagateToSource
)

func (e *Executor) propagate(pair Pair, dir propagateDirection) error {
	from, to := e.Source, e.Target
	fromPath := pair.SourcePath
	toPath := pair.TargetPath
	toDir := e.TargetDir
	if dir == propagateToSource {
		from, to = e.Target, e.Source
		fromPath = pair.TargetPath
		toPath = pair.SourcePath
		toDir = e.SourceDir
	}

	rec, err := from.Read(fromPath, e.ConfigType)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fromPath, err)
	}

	if toPath == "" {
		toPath = filepath.Join(toDir, pair.BaseID+to.Extension(e.ConfigType))
	}

	// Conversion runs in dry-run too, so decisions and warnings match a
	// live run; only the write is skipped.
	content, err := to.FromCanonical(rec, e.ConfigType, e.Options)
	if err != nil {
		return fmt.Errorf("failed to convert %s to %s format: %w", pair.BaseID, to.Name(), err)
	}

	for _, w := range from.Warnings() {
		e.logf("    warning: %s", w)
	}
	for _, w := range to.Warnings() {
		e.logf("    warning: %s", w)
	}

	if e.DryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(toPath), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(toPath), err)
	}
	if err := os.WriteFile(toPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", toPath, err)
	}

	// Writing changed the file's mod time; record what is now on disk
	// rather than the pre-write timestamps.
	sourceMtime := timeOrNil(pair.SourceModTime)
	targetMtime := timeOrNil(pair.TargetModTime)
	if fi, err := os.Stat(toPath); err == nil {
		written := fi.ModTime()
		if dir == propagateToTarget {
			targetMtime = &written
		} else {
			sourceMtime = &written
		}
	}

	action := ActionPropagateToTarget
	if dir == propagateToSource {
		action = ActionPropagateToSource
	}
	e.Store.Put(pair.BaseID, statestore.Record{
		LastSourceModTime: sourceMtime,
		LastTargetModTime: targetMtime,
		LastAction:        string(action),
		LastSyncTime:      time.Now(),
	})
	return nil
}

func (e *Executor) delete(baseID, path string) error {
	if e.DryRun {
		return nil
	}
	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	e.Store.Remove(baseID)
	return nil
}

func (e *Executor) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
