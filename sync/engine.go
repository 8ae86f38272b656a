package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
)

// Engine runs one synchronization pass over a directory pair.
//
// The engine is single-threaded and synchronous: pairs are processed one at a
// time in BaseID order. The only place a run may block indefinitely is the
// conflict resolver callback. Surfaces with their own concurrency should run
// the engine on a worker goroutine and route Logf and the resolver through
// channels; the engine never assumes it is on the display thread.
type Engine struct {
	SourceDir string
	TargetDir string

	Source adapters.FormatAdapter
	Target adapters.FormatAdapter

	ConfigType canonical.ConfigType
	Direction  Direction
	DryRun     bool
	Verbose    bool

	Store    statestore.Store
	Resolver ConflictResolver
	Options  adapters.Options

	// Logf receives human-readable progress lines. Defaults to the
	// package logger.
	Logf func(format string, args ...any)
}

// Run executes the sync pass and returns aggregated statistics. Location
// errors are fatal and reported before any pair is processed; per-pair
// failures are logged, counted, and do not abort the run.
func (e *Engine) Run(ctx context.Context) (*Stats, error) {
	logf := e.Logf
	if logf == nil {
		logf = func(format string, args ...any) {
			log.Info(fmt.Sprintf(format, args...))
		}
	}
	resolver := e.Resolver
	if resolver == nil {
		resolver = NewestWins()
	}

	stats := NewStats(e.DryRun)
	defer func() { stats.Finished = time.Now() }()

	if err := e.Store.Load(); err != nil {
		return stats, err
	}

	pairs, err := Locate(e.SourceDir, e.TargetDir, e.Source, e.Target, e.ConfigType)
	if err != nil {
		return stats, err
	}
	if len(pairs) == 0 {
		logf("no %s records found in either directory", e.ConfigType)
		return stats, nil
	}

	executor := &Executor{
		Source:     e.Source,
		Target:     e.Target,
		SourceDir:  e.SourceDir,
		TargetDir:  e.TargetDir,
		ConfigType: e.ConfigType,
		Store:      e.Store,
		DryRun:     e.DryRun,
		Options:    e.Options,
		Stats:      stats,
		Logf:       logf,
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var stored *statestore.Record
		if rec, ok := e.Store.Get(pair.BaseID); ok {
			stored = &rec
		}

		action, reason := Decide(pair, stored, e.Direction)

		if action == ActionSkip {
			if e.Verbose {
				logf("skip %s: %s", pair.BaseID, reason)
			}
			stats.Skipped++
			continue
		}

		if action == ActionConflict {
			stats.Conflicts++
			resolution, err := resolver(Conflict{
				BaseID:        pair.BaseID,
				SourcePath:    pair.SourcePath,
				TargetPath:    pair.TargetPath,
				SourceModTime: pair.SourceModTime,
				TargetModTime: pair.TargetModTime,
			})
			if err != nil {
				logf("error %s: %v", pair.BaseID, err)
				stats.Errors++
				continue
			}
			action = resolution.Action()
			if action == ActionSkip {
				logf("skip %s: conflict skipped", pair.BaseID)
				stats.Skipped++
				continue
			}
			reason = "conflict resolved"
		}

		logf("%s %s (%s)", e.describe(action), pair.BaseID, reason)
		executor.Apply(pair, action)
	}

	if !e.DryRun {
		if err := e.Store.Save(); err != nil {
			return stats, fmt.Errorf("failed to save sync state: %w", err)
		}
	}
	return stats, nil
}

func (e *Engine) describe(action Action) string {
	switch action {
	case ActionPropagateToTarget:
		return e.Source.Name() + " -> " + e.Target.Name()
	case ActionPropagateToSource:
		return e.Target.Name() + " -> " + e.Source.Name()
	case ActionDeleteTarget:
		return "delete " + e.Target.Name()
	case ActionDeleteSource:
		return "delete " + e.Source.Name()
	}
	return string(action)
}
