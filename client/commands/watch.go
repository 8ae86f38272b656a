package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce batches rapid filesystem events (editor save storms, bulk
// copies) into a single sync pass.
const watchDebounce = 500 * time.Millisecond

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously sync two directories as files change",
	Long: `Watch both directories and re-run the sync whenever files change.

Watch mode is non-interactive, so conflicts are resolved automatically in
favor of the newer file, as if --force were set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No prompt is available while watching.
		syncFlags.force = true
		syncFlags.noTUI = true

		engine, err := buildEngine()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		ctx := cmd.Context()

		for _, dir := range []string{engine.SourceDir, engine.TargetDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(engine.SourceDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", engine.SourceDir, err)
		}
		if err := watcher.Add(engine.TargetDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", engine.TargetDir, err)
		}

		runSync := func() {
			stats, err := engine.Run(ctx)
			if err != nil {
				log.Error("Sync failed", "error", err)
				return
			}
			if stats.PropagatedToTarget+stats.PropagatedToSource+stats.Deletions > 0 {
				log.Info("Sync complete",
					"to_target", stats.PropagatedToTarget,
					"to_source", stats.PropagatedToSource,
					"deletions", stats.Deletions,
					"errors", stats.Errors)
			}
		}

		log.Info("Watching for changes", "source", engine.SourceDir, "target", engine.TargetDir)
		runSync()

		var debounce *time.Timer
		pending := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !relevantEvent(event, engine.Store.Path()) {
					continue
				}
				log.Debug("Change detected", "file", event.Name, "op", event.Op.String())
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			case <-pending:
				runSync()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Error("Watch error", "error", err)
			}
		}
	},
}

// relevantEvent filters out events the sync itself generates, most notably
// writes to the state file when it lives inside a watched directory.
func relevantEvent(event fsnotify.Event, statePath string) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if name == filepath.Base(statePath) {
		return false
	}
	// Temp files from atomic state saves.
	if len(name) > 0 && name[0] == '.' {
		return false
	}
	return true
}

func init() {
	addSyncFlags(WatchCmd.Flags())
	_ = WatchCmd.MarkFlagRequired("source-dir")
	_ = WatchCmd.MarkFlagRequired("target-dir")
	RootCmd.AddCommand(WatchCmd)
}
