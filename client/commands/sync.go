package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
	"github.com/ZacheryGlass/coding-agent-settings-sync/client/tui"
	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
	"github.com/ZacheryGlass/coding-agent-settings-sync/sync"
)

var syncFlags struct {
	sourceDir       string
	targetDir       string
	sourceFormat    string
	targetFormat    string
	configType      string
	direction       string
	dryRun          bool
	force           bool
	stateFile       string
	addArgumentHint bool
	addHandoffs     bool
	noTUI           bool
}

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize configuration between two directories",
	Long: `Synchronize configuration records between two directories holding
different assistant formats.

Records are paired by base name across the directories. New records are
copied to the other side, deletions are propagated, and records edited on
both sides since the last sync are reported as conflicts. With --force the
newer side wins automatically; on a terminal an interactive prompt lets you
choose a side per conflict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		stats, err := engine.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(stats.Report(engine.Source.Name(), engine.Target.Name()))
		if stats.Errors > 0 {
			return fmt.Errorf("sync completed with %d error(s)", stats.Errors)
		}
		return nil
	},
}

func buildEngine() (*sync.Engine, error) {
	ct, err := canonical.ParseConfigType(syncFlags.configType)
	if err != nil {
		return nil, err
	}
	direction, err := sync.ParseDirection(syncFlags.direction)
	if err != nil {
		return nil, err
	}
	source, target, err := resolveFormats(syncFlags.sourceFormat, syncFlags.targetFormat, ct)
	if err != nil {
		return nil, err
	}

	statePath := syncFlags.stateFile
	if statePath == "" {
		statePath = os.Getenv("AGENTSYNC_STATE_FILE")
	}
	if statePath == "" {
		statePath, err = statestore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := statestore.NewFileStore(statePath, syncFlags.sourceDir, syncFlags.targetDir)
	if err != nil {
		return nil, err
	}

	return &sync.Engine{
		SourceDir:  syncFlags.sourceDir,
		TargetDir:  syncFlags.targetDir,
		Source:     source,
		Target:     target,
		ConfigType: ct,
		Direction:  direction,
		DryRun:     syncFlags.dryRun,
		Verbose:    verbose,
		Store:      store,
		Resolver:   chooseResolver(),
		Options: adapters.Options{
			AddArgumentHint: syncFlags.addArgumentHint,
			AddHandoffs:     syncFlags.addHandoffs,
		},
	}, nil
}

func resolveFormats(sourceName, targetName string, ct canonical.ConfigType) (adapters.FormatAdapter, adapters.FormatAdapter, error) {
	registry := newRegistry()
	source, ok := registry.Get(sourceName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown source format %q (available: %v)", sourceName, registry.Formats())
	}
	target, ok := registry.Get(targetName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown target format %q (available: %v)", targetName, registry.Formats())
	}
	if sourceName == targetName {
		return nil, nil, fmt.Errorf("source and target formats must differ")
	}
	if !source.Supports(ct) {
		return nil, nil, fmt.Errorf("format %q does not support config type %q", sourceName, ct)
	}
	if !target.Supports(ct) {
		return nil, nil, fmt.Errorf("format %q does not support config type %q", targetName, ct)
	}
	return source, target, nil
}

// chooseResolver picks the conflict policy. --force resolves automatically in
// favor of the newer side; otherwise an interactive prompt is offered when
// attached to a terminal. Non-interactive runs without --force fail each
// conflicting pair rather than hang on a prompt nobody can answer.
func chooseResolver() sync.ConflictResolver {
	if syncFlags.force {
		return sync.NewestWins()
	}
	if !syncFlags.noTUI && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return tui.ConflictPrompt()
	}
	log.Debug("Not attached to a terminal, conflicts will be reported as errors")
	return sync.FailOnConflict()
}

// addSyncFlags registers the flag set shared by sync and watch.
func addSyncFlags(fs *pflag.FlagSet) {
	fs.StringVar(&syncFlags.sourceDir, "source-dir", "", "directory holding source-format records")
	fs.StringVar(&syncFlags.targetDir, "target-dir", "", "directory holding target-format records")
	fs.StringVar(&syncFlags.sourceFormat, "source-format", "claude", "format of the source directory")
	fs.StringVar(&syncFlags.targetFormat, "target-format", "copilot", "format of the target directory")
	fs.StringVar(&syncFlags.configType, "config-type", "agent", "record type to sync (agent, permission, slash_command)")
	fs.StringVar(&syncFlags.direction, "direction", "both", "sync direction (both, source-to-target, target-to-source)")
	fs.BoolVar(&syncFlags.dryRun, "dry-run", false, "report changes without writing anything")
	fs.StringVar(&syncFlags.stateFile, "state-file", "", "sync state file (default ~/"+statestore.DefaultFileName+")")
	fs.BoolVar(&syncFlags.addArgumentHint, "add-argument-hint", false, "populate argument-hint from the description when writing copilot files")
	fs.BoolVar(&syncFlags.addHandoffs, "add-handoffs", false, "add a placeholder handoffs entry when writing copilot files")
}

func init() {
	addSyncFlags(SyncCmd.Flags())
	SyncCmd.Flags().BoolVar(&syncFlags.force, "force", false, "resolve conflicts automatically in favor of the newer file")
	SyncCmd.Flags().BoolVar(&syncFlags.noTUI, "no-tui", false, "disable the interactive conflict prompt")

	_ = SyncCmd.MarkFlagRequired("source-dir")
	_ = SyncCmd.MarkFlagRequired("target-dir")

	RootCmd.AddCommand(SyncCmd)
}
