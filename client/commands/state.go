package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
)

var stateFlags struct {
	stateFile string
	sourceDir string
	targetDir string
}

var StateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and manage persisted sync state",
	Long: `Inspect and manage the sync state file. State is scoped to a directory
pair, so the same source and target directories used for syncing select the
records to operate on.`,
}

var StateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked records for a directory pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ids := store.BaseIDs()
		if len(ids) == 0 {
			fmt.Println("No tracked records for this directory pair.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var StateShowCmd = &cobra.Command{
	Use:   "show [record]",
	Short: "Show the stored sync record for one base identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		rec, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("no sync record for %q", args[0])
		}
		jv, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		fmt.Println(string(jv))
		return nil
	},
}

var stateClearAll bool

var StateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget sync history for a directory pair",
	Long: `Forget sync history for a directory pair. The next sync treats every
record as if it had never been synced. With --all the entire state file is
removed, clearing every directory pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stateClearAll {
			path, err := statePath()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove state file: %w", err)
			}
			log.Info("Removed state file", "path", path)
			return nil
		}

		store, err := openStateStore()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ids := store.BaseIDs()
		for _, id := range ids {
			store.Remove(id)
		}
		if err := store.Save(); err != nil {
			return err
		}
		log.Info("Cleared sync history", "records", len(ids))
		return nil
	},
}

func statePath() (string, error) {
	if stateFlags.stateFile != "" {
		return stateFlags.stateFile, nil
	}
	if env := os.Getenv("AGENTSYNC_STATE_FILE"); env != "" {
		return env, nil
	}
	return statestore.DefaultPath()
}

func openStateStore() (statestore.Store, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}
	store, err := statestore.NewFileStore(path, stateFlags.sourceDir, stateFlags.targetDir)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func init() {
	StateCmd.PersistentFlags().StringVar(&stateFlags.stateFile, "state-file", "", "sync state file (default ~/"+statestore.DefaultFileName+")")
	StateCmd.PersistentFlags().StringVar(&stateFlags.sourceDir, "source-dir", "", "source directory of the pair")
	StateCmd.PersistentFlags().StringVar(&stateFlags.targetDir, "target-dir", "", "target directory of the pair")

	StateClearCmd.Flags().BoolVar(&stateClearAll, "all", false, "remove the entire state file")

	StateCmd.AddCommand(StateListCmd)
	StateCmd.AddCommand(StateShowCmd)
	StateCmd.AddCommand(StateClearCmd)
	RootCmd.AddCommand(StateCmd)
}
