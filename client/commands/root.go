package commands

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/about"
	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
)

// envFile is loaded from the working directory if present. Flags always win
// over values it sets.
const envFile = ".agentsync.env"

var verbose bool

// RootCmd represents the base command for the client
var RootCmd = &cobra.Command{
	Use:   "agentsync",
	Short: "Sync configuration between AI coding assistants",
	Long: `Agentsync keeps agent definitions, permissions and slash commands in sync
between the configuration directories of different AI coding assistants,
converting between their native file formats as it goes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err == nil {
			log.Debug("Loaded environment file", "file", envFile)
		}

		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		log.Debug("Starting agentsync", "version", about.Version, "args", os.Args[1:])
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newRegistry returns the registry with all built-in formats installed.
func newRegistry() *adapters.Registry {
	r := adapters.NewRegistry()
	// Registration only fails on duplicate names.
	_ = r.Register(adapters.NewClaudeAdapter())
	_ = r.Register(adapters.NewCopilotAdapter())
	return r
}

// GetRootCommand returns the root Cobra command for the client
func GetRootCommand() *cobra.Command {
	return RootCmd
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
