package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/about"
)

var AboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Display information about agentsync",
	Long:  `Provides detailed information about the agentsync configuration synchronizer.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("agentsync: AI Assistant Configuration Synchronizer")
		fmt.Println("Version: " + about.Version)
		fmt.Println("Keeps agents, permissions and slash commands consistent across assistant tools.")
	},
}

func init() {
	RootCmd.AddCommand(AboutCmd)
}
