package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/about"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the current agentsync version",
	Long:  `Displays the current agentsync version.`,
	Run: func(cmd *cobra.Command, args []string) {
		versionParts := strings.Split(about.Version, "-")
		fmt.Println("agentsync version: " + versionParts[0])
		if len(versionParts) > 1 {
			fmt.Println("Build: " + versionParts[1])
		}
	},
}

func init() {
	RootCmd.AddCommand(VersionCmd)
}
