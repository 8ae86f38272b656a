package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

var FormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported configuration formats",
	Long:  `List supported configuration formats with the record types and file extensions each one handles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := newRegistry()
		configTypes := []canonical.ConfigType{
			canonical.ConfigTypeAgent,
			canonical.ConfigTypePermission,
			canonical.ConfigTypeSlashCommand,
		}

		for _, name := range registry.Formats() {
			a, _ := registry.Get(name)
			fmt.Println(name)
			for _, ct := range configTypes {
				if !a.Supports(ct) {
					continue
				}
				fmt.Printf("  %-14s %s\n", string(ct)+":", a.Extension(ct))
			}
		}
		fmt.Println()
		fmt.Println("Config types: " + strings.Join(configTypeNames(configTypes), ", "))
		return nil
	},
}

func configTypeNames(cts []canonical.ConfigType) []string {
	names := make([]string, len(cts))
	for i, ct := range cts {
		names[i] = string(ct)
	}
	return names
}

func init() {
	RootCmd.AddCommand(FormatsCmd)
}
