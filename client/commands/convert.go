package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

var convertFlags struct {
	from            string
	to              string
	configType      string
	addArgumentHint bool
	addHandoffs     bool
}

func conversionOptions() adapters.Options {
	return adapters.Options{
		AddArgumentHint: convertFlags.addArgumentHint,
		AddHandoffs:     convertFlags.addHandoffs,
	}
}

// detectFormat infers a format from the file's shape, falling back when no
// adapter claims the path.
func detectFormat(path, fallback string) string {
	if a, ok := newRegistry().Detect(path); ok {
		return a.Name()
	}
	return fallback
}

var ConvertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a single file between formats",
	Long: `Convert one configuration file from one format to another without
involving sync state. The input format is detected from the file name unless
--from is given. With no output path the converted content is printed to
stdout.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := canonical.ParseConfigType(convertFlags.configType)
		if err != nil {
			return err
		}
		from := convertFlags.from
		if !cmd.Flags().Changed("from") {
			from = detectFormat(args[0], from)
		}
		source, target, err := resolveFormats(from, convertFlags.to, ct)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		rec, err := source.Read(args[0], ct)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		for _, w := range source.Warnings() {
			log.Warn(w)
		}

		if len(args) == 2 {
			if err := target.Write(rec, args[1], ct, conversionOptions()); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			for _, w := range target.Warnings() {
				log.Warn(w)
			}
			log.Info("Converted", "from", args[0], "to", args[1])
			return nil
		}

		content, err := target.FromCanonical(rec, ct, conversionOptions())
		if err != nil {
			return fmt.Errorf("failed to convert to %s format: %w", target.Name(), err)
		}
		for _, w := range target.Warnings() {
			log.Warn(w)
		}
		fmt.Print(content)
		return nil
	},
}

func init() {
	ConvertCmd.Flags().StringVar(&convertFlags.from, "from", "claude", "format of the input file")
	ConvertCmd.Flags().StringVar(&convertFlags.to, "to", "copilot", "format to convert to")
	ConvertCmd.Flags().StringVar(&convertFlags.configType, "config-type", "agent", "record type (agent, permission, slash_command)")
	ConvertCmd.Flags().BoolVar(&convertFlags.addArgumentHint, "add-argument-hint", false, "populate argument-hint from the description when writing copilot files")
	ConvertCmd.Flags().BoolVar(&convertFlags.addHandoffs, "add-handoffs", false, "add a placeholder handoffs entry when writing copilot files")

	RootCmd.AddCommand(ConvertCmd)
}
