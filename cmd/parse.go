package cmd

import (
	"github.com/spf13/cobra"
)

// parseCmd prints how lines are split without running anything
var parseCmd = &cobra.Command{
	Use:   "parse [LINE]",
	Short: "Show how command lines are parsed without running them.",
	Long: `Prints the commands of each line with their arguments. With LINE, only
that line is parsed; otherwise lines are read until exit or end of input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if len(args) == 1 {
			return runLine(cmd, args[0], true)
		}

		return runInteractive(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
