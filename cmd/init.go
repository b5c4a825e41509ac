package cmd

import (
	"github.com/josephlewis42/dsh/core/config"
	"github.com/josephlewis42/dsh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config path.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logger.New(logger.Config{
			Level:  "info",
			Format: logger.FormatConsole,
		}, cmd.ErrOrStderr())

		return config.Initialize(afero.NewOsFs(), cfgPath, log)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
