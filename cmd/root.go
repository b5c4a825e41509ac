package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/josephlewis42/dsh/core"
	"github.com/josephlewis42/dsh/core/config"
	"github.com/josephlewis42/dsh/core/logger"
	"github.com/josephlewis42/dsh/core/shell"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath       string
	commandString string
)

// exitStatus carries a non-zero shell status out of Execute.
type exitStatus int

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func statusError(cmd *cobra.Command, status int) error {
	if status == 0 {
		return nil
	}
	cmd.SilenceErrors = true
	return exitStatus(status)
}

func loadConfig(cmd *cobra.Command) (*config.Configuration, zerolog.Logger, error) {
	configuration, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.New(configuration.LoggerConfig(), cmd.ErrOrStderr())
	log.Debug().Str("config", cfgPath).Msg("loaded configuration")
	return configuration, log, nil
}

// newShell wires the line core and read loop to the command's streams.
func newShell(cmd *cobra.Command, configuration *config.Configuration, log zerolog.Logger, reader core.LineReader, parseOnly bool) *core.Shell {
	opts := configuration.ShellOptions()
	opts.WorkDir = shell.OSWorkDir{}
	opts.Stdin = cmd.InOrStdin()
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()
	opts.Log = log

	return core.NewShell(shell.New(opts), reader, core.ShellConfig{
		Prompt:    configuration.Prompt,
		Color:     configuration.Color,
		ParseOnly: parseOnly,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Log:       log,
	})
}

// runLine runs a single line given on the command line.
func runLine(cmd *cobra.Command, line string, parseOnly bool) error {
	configuration, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sh := newShell(cmd, configuration, log, nil, parseOnly)
	sh.RunLine(line)
	return statusError(cmd, sh.LastStatus())
}

// runInteractive reads lines until exit or end of input.
func runInteractive(cmd *cobra.Command, parseOnly bool) error {
	configuration, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rl, err := core.NewReadline(
		configuration.Prompt,
		io.NopCloser(cmd.InOrStdin()),
		cmd.OutOrStdout(),
		cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rl.Close()

	sh := newShell(cmd, configuration, log, rl, parseOnly)
	return statusError(cmd, sh.Run())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dsh",
	Short: "A small pipeline shell",
	Long: `dsh reads command lines, splits them on pipes and runs each command
as its own process with the output of one feeding the input of the next.

The built-ins exit, cd and dragon run inside the shell when they are the
only command on a line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if cmd.Flags().Changed("command") {
			return runLine(cmd, commandString, false)
		}

		return runInteractive(cmd, false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	var status exitStatus
	if errors.As(err, &status) {
		os.Exit(int(status))
	}
	cobra.CheckErr(err)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "dsh")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
	rootCmd.Flags().StringVarP(&commandString, "command", "c", "", "run a single command line and exit with its status")
}
