package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/dsh/core/shell"
	"github.com/rs/zerolog"
)

const (
	DefaultPrompt = "dsh3> "

	// ExitReadError is the status when input can't be read.
	ExitReadError = 1
)

// LineReader supplies input lines, *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var _ LineReader = (*readline.Instance)(nil)

// ShellConfig holds the read loop settings.
type ShellConfig struct {
	// Prompt is shown before each line, empty selects DefaultPrompt.
	Prompt string
	// Color is always, auto or never.
	Color string
	// ParseOnly lists each parsed pipeline instead of running it.
	ParseOnly bool

	// Stdout receives the parse warnings and errors.
	Stdout io.Writer
	// Stderr receives built-in and exec failures.
	Stderr io.Writer

	Log zerolog.Logger
}

// Shell is the interactive read loop around a shell.Core.
type Shell struct {
	core   *shell.Core
	reader LineReader
	prompt string
	stdout io.Writer

	parseOnly bool

	out *ColorPrinter
	err *ColorPrinter
	log zerolog.Logger

	lastStatus int
}

// NewShell creates a read loop. The reader may be nil when lines are only
// fed through RunLine.
func NewShell(core *shell.Core, reader LineReader, cfg ShellConfig) *Shell {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	if cfg.Stderr == nil {
		cfg.Stderr = io.Discard
	}

	return &Shell{
		core:   core,
		reader: reader,
		prompt: cfg.Prompt,
		stdout: cfg.Stdout,

		parseOnly: cfg.ParseOnly,
		out:       NewColorPrinter(cfg.Color, cfg.Stdout),
		err:       NewColorPrinter(cfg.Color, cfg.Stderr),
		log:       cfg.Log,
	}
}

// NewReadline creates the line reader used for interactive sessions.
func NewReadline(prompt string, stdin io.ReadCloser, stdout, stderr io.Writer) (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt: prompt,
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// LastStatus is the status of the most recent line that ran.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

// Run reads and runs lines until exit or end of input, and returns the last
// status.
func (s *Shell) Run() int {
	for {
		s.reader.SetPrompt(s.prompt)
		line, err := s.reader.Readline()

		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.stdout)
			return s.lastStatus

		case errors.Is(err, readline.ErrInterrupt):
			// The partial line is discarded.
			continue

		case err != nil:
			s.log.Error().Err(err).Msg("reading input")
			s.lastStatus = ExitReadError
			return s.lastStatus
		}

		if exit := s.RunLine(line); exit {
			return s.lastStatus
		}
	}
}

// RunLine runs one line and reports its problems the way the interactive
// shell does. It returns true when the line asked the shell to exit.
func (s *Shell) RunLine(line string) (exit bool) {
	if s.parseOnly {
		return s.parseLine(line)
	}

	res := s.core.RunLine(line)
	s.log.Debug().Str("status", res.Status.String()).Int("exit_code", res.ExitCode()).Msg("line finished")

	if res.Status == shell.StatusExit {
		s.lastStatus = 0
		return true
	}
	s.report(res)
	return false
}

// parseLine prints the pipeline for line. A lone exit still ends the loop.
func (s *Shell) parseLine(line string) (exit bool) {
	pipeline, res := s.core.Parse(line)
	if res.Status != shell.StatusOK {
		s.report(res)
		return false
	}

	if pipeline.Len() == 1 && shell.Classify(pipeline.Commands[0].Name()) == shell.BuiltinExit {
		s.lastStatus = 0
		return true
	}

	if err := shell.WriteParsed(s.stdout, pipeline); err != nil {
		s.log.Error().Err(err).Msg("writing parsed line")
		s.lastStatus = 1
		return false
	}
	s.lastStatus = 0
	return false
}

// report prints the message for a failed line and records its status.
func (s *Shell) report(res shell.Result) {
	switch res.Status {
	case shell.StatusNoCommands:
		s.out.Warnf("warning: %v", shell.ErrNoCommands)
		// Nothing ran, $? is unchanged.
		return

	case shell.StatusTooManyCommands:
		var tooMany *shell.TooManyCommandsError
		if errors.As(res.Err, &tooMany) {
			s.out.Errorf("error: piping limited to %d commands", tooMany.Limit)
		} else {
			s.out.Errorf("error: %v", res.Err)
		}

	case shell.StatusSegmentTooLarge, shell.StatusTooManyArguments:
		s.out.Errorf("error: command or arguments too big")

	case shell.StatusQuoteError:
		s.out.Errorf("error: unterminated quote")

	case shell.StatusBuiltinError, shell.StatusExecError:
		s.err.Errorf("dsh: %v", res.Err)
	}

	s.lastStatus = res.ExitCode()
}
