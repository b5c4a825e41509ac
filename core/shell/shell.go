package shell

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Status classifies what happened to one line.
type Status int

const (
	// StatusOK means the line ran; the pipeline's result is in the Outcome.
	StatusOK Status = iota
	StatusNoCommands
	StatusTooManyCommands
	StatusSegmentTooLarge
	StatusTooManyArguments
	StatusQuoteError
	StatusBuiltinError
	StatusExecError
	// StatusExit means the exit built-in ran.
	StatusExit
)

var statusNames = map[Status]string{
	StatusOK:               "ok",
	StatusNoCommands:       "no-commands",
	StatusTooManyCommands:  "too-many-commands",
	StatusSegmentTooLarge:  "segment-too-large",
	StatusTooManyArguments: "too-many-arguments",
	StatusQuoteError:       "quote-error",
	StatusBuiltinError:     "builtin-error",
	StatusExecError:        "exec-error",
	StatusExit:             "exit",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Result is the classification of one line.
type Result struct {
	Status Status
	// Outcome is set when an external pipeline ran.
	Outcome *Outcome
	// Err is the parse, built-in or exec error behind a failing Status.
	Err error
}

// ExitCode maps the result to a process status: the pipeline aggregate when
// a pipeline ran, 2 for lines that didn't parse, 1 for other failures.
func (r Result) ExitCode() int {
	switch r.Status {
	case StatusOK:
		if r.Outcome != nil {
			return r.Outcome.ExitCode()
		}
		return 0
	case StatusExit, StatusNoCommands:
		return 0
	case StatusTooManyCommands, StatusSegmentTooLarge, StatusTooManyArguments, StatusQuoteError:
		return 2
	default:
		return 1
	}
}

// Options configures a Core. Zero values select the defaults.
type Options struct {
	Limits    Limits
	Tokenizer TokenizerMode
	// Banner replaces the dragon art.
	Banner string
	// WorkDir defaults to the process working directory.
	WorkDir WorkDir

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is passed to every stage, nil inherits the shell's environment.
	Env []string

	Log zerolog.Logger
}

// Core turns lines into actions: parse, then run a built-in or a pipeline.
type Core struct {
	Parser   *Parser
	Builtins *Builtins
	Executor *Executor

	log zerolog.Logger
}

// New wires a parser, built-in handler and executor around one working
// directory.
func New(opts Options) *Core {
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	if opts.Tokenizer == "" {
		opts.Tokenizer = ModeDsh
	}
	if opts.WorkDir == nil {
		opts.WorkDir = OSWorkDir{}
	}

	return &Core{
		Parser: NewParser(opts.Limits, opts.Tokenizer),
		Builtins: &Builtins{
			WorkDir: opts.WorkDir,
			Stdout:  opts.Stdout,
			Banner:  opts.Banner,
			Log:     opts.Log,
		},
		Executor: &Executor{
			Stdin:   opts.Stdin,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
			WorkDir: opts.WorkDir,
			Env:     opts.Env,
			Log:     opts.Log,
		},
		log: opts.Log,
	}
}

// RunLine parses and runs one line. Built-ins are only recognised when the
// line is a single command, inside a pipeline every stage is external.
func (c *Core) RunLine(line string) Result {
	pipeline, res := c.Parse(line)
	if res.Status != StatusOK {
		return res
	}

	if pipeline.Len() == 1 {
		cmd := pipeline.Commands[0]
		if Classify(cmd.Name()) != NotBuiltin {
			action, err := c.Builtins.Run(cmd)
			switch {
			case err != nil:
				return Result{Status: StatusBuiltinError, Err: err}
			case action == ActionExit:
				return Result{Status: StatusExit}
			default:
				return Result{Status: StatusOK}
			}
		}
	}

	outcome, err := c.Executor.Run(pipeline)
	if err != nil {
		c.log.Debug().Err(err).Msg("pipeline failed")
		return Result{Status: StatusExecError, Err: err}
	}
	if i, failed := outcome.FirstFailure(); failed {
		c.log.Debug().Int("stage", i).Int("exit_code", outcome.ExitCode()).Msg("pipeline finished with failure")
	}
	return Result{Status: StatusOK, Outcome: outcome}
}

// Parse parses line without running it. The Result classifies a parse
// failure, its Status is StatusOK when the pipeline is usable.
func (c *Core) Parse(line string) (*Pipeline, Result) {
	pipeline, err := c.Parser.Parse(line)
	if err != nil {
		status := classifyParseError(err)
		c.log.Debug().Str("status", status.String()).Err(err).Msg("line rejected")
		return nil, Result{Status: status, Err: err}
	}
	c.log.Debug().Int("commands", pipeline.Len()).Msg("line parsed")
	return pipeline, Result{Status: StatusOK}
}

func classifyParseError(err error) Status {
	var tooMany *TooManyCommandsError
	var tooLarge *SegmentTooLargeError

	switch {
	case errors.As(err, &tooMany):
		return StatusTooManyCommands
	case errors.As(err, &tooLarge):
		return StatusSegmentTooLarge
	case errors.Is(err, ErrTooManyArguments):
		return StatusTooManyArguments
	case errors.Is(err, ErrUnbalancedQuote):
		return StatusQuoteError
	default:
		return StatusNoCommands
	}
}
