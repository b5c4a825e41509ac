package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommands is returned when a line, or one of its pipe segments, is
	// blank.
	ErrNoCommands = errors.New("no commands provided")

	// ErrNoTokens is returned by a Tokenizer for a segment with no tokens.
	ErrNoTokens = errors.New("no tokens")

	// ErrTooManyArguments is returned when a segment has more tokens than the
	// configured maximum.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrUnbalancedQuote is returned by the posix tokenizer for a quote or
	// escape that is never closed.
	ErrUnbalancedQuote = errors.New("unbalanced quote")

	// ErrNotBuiltin is returned when the built-in handler is asked to run a
	// command it doesn't recognise.
	ErrNotBuiltin = errors.New("not a shell builtin")
)

// TooManyCommandsError is returned when a line has more pipe segments than
// the configured maximum.
type TooManyCommandsError struct {
	Count int
	Limit int
}

func (e *TooManyCommandsError) Error() string {
	return fmt.Sprintf("piping limited to %d commands", e.Limit)
}

// SegmentTooLargeError is returned when a trimmed segment reaches the
// configured maximum line length.
type SegmentTooLargeError struct {
	Index  int
	Length int
	Limit  int
}

func (e *SegmentTooLargeError) Error() string {
	return fmt.Sprintf("segment %d is %d bytes, must be under %d", e.Index, e.Length, e.Limit)
}

// BuiltinError reports a built-in command that ran but failed, the
// underlying error is preserved.
type BuiltinError struct {
	Name string
	Err  error
}

func (e *BuiltinError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *BuiltinError) Unwrap() error {
	return e.Err
}

// ExecError reports a resource failure while setting up or spawning a
// pipeline. By the time it is returned every pipe has been closed and every
// stage that was started has been reaped.
type ExecError struct {
	// Stage is the index of the failing stage, or -1 during pipe setup.
	Stage int
	Name  string
	Err   error
}

func (e *ExecError) Error() string {
	if e.Stage < 0 {
		return fmt.Sprintf("pipe setup: %v", e.Err)
	}
	return fmt.Sprintf("stage %d (%s): %v", e.Stage, e.Name, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
