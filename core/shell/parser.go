package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// PipeChar separates the commands of a pipeline.
const PipeChar = '|'

// Limits holds the size bounds the parser enforces.
type Limits struct {
	// MaxLineLength bounds each trimmed segment: a segment this long or
	// longer is rejected.
	MaxLineLength int
	// MaxArgs bounds the tokens in one command.
	MaxArgs int
	// MaxCommands bounds the commands in one pipeline.
	MaxCommands int
}

// DefaultLimits returns the limits dsh ships with.
func DefaultLimits() Limits {
	return Limits{
		MaxLineLength: 320,
		MaxArgs:       8,
		MaxCommands:   8,
	}
}

// Command is one stage of a pipeline: an executable name followed by its
// arguments. A Command owns its tokens and is never empty.
type Command struct {
	argv []string
}

// NewCommand builds a command from argv, copying it.
func NewCommand(argv ...string) (*Command, error) {
	if len(argv) == 0 {
		return nil, ErrNoTokens
	}
	return &Command{argv: append([]string(nil), argv...)}, nil
}

// Name is the executable or built-in name.
func (c *Command) Name() string {
	return c.argv[0]
}

// Args returns the arguments after the name.
func (c *Command) Args() []string {
	return append([]string(nil), c.argv[1:]...)
}

// Argv returns a copy of the full argument vector, name first.
func (c *Command) Argv() []string {
	return append([]string(nil), c.argv...)
}

// Len is the number of tokens including the name.
func (c *Command) Len() int {
	return len(c.argv)
}

func (c *Command) String() string {
	return strings.Join(c.argv, " ")
}

// Pipeline is an ordered list of commands where each command's stdout feeds
// the next command's stdin.
type Pipeline struct {
	Commands []*Command
}

// Len is the number of stages.
func (p *Pipeline) Len() int {
	return len(p.Commands)
}

// Parser turns raw lines into pipelines.
type Parser struct {
	limits    Limits
	tokenizer Tokenizer
	rules     quoteRules
}

// NewParser creates a parser with the given limits and quoting mode.
func NewParser(limits Limits, mode TokenizerMode) *Parser {
	return &Parser{
		limits:    limits,
		tokenizer: NewTokenizer(mode, limits.MaxArgs),
		rules:     quoteRulesFor(mode),
	}
}

// Limits returns the limits the parser enforces.
func (p *Parser) Limits() Limits {
	return p.limits
}

// Parse splits line into a pipeline.
//
// A blank line, or a line with any blank segment ("a | | b", "| a"), fails
// with ErrNoCommands. Too many segments fails with *TooManyCommandsError
// before any segment is tokenized, and an oversized segment fails with
// *SegmentTooLargeError. Tokenizer failures other than ErrNoTokens are
// returned wrapped with the segment index.
func (p *Parser) Parse(line string) (*Pipeline, error) {
	raw := p.rules.splitSegments(line, PipeChar)

	segments := make([]string, len(raw))
	for i, seg := range raw {
		segments[i] = p.rules.trim(seg)
		if segments[i] == "" {
			return nil, ErrNoCommands
		}
	}

	if limit := p.limits.MaxCommands; limit > 0 && len(segments) > limit {
		return nil, &TooManyCommandsError{Count: len(segments), Limit: limit}
	}

	if limit := p.limits.MaxLineLength; limit > 0 {
		for i, seg := range segments {
			if len(seg) >= limit {
				return nil, &SegmentTooLargeError{Index: i, Length: len(seg), Limit: limit}
			}
		}
	}

	pipeline := &Pipeline{Commands: make([]*Command, 0, len(segments))}
	for i, seg := range segments {
		tokens, err := p.tokenizer.Tokenize(seg)
		switch {
		case errors.Is(err, ErrNoTokens):
			return nil, ErrNoCommands
		case err != nil:
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		pipeline.Commands = append(pipeline.Commands, &Command{argv: tokens})
	}

	return pipeline, nil
}

// WriteParsed prints the pipeline the way the parse-only mode reports it:
// a header with the command count then one "<n> exe [args]" line per
// command.
func WriteParsed(w io.Writer, p *Pipeline) error {
	if _, err := fmt.Fprintf(w, "PARSED COMMAND LINE - TOTAL COMMANDS %d\n", p.Len()); err != nil {
		return err
	}
	for i, cmd := range p.Commands {
		var err error
		if args := cmd.Args(); len(args) > 0 {
			_, err = fmt.Fprintf(w, "<%d> %s [%s]\n", i+1, cmd.Name(), strings.Join(args, " "))
		} else {
			_, err = fmt.Fprintf(w, "<%d> %s\n", i+1, cmd.Name())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
