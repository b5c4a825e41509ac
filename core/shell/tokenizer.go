package shell

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// TokenizerMode selects the quoting rules used to split a segment.
type TokenizerMode string

const (
	// ModeDsh splits lines on every '|', then splits commands on spaces
	// and honours double quotes only. An unclosed quote runs to the end of
	// the segment.
	ModeDsh TokenizerMode = "dsh"
	// ModePosix uses POSIX shell word splitting: single quotes, double quotes
	// and backslash escapes. An unclosed quote is an error.
	ModePosix TokenizerMode = "posix"
)

// Tokenizer turns one pipe segment into argument tokens.
type Tokenizer interface {
	Tokenize(segment string) ([]string, error)
}

// NewTokenizer returns the tokenizer for mode, falling back to ModeDsh for
// unknown modes.
func NewTokenizer(mode TokenizerMode, maxArgs int) Tokenizer {
	if mode == ModePosix {
		return &ShlexTokenizer{MaxArgs: maxArgs}
	}
	return &DshTokenizer{MaxArgs: maxArgs}
}

// DshTokenizer implements the dsh quoting rules.
type DshTokenizer struct {
	// MaxArgs bounds the token count, zero means unbounded.
	MaxArgs int
}

var _ Tokenizer = (*DshTokenizer)(nil)

// Tokenize splits segment into tokens. Runs of spaces separate tokens. A '"'
// ends any unquoted token before it and starts a quoted token that extends
// to the next '"' or the end of the segment. Quotes are never part of a
// token, so a"b" is the two tokens a and b.
func (t *DshTokenizer) Tokenize(segment string) ([]string, error) {
	var tokens []string

	pos := 0
	for {
		for pos < len(segment) && segment[pos] == ' ' {
			pos++
		}
		if pos >= len(segment) {
			break
		}

		var token string
		if segment[pos] == '"' {
			rest := segment[pos+1:]
			if end := strings.IndexByte(rest, '"'); end >= 0 {
				token = rest[:end]
				pos += end + 2
			} else {
				token = rest
				pos = len(segment)
			}
		} else {
			rest := segment[pos:]
			if end := strings.IndexAny(rest, ` "`); end >= 0 {
				token = rest[:end]
				pos += end
			} else {
				token = rest
				pos = len(segment)
			}
		}

		if t.MaxArgs > 0 && len(tokens) == t.MaxArgs {
			return nil, ErrTooManyArguments
		}
		// Clone so the command doesn't pin the caller's line.
		tokens = append(tokens, strings.Clone(token))
	}

	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}
	return tokens, nil
}

// ShlexTokenizer splits segments with POSIX shell rules.
type ShlexTokenizer struct {
	MaxArgs int
}

var _ Tokenizer = (*ShlexTokenizer)(nil)

func (t *ShlexTokenizer) Tokenize(segment string) ([]string, error) {
	tokens, err := shlex.Split(segment, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedQuote, err)
	}
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}
	if t.MaxArgs > 0 && len(tokens) > t.MaxArgs {
		return nil, ErrTooManyArguments
	}
	return tokens, nil
}

// quoteRules describes how quotes affect splitting a line on '|' and
// trimming its segments.
type quoteRules struct {
	quotes  string
	escapes bool
	// protectsSep keeps a quoted or escaped separator inside its segment.
	// Without it every separator splits and quotes only matter to trim.
	protectsSep bool
}

func quoteRulesFor(mode TokenizerMode) quoteRules {
	if mode == ModePosix {
		return quoteRules{quotes: `"'`, escapes: true, protectsSep: true}
	}
	return quoteRules{quotes: `"`}
}

// trim removes leading and trailing spaces that sit outside quotes. Trailing
// spaces inside a quote left open at the end of the segment are kept.
func (q quoteRules) trim(segment string) string {
	segment = strings.TrimLeft(segment, " ")
	if q.openAtEnd(segment) {
		return segment
	}
	return strings.TrimRight(segment, " ")
}

// splitSegments splits line on sep. n separators that split always give n+1
// segments, empty ones included.
func (q quoteRules) splitSegments(line string, sep byte) []string {
	if !q.protectsSep {
		return strings.Split(line, string(sep))
	}

	var segments []string
	start := 0
	q.scan(line, func(i int, c byte, quoted bool) {
		if c == sep && !quoted {
			segments = append(segments, line[start:i])
			start = i + 1
		}
	})
	return append(segments, line[start:])
}

// openAtEnd reports whether a quote or escape is still open at the end of s.
func (q quoteRules) openAtEnd(s string) bool {
	return q.scan(s, func(int, byte, bool) {})
}

// scan calls fn for each byte of s with whether it is quoted or escaped, and
// reports whether a quote or escape was left open.
func (q quoteRules) scan(s string, fn func(i int, c byte, quoted bool)) bool {
	var (
		open    byte
		escaped bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
			fn(i, c, true)
		case q.escapes && c == '\\' && open != '\'':
			escaped = true
			fn(i, c, true)
		case open != 0:
			if c == open {
				open = 0
			}
			fn(i, c, true)
		case strings.IndexByte(q.quotes, c) >= 0:
			open = c
			fn(i, c, true)
		default:
			fn(i, c, false)
		}
	}

	return open != 0 || escaped
}
