package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Output formats.
const (
	// FormatAuto picks FormatConsole on a terminal and FormatJSON otherwise.
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// DefaultLevel is used when no level, or an unknown one, is configured.
const DefaultLevel = zerolog.WarnLevel

// Config contains logging configuration.
type Config struct {
	// Level is a zerolog level name: debug, info, warn, error or disabled.
	Level string
	// Format is one of FormatAuto, FormatConsole or FormatJSON.
	Format string
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	var out io.Writer = w
	if useConsole(cfg.Format, w) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    !IsTerminal(w),
		}
	}

	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel converts a level name, falling back to DefaultLevel.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		return DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return DefaultLevel
	}
	return level
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func useConsole(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	default:
		return IsTerminal(w)
	}
}
