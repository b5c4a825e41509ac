package core

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/dsh/core/logger"
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

// ColorPrinter colours read loop messages according to a colour mode.
type ColorPrinter struct {
	mode string
	out  io.Writer

	warning *color.Color
	failure *color.Color
}

// NewColorPrinter creates a printer for out with mode always, auto or never.
// Unknown modes behave like auto.
func NewColorPrinter(mode string, out io.Writer) *ColorPrinter {
	c := &ColorPrinter{
		mode:    mode,
		out:     out,
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
	}

	// The package level setting follows os.Stdout, the shell may be writing
	// elsewhere.
	if c.ShouldColor() {
		c.warning.EnableColor()
		c.failure.EnableColor()
	} else {
		c.warning.DisableColor()
		c.failure.DisableColor()
	}
	return c
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.mode {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		return logger.IsTerminal(c.out)
	}
}

// Warnf prints a warning line.
func (c *ColorPrinter) Warnf(format string, a ...interface{}) {
	fmt.Fprintln(c.out, c.warning.Sprintf(format, a...))
}

// Errorf prints an error line.
func (c *ColorPrinter) Errorf(format string, a ...interface{}) {
	fmt.Fprintln(c.out, c.failure.Sprintf(format, a...))
}
