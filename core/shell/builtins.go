package shell

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/rs/zerolog"
)

//go:embed dragon.txt
var defaultBanner string

// DefaultBanner returns the art printed by the dragon built-in.
func DefaultBanner() string {
	return defaultBanner
}

// Action tells the caller what a built-in did.
type Action int

const (
	// ActionHandled means the built-in ran and the shell keeps reading.
	ActionHandled Action = iota
	// ActionExit means the shell should stop its read loop.
	ActionExit
)

func (a Action) String() string {
	if a == ActionExit {
		return "exit"
	}
	return "handled"
}

// Builtins runs the commands dsh handles in its own process.
type Builtins struct {
	// WorkDir is changed by cd.
	WorkDir WorkDir
	// Stdout receives the banner and help text.
	Stdout io.Writer
	// Banner replaces the default dragon art when non-empty.
	Banner string

	Log zerolog.Logger
}

// Run executes a built-in command. Failures are returned as *BuiltinError
// and never ask the shell to exit.
func (b *Builtins) Run(cmd *Command) (Action, error) {
	kind := Classify(cmd.Name())
	b.Log.Debug().Str("builtin", kind.String()).Strs("argv", cmd.Argv()).Msg("running builtin")

	switch kind {
	case BuiltinExit:
		return b.exit(cmd.Argv())
	case BuiltinCd:
		return b.cd(cmd.Argv())
	case BuiltinDragon:
		return b.dragon(cmd.Argv())
	default:
		return ActionHandled, &BuiltinError{Name: cmd.Name(), Err: ErrNotBuiltin}
	}
}

func (b *Builtins) exit(argv []string) (Action, error) {
	opts := &builtinCommand{
		Use:   "exit",
		Short: "Exit the shell.",
	}
	if help, err := opts.parse(argv, b.stdout()); err != nil || help {
		return ActionHandled, err
	}
	return ActionExit, nil
}

func (b *Builtins) cd(argv []string) (Action, error) {
	opts := &builtinCommand{
		Use: "cd [dir]",
		Short: "Change the shell working directory. Without dir, nothing changes.\n" +
			"Only a leading -h or --help is an option, a dir starting with '-' is a directory name.",

		OperandsOnly: true,
	}
	help, err := opts.parse(argv, b.stdout())
	if err != nil || help {
		return ActionHandled, err
	}

	switch args := opts.Args(); len(args) {
	case 0:
		return ActionHandled, nil
	case 1:
		if err := b.WorkDir.Chdir(args[0]); err != nil {
			return ActionHandled, &BuiltinError{Name: CdCommand, Err: err}
		}
		if wd, err := b.WorkDir.Getwd(); err == nil {
			b.Log.Debug().Str("dir", wd).Msg("changed directory")
		}
		return ActionHandled, nil
	default:
		return ActionHandled, &BuiltinError{Name: CdCommand, Err: ErrTooManyArguments}
	}
}

func (b *Builtins) dragon(argv []string) (Action, error) {
	opts := &builtinCommand{
		Use:   "dragon",
		Short: "Print the dsh dragon.",
	}
	help, err := opts.parse(argv, b.stdout())
	if err != nil || help {
		return ActionHandled, err
	}
	if args := opts.Args(); len(args) > 0 {
		return ActionHandled, &BuiltinError{Name: DragonCommand, Err: ErrTooManyArguments}
	}

	banner := b.Banner
	if banner == "" {
		banner = defaultBanner
	}
	if !strings.HasSuffix(banner, "\n") {
		banner += "\n"
	}
	if _, err := io.WriteString(b.stdout(), banner); err != nil {
		return ActionHandled, &BuiltinError{Name: DragonCommand, Err: err}
	}
	return ActionHandled, nil
}

func (b *Builtins) stdout() io.Writer {
	if b.Stdout == nil {
		return io.Discard
	}
	return b.Stdout
}

// builtinCommand parses built-in flags, every built-in accepts -h/--help.
type builtinCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description.
	Short string
	// OperandsOnly treats every argument as an operand unless the first one
	// asks for help.
	OperandsOnly bool

	flags    *getopt.Set
	operands []string
}

// Args returns the operands left after parsing.
func (c *builtinCommand) Args() []string {
	if c.OperandsOnly {
		return c.operands
	}
	return c.Flags().Args()
}

// Flags gets the command's flag set.
func (c *builtinCommand) Flags() *getopt.Set {
	if c.flags == nil {
		c.flags = getopt.New()
	}
	return c.flags
}

// PrintHelp writes help for the command to w.
func (c *builtinCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	c.Flags().PrintOptions(w)
}

// parse reads argv (name first). It reports help=true after printing help to
// w, and wraps flag errors in *BuiltinError.
func (c *builtinCommand) parse(argv []string, w io.Writer) (help bool, err error) {
	opts := c.Flags()
	showHelp := opts.BoolLong("help", 'h', "show this help and exit")

	if c.OperandsOnly && (len(argv) < 2 || (argv[1] != "-h" && argv[1] != "--help")) {
		c.operands = argv[1:]
		return false, nil
	}

	if err := opts.Getopt(argv, nil); err != nil {
		return false, &BuiltinError{Name: argv[0], Err: err}
	}

	if *showHelp {
		c.PrintHelp(w)
		return true, nil
	}
	return false, nil
}
