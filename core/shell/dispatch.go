package shell

import "sort"

// BuiltinKind classifies a command name.
type BuiltinKind int

const (
	NotBuiltin BuiltinKind = iota
	BuiltinExit
	BuiltinCd
	BuiltinDragon
)

// Built-in command names.
const (
	ExitCommand   = "exit"
	CdCommand     = "cd"
	DragonCommand = "dragon"
)

var builtinNames = map[string]BuiltinKind{
	ExitCommand:   BuiltinExit,
	CdCommand:     BuiltinCd,
	DragonCommand: BuiltinDragon,
}

// Classify reports which built-in name is, using an exact, case-sensitive
// match.
func Classify(name string) BuiltinKind {
	return builtinNames[name]
}

// BuiltinNames lists the recognised built-in names in sorted order.
func BuiltinNames() []string {
	var names []string
	for name := range builtinNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (k BuiltinKind) String() string {
	switch k {
	case BuiltinExit:
		return ExitCommand
	case BuiltinCd:
		return CdCommand
	case BuiltinDragon:
		return DragonCommand
	default:
		return "external"
	}
}
