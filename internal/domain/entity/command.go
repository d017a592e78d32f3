package entity

import "strings"

type CommandKind string

const (
	CommandOpen         CommandKind = "open"
	CommandSearch       CommandKind = "search"
	CommandClick        CommandKind = "click"
	CommandUnrecognized CommandKind = "unrecognized"
)

func (k CommandKind) String() string {
	return string(k)
}

// Command is one validated browser action. Build it with NewCommand; the zero
// value is an Unrecognized command.
type Command struct {
	kind     CommandKind
	argument string
	label    string
}

// NewCommand validates a candidate (label, argument) pair. Open, Search and
// Click need a non-empty argument; everything else becomes Unrecognized and
// keeps the rejected label for reporting.
func NewCommand(label, argument string) Command {
	kind := CommandKind(strings.ToLower(strings.TrimSpace(label)))
	argument = strings.TrimSpace(argument)

	switch kind {
	case CommandOpen, CommandSearch, CommandClick:
		if argument != "" {
			return Command{kind: kind, argument: argument}
		}
	}

	return Unrecognized(label)
}

func Unrecognized(label string) Command {
	return Command{kind: CommandUnrecognized, label: strings.TrimSpace(label)}
}

func (c Command) Kind() CommandKind {
	if c.kind == "" {
		return CommandUnrecognized
	}
	return c.kind
}

func (c Command) Argument() string { return c.argument }

// Label is the command word that failed validation. Empty for valid commands.
func (c Command) Label() string { return c.label }

func (c Command) IsRecognized() bool {
	return c.Kind() != CommandUnrecognized
}

func (c Command) String() string {
	if !c.IsRecognized() {
		return string(CommandUnrecognized)
	}
	return string(c.kind) + " " + c.argument
}
