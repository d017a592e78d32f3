package entity

import "strings"

type Signal int

const (
	SignalNoop Signal = iota
	SignalExit
	SignalInstruction
)

func (s Signal) String() string {
	switch s {
	case SignalNoop:
		return "noop"
	case SignalExit:
		return "exit"
	default:
		return "instruction"
	}
}

var exitWords = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
}

// Classify decides what a raw input line means before any parsing happens.
// Both front-ends use it, so exit words behave the same everywhere.
func Classify(line string) Signal {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return SignalNoop
	}
	if _, ok := exitWords[strings.ToLower(trimmed)]; ok {
		return SignalExit
	}
	return SignalInstruction
}
