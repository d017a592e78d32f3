// Package parser implements the fixed one-line instruction grammar:
//
//	open <url>
//	search <query ...>
//	click <partial link text ...>
//
// There is no quoting or escaping; dispatch is on the first token only.
package parser

import (
	"context"
	"strings"

	"browser-command-agent/internal/application/port/input"
	"browser-command-agent/internal/domain/entity"
)

var _ input.CommandResolver = (*LiteralParser)(nil)

type LiteralParser struct{}

func New() *LiteralParser {
	return &LiteralParser{}
}

// Parse classifies the line and, for instructions, builds the Command.
// The Command is only meaningful when the signal is SignalInstruction.
func (p *LiteralParser) Parse(line string) (entity.Signal, entity.Command) {
	signal := entity.Classify(line)
	if signal != entity.SignalInstruction {
		return signal, entity.Command{}
	}

	tokens := strings.Fields(line)
	word := strings.ToLower(tokens[0])
	args := tokens[1:]

	if len(args) == 0 {
		return signal, entity.Unrecognized(word)
	}

	switch entity.CommandKind(word) {
	case entity.CommandOpen:
		// only the first token is the URL
		return signal, entity.NewCommand(word, args[0])
	case entity.CommandSearch, entity.CommandClick:
		return signal, entity.NewCommand(word, strings.Join(args, " "))
	default:
		return signal, entity.Unrecognized(word)
	}
}

func (p *LiteralParser) Resolve(_ context.Context, instruction string) (entity.Command, error) {
	_, cmd := p.Parse(instruction)
	return cmd, nil
}
