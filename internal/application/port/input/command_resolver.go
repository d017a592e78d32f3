package input

import (
	"context"

	"browser-command-agent/internal/domain/entity"
)

// CommandResolver turns one instruction line into a Command. The line has
// already been classified as entity.SignalInstruction.
type CommandResolver interface {
	Resolve(ctx context.Context, instruction string) (entity.Command, error)
}
