package output

import (
	"context"

	"browser-command-agent/internal/domain/entity"
)

// InputPort yields one instruction per call. It returns io.EOF when the input
// stream closes and ctx.Err() when ctx is cancelled while waiting.
type InputPort interface {
	ReadInstruction(ctx context.Context) (string, error)
}

type UserInteractionPort interface {
	ShowBanner(ctx context.Context, text string)
	ShowActionStart(ctx context.Context, cmd entity.Command, detail string)
	ShowOutcome(ctx context.Context, outcome entity.Outcome)
	ShowError(ctx context.Context, message string, err error)
	ShowInfo(ctx context.Context, message string)
}
