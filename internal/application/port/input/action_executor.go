package input

import (
	"context"

	"browser-command-agent/internal/domain/entity"
)

type ActionExecutor interface {
	Execute(ctx context.Context, cmd entity.Command) entity.Outcome
}
