package planner

import (
	"context"
	"errors"
	"strings"

	"browser-command-agent/internal/application/port/input"
	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"
)

var _ input.CommandResolver = (*Planner)(nil)

type Config struct {
	// Credential is checked on every call; an empty value fails the request
	// before the model is contacted.
	Credential   string
	SystemPrompt string
}

type Planner struct {
	llm          output.LLMPort
	logger       output.LoggerPort
	credential   string
	systemPrompt string
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg Config) *Planner {
	return &Planner{
		llm:          llm,
		logger:       logger,
		credential:   cfg.Credential,
		systemPrompt: cfg.SystemPrompt,
	}
}

// Plan asks the model to map a free-form request to one browser command.
// Every failure comes back as *entity.PlanError.
func (p *Planner) Plan(ctx context.Context, request string) (entity.Command, error) {
	if strings.TrimSpace(p.credential) == "" {
		return entity.Command{}, entity.NewPlanError(entity.ErrMissingCredential, "", nil)
	}

	resp, err := p.llm.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: p.systemPrompt},
			{Role: entity.RoleUser, Content: request},
		},
		Temperature: 0.0,
	})
	if err != nil {
		p.logger.Error("Planner request failed", "error", err)
		return entity.Command{}, entity.NewPlanError(entity.ErrPlannerTransport, "", err)
	}

	raw := strings.TrimSpace(resp.Message.Content)
	p.logger.Debug("Planner response received", "raw", raw)

	plan, err := DecodePlanResponse(raw)
	if err != nil {
		fields := []any{"error", err}
		var syntaxErr *syntaxError
		if errors.As(err, &syntaxErr) {
			fields = append(fields, "detail", syntaxErr.err.Error())
		}
		p.logger.Warn("Planner response rejected", fields...)
		return entity.Command{}, err
	}

	cmd := plan.ToCommand()
	if !cmd.IsRecognized() {
		p.logger.Warn("Unsupported command from model", "command", plan.Command, "args", plan.Args)
	} else {
		p.logger.Info("Planned command", "kind", cmd.Kind(), "argument", cmd.Argument())
	}

	return cmd, nil
}

func (p *Planner) Resolve(ctx context.Context, instruction string) (entity.Command, error) {
	return p.Plan(ctx, instruction)
}
