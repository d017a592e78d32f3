package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"browser-command-agent/internal/application/port/input"
	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"
)

type State int

const (
	StateRunning State = iota
	StateTerminating
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "terminating"
}

type ExitReason string

const (
	ExitWord        ExitReason = "exit_word"
	ExitEndOfInput  ExitReason = "end_of_input"
	ExitInterrupted ExitReason = "interrupted"
	ExitInputError  ExitReason = "input_error"
)

type Deps struct {
	Browser  output.BrowserPort
	Input    output.InputPort
	Resolver input.CommandResolver
	Executor input.ActionExecutor
	UI       output.UserInteractionPort
	Logger   output.LoggerPort
}

// Loop is the read, resolve, execute, report cycle. It owns the browser
// session and releases it exactly once when it leaves the Running state.
type Loop struct {
	browser  output.BrowserPort
	input    output.InputPort
	resolver input.CommandResolver
	executor input.ActionExecutor
	ui       output.UserInteractionPort
	logger   output.LoggerPort

	state    State
	released bool
}

func New(deps Deps) *Loop {
	return &Loop{
		browser:  deps.Browser,
		input:    deps.Input,
		resolver: deps.Resolver,
		executor: deps.Executor,
		ui:       deps.UI,
		logger:   deps.Logger,
		state:    StateRunning,
	}
}

func (l *Loop) State() State {
	return l.state
}

// Run processes instructions until an exit word, end of input, or
// cancellation of ctx. Cancelling ctx only interrupts the wait for input;
// resolution and execution run to completion on a context detached from it.
func (l *Loop) Run(ctx context.Context) (reason ExitReason, err error) {
	if l.state != StateRunning {
		return "", entity.ErrSessionClosed
	}

	defer func() {
		if releaseErr := l.release(); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
		l.logger.Info("Session terminated", "reason", reason)
	}()

	work := context.WithoutCancel(ctx)
	for {
		if reason, done := l.step(ctx, work); done {
			return reason, nil
		}
	}
}

func (l *Loop) step(ctx, work context.Context) (ExitReason, bool) {
	line, err := l.input.ReadInstruction(ctx)
	if err != nil {
		return l.inputFailure(ctx, err), true
	}

	switch entity.Classify(line) {
	case entity.SignalNoop:
		return "", false
	case entity.SignalExit:
		l.ui.ShowInfo(ctx, "Exiting agent.")
		return ExitWord, true
	}

	l.logger.Debug("Instruction received", "instruction", line)

	cmd, err := l.resolver.Resolve(work, line)
	if err != nil {
		l.logger.Warn("Instruction could not be resolved", "instruction", line, "error", err)
		l.ui.ShowError(ctx, "Failed to plan action", err)
		return "", false
	}

	outcome := l.executor.Execute(work, cmd)
	l.ui.ShowOutcome(ctx, outcome)
	return "", false
}

func (l *Loop) inputFailure(ctx context.Context, err error) ExitReason {
	switch {
	case errors.Is(err, io.EOF):
		return ExitEndOfInput
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		l.logger.Error("Reading instruction failed", "error", err)
		l.ui.ShowError(ctx, "Could not read instruction", err)
		return ExitInputError
	}
}

func (l *Loop) release() error {
	l.state = StateTerminating
	if l.released {
		return nil
	}
	l.released = true

	if err := l.browser.Close(); err != nil {
		l.logger.Error("Browser teardown failed", "error", err)
		return fmt.Errorf("release browser session: %w", err)
	}
	return nil
}
