package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"browser-command-agent/internal/application/port/input"
	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"
)

var _ input.ActionExecutor = (*UseCase)(nil)

const (
	defaultSearchURL   = "https://www.google.com"
	defaultSearchField = "q"
	defaultSettleDelay = 2 * time.Second
)

const UsageHint = "Try 'open <url>', 'search <query>', or 'click <partial text>'."

type Config struct {
	SearchURL   string
	SearchField string
	// SettleDelay is a best-effort pause after submitting a search so the
	// results can render. It does not wait for completion.
	SettleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		SearchURL:   defaultSearchURL,
		SearchField: defaultSearchField,
		SettleDelay: defaultSettleDelay,
	}
}

type UseCase struct {
	browser output.BrowserPort
	ui      output.UserInteractionPort
	logger  output.LoggerPort
	cfg     Config
	sleep   func(context.Context, time.Duration)
}

func New(
	browser output.BrowserPort,
	ui output.UserInteractionPort,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.SearchURL == "" {
		cfg.SearchURL = defaultSearchURL
	}
	if cfg.SearchField == "" {
		cfg.SearchField = defaultSearchField
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}

	return &UseCase{
		browser: browser,
		ui:      ui,
		logger:  logger,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// Execute performs exactly one browser operation for cmd. Driver errors are
// converted into the returned Outcome; nothing escapes as an error or panic.
func (uc *UseCase) Execute(ctx context.Context, cmd entity.Command) (outcome entity.Outcome) {
	log := uc.logger.WithFields(map[string]any{"kind": cmd.Kind().String(), "argument": cmd.Argument()})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Driver panicked", "panic", r)
			outcome = failed(cmd, "browser driver error", fmt.Errorf("panic: %v", r))
		}
	}()

	start := time.Now()
	switch cmd.Kind() {
	case entity.CommandOpen:
		outcome = uc.open(ctx, cmd)
	case entity.CommandSearch:
		outcome = uc.search(ctx, cmd)
	case entity.CommandClick:
		outcome = uc.click(ctx, cmd)
	default:
		outcome = usage(cmd)
	}

	switch {
	case outcome.OK():
		log.Info("Command completed", "status", outcome.Status, "url", uc.browser.CurrentURL(), "duration_ms", time.Since(start).Milliseconds())
	case outcome.Err != nil:
		log.Warn("Command failed", "status", outcome.Status, "error", outcome.Err, "duration_ms", time.Since(start).Milliseconds())
	default:
		log.Info("Command not executed", "status", outcome.Status)
	}

	return outcome
}

func (uc *UseCase) open(ctx context.Context, cmd entity.Command) entity.Outcome {
	url := NormalizeURL(cmd.Argument())
	uc.ui.ShowActionStart(ctx, cmd, fmt.Sprintf("Opening %s…", url))

	if err := uc.browser.Navigate(ctx, url); err != nil {
		return failed(cmd, fmt.Sprintf("could not open %s", url), err)
	}

	return entity.Outcome{Command: cmd, Status: entity.OutcomeSuccess, Message: fmt.Sprintf("Opened %s", url)}
}

func (uc *UseCase) search(ctx context.Context, cmd entity.Command) entity.Outcome {
	query := cmd.Argument()
	uc.ui.ShowActionStart(ctx, cmd, fmt.Sprintf("Searching for '%s'…", query))

	if err := uc.browser.Navigate(ctx, uc.cfg.SearchURL); err != nil {
		return failed(cmd, fmt.Sprintf("could not open %s", uc.cfg.SearchURL), err)
	}

	box, err := uc.browser.FindByName(ctx, uc.cfg.SearchField)
	if err != nil {
		if errors.Is(err, entity.ErrElementNotFound) {
			return notFound(cmd, "search box not found", err)
		}
		return failed(cmd, "could not locate element for search box", err)
	}

	if err := box.Clear(ctx); err != nil {
		return failed(cmd, "could not clear search box", err)
	}
	if err := box.Type(ctx, query); err != nil {
		return failed(cmd, "could not type search query", err)
	}
	if err := box.Submit(ctx); err != nil {
		return failed(cmd, "could not submit search", err)
	}

	uc.sleep(ctx, uc.cfg.SettleDelay)

	return entity.Outcome{Command: cmd, Status: entity.OutcomeSuccess, Message: fmt.Sprintf("Searched for '%s'", query)}
}

func (uc *UseCase) click(ctx context.Context, cmd entity.Command) entity.Outcome {
	text := cmd.Argument()
	uc.ui.ShowActionStart(ctx, cmd, fmt.Sprintf("Looking for a link containing '%s'…", text))

	link, err := uc.browser.FindLinkByText(ctx, text)
	if err != nil {
		if errors.Is(err, entity.ErrElementNotFound) {
			return notFound(cmd, fmt.Sprintf("no matching link found: no link containing '%s' on this page", text), err)
		}
		return failed(cmd, fmt.Sprintf("could not locate element for '%s'", text), err)
	}

	if err := link.Click(ctx); err != nil {
		return failed(cmd, fmt.Sprintf("could not click link containing '%s'", text), err)
	}

	return entity.Outcome{Command: cmd, Status: entity.OutcomeSuccess, Message: fmt.Sprintf("Clicked link containing '%s'.", text)}
}

func usage(cmd entity.Command) entity.Outcome {
	msg := "Unrecognised command. " + UsageHint
	if label := cmd.Label(); label != "" {
		msg = fmt.Sprintf("Unsupported command '%s'. %s", label, UsageHint)
	}
	return entity.Outcome{Command: cmd, Status: entity.OutcomeUsage, Message: msg}
}

func notFound(cmd entity.Command, msg string, err error) entity.Outcome {
	return entity.Outcome{Command: cmd, Status: entity.OutcomeNotFound, Message: msg, Err: err}
}

func failed(cmd entity.Command, msg string, err error) entity.Outcome {
	return entity.Outcome{Command: cmd, Status: entity.OutcomeFailed, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
