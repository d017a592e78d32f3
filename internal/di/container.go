package di

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"browser-command-agent/internal/application/port/input"
	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/infrastructure/browser/chromedp"
	"browser-command-agent/internal/infrastructure/browser/rod"
	"browser-command-agent/internal/infrastructure/env"
	"browser-command-agent/internal/infrastructure/llm/chatcompletion"
	"browser-command-agent/internal/infrastructure/llm/gemini"
	"browser-command-agent/internal/infrastructure/llm/langchain"
	"browser-command-agent/internal/infrastructure/logger"
	"browser-command-agent/internal/infrastructure/prompts"
	"browser-command-agent/internal/infrastructure/userinteraction"
	"browser-command-agent/internal/usecase/executor"
	"browser-command-agent/internal/usecase/parser"
	"browser-command-agent/internal/usecase/planner"
	"browser-command-agent/internal/usecase/session"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeLiteral   Mode = "literal"
	ModeAssistant Mode = "assistant"
)

const (
	DriverRod      = "rod"
	DriverChromedp = "chromedp"
	DefaultDriver  = DriverRod
)

const (
	BackendOpenAI    = "openai"
	BackendLangchain = "langchain"
	BackendGemini    = "gemini"
	DefaultBackend   = BackendOpenAI
)

var defaultOpeners = map[string]output.BrowserOpener{
	DriverRod:      rod.Open,
	DriverChromedp: chromedp.Open,
}

// Drivers lists the browser implementations that can be selected by name.
func Drivers() []string {
	names := make([]string, 0, len(defaultOpeners))
	for name := range defaultOpeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveDriver maps a user-supplied driver name to a known one. Unknown
// names resolve to DefaultDriver with ok set to false.
func ResolveDriver(name string) (driver string, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultDriver, true
	}
	if _, known := defaultOpeners[name]; known {
		return name, true
	}
	return DefaultDriver, false
}

type Config struct {
	Mode     Mode
	Driver   string
	Headless bool
	Env      env.Config
}

type Container struct {
	SessionID string
	Browser   output.BrowserPort
	Logger    output.LoggerPort
	UI        output.UserInteractionPort
	Input     output.InputPort
	Resolver  input.CommandResolver
	Executor  input.ActionExecutor
	Session   *session.Loop

	rootLogger output.LoggerPort
}

type options struct {
	openers        map[string]output.BrowserOpener
	llm            output.LLMPort
	logger         output.LoggerPort
	console        *userinteraction.ConsoleUserInteraction
	promptTemplate string
}

type Option func(*options)

func WithBrowserOpener(driver string, opener output.BrowserOpener) Option {
	return func(o *options) {
		o.openers[driver] = opener
	}
}

func WithLLM(llm output.LLMPort) Option {
	return func(o *options) {
		o.llm = llm
	}
}

func WithLogger(log output.LoggerPort) Option {
	return func(o *options) {
		o.logger = log
	}
}

func WithConsole(console *userinteraction.ConsoleUserInteraction) Option {
	return func(o *options) {
		o.console = console
	}
}

func WithPromptTemplate(tmpl string) Option {
	return func(o *options) {
		o.promptTemplate = tmpl
	}
}

// NewContainer wires one session. The browser is the only component whose
// failure is fatal; if anything fails after it has started, it is closed
// before returning.
func NewContainer(ctx context.Context, cfg Config, opts ...Option) (*Container, error) {
	o := &options{
		openers: make(map[string]output.BrowserOpener, len(defaultOpeners)),
	}
	for name, opener := range defaultOpeners {
		o.openers[name] = opener
	}
	for _, opt := range opts {
		opt(o)
	}

	rootLogger := o.logger
	if rootLogger == nil {
		log, err := logger.NewLoggerAdapter(logger.Config{
			Level:      cfg.Env.LogLevel,
			File:       cfg.Env.LogFile,
			MaxSizeMB:  logger.DefaultConfig().MaxSizeMB,
			MaxBackups: logger.DefaultConfig().MaxBackups,
			MaxAgeDays: logger.DefaultConfig().MaxAgeDays,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		rootLogger = log
	}

	sessionID := uuid.NewString()
	log := rootLogger.WithFields(map[string]any{
		"session_id": sessionID,
		"mode":       string(cfg.Mode),
	})

	driver, known := ResolveDriver(cfg.Driver)
	if !known {
		log.Warn("Unknown browser driver, using default", "requested", cfg.Driver, "driver", driver)
	}
	opener, ok := o.openers[driver]
	if !ok {
		rootLogger.Close()
		return nil, fmt.Errorf("no opener registered for driver %q", driver)
	}

	browser, err := opener(ctx, output.BrowserConfig{
		Driver:       driver,
		Headless:     cfg.Headless,
		ImplicitWait: cfg.Env.ImplicitWait,
	})
	if err != nil {
		log.Error("Browser session could not start", "driver", driver, "error", err)
		rootLogger.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	log.Info("Browser session started", "driver", driver, "headless", cfg.Headless)

	console := o.console
	if console == nil {
		console = newConsole(cfg.Mode)
	}

	resolver, err := newResolver(cfg, o, log)
	if err != nil {
		if closeErr := browser.Close(); closeErr != nil {
			log.Warn("Browser close failed", "error", closeErr)
		}
		rootLogger.Close()
		return nil, err
	}

	exec := executor.New(browser, console, log, executor.Config{
		SearchURL:   cfg.Env.SearchURL,
		SearchField: cfg.Env.SearchField,
		SettleDelay: cfg.Env.SearchSettle,
	})

	loop := session.New(session.Deps{
		Browser:  browser,
		Input:    console,
		Resolver: resolver,
		Executor: exec,
		UI:       console,
		Logger:   log,
	})

	return &Container{
		SessionID:  sessionID,
		Browser:    browser,
		Logger:     log,
		UI:         console,
		Input:      console,
		Resolver:   resolver,
		Executor:   exec,
		Session:    loop,
		rootLogger: rootLogger,
	}, nil
}

// Close flushes the logger. The browser belongs to the session loop, which
// releases it when Run returns.
func (c *Container) Close() error {
	if c.rootLogger != nil {
		return c.rootLogger.Close()
	}
	return nil
}

func newConsole(mode Mode) *userinteraction.ConsoleUserInteraction {
	if mode == ModeAssistant {
		return userinteraction.NewConsoleUserInteraction("[Assistant]", "Ask me anything: ")
	}
	return userinteraction.NewConsoleUserInteraction("[Agent]", "Enter a task: ")
}

func newResolver(cfg Config, o *options, log output.LoggerPort) (input.CommandResolver, error) {
	if cfg.Mode != ModeAssistant {
		return parser.New(), nil
	}

	systemPrompt, err := plannerPrompt(o.promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to build planner prompt: %w", err)
	}

	backend, credential, llm := newLLM(cfg.Env, log)
	if o.llm != nil {
		llm = o.llm
	}
	log.Info("Planner configured", "backend", backend)

	return planner.New(llm, log, planner.Config{
		Credential:   credential,
		SystemPrompt: systemPrompt,
	}), nil
}

func plannerPrompt(tmpl string) (string, error) {
	if tmpl == "" {
		return prompts.DefaultPlannerPrompt()
	}
	return prompts.GeneratePlannerPrompt(tmpl, prompts.PlannerPromptData{
		Commands: prompts.DefaultCommands,
		Examples: prompts.DefaultExamples,
	})
}

// newLLM picks the completion backend. Credentials are passed through
// unchecked; the planner rejects an empty one when it is first used.
func newLLM(cfg env.Config, log output.LoggerPort) (string, string, output.LLMPort) {
	backend := strings.ToLower(strings.TrimSpace(cfg.PlannerBackend))

	switch backend {
	case BackendLangchain:
		return backend, cfg.OpenAIAPIKey, langchain.NewAdapter(langchain.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Logger:  log,
		})
	case BackendGemini:
		return backend, cfg.GeminiAPIKey, gemini.NewAdapter(gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Logger: log,
		})
	case "", BackendOpenAI:
	default:
		log.Warn("Unknown planner backend, using default", "requested", backend, "backend", DefaultBackend)
	}

	llmCfg := chatcompletion.DefaultConfig(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if cfg.OpenAIBaseURL != "" {
		llmCfg.BaseURL = cfg.OpenAIBaseURL
	}
	llmCfg.Logger = log
	return DefaultBackend, cfg.OpenAIAPIKey, chatcompletion.NewAdapter(llmCfg)
}
