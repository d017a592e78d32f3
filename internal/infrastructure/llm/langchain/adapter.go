package langchain

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var _ output.LLMPort = (*Adapter)(nil)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Logger     output.LoggerPort
	HTTPClient *http.Client
}

// Adapter talks to an OpenAI-compatible endpoint through langchaingo. The
// underlying model is created on first use so that a missing key is only
// reported when planning is attempted.
type Adapter struct {
	cfg Config

	mu  sync.Mutex
	llm llms.Model
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) model() (llms.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.llm != nil {
		return a.llm, nil
	}

	opts := []openai.Option{
		openai.WithToken(a.cfg.APIKey),
		openai.WithModel(a.cfg.Model),
	}
	if a.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(a.cfg.BaseURL))
	}
	if a.cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(a.cfg.HTTPClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain model: %w", err)
	}
	a.llm = llm
	return llm, nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	llm, err := a.model()
	if err != nil {
		return nil, err
	}

	if a.cfg.Logger != nil {
		a.cfg.Logger.Debug("Generating content",
			"model", a.cfg.Model,
			"messagesCount", len(req.Messages),
		)
	}

	resp, err := llm.GenerateContent(ctx, convertMessages(req.Messages),
		llms.WithTemperature(float64(req.Temperature)),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: resp.Choices[0].Content,
		},
	}, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		result = append(result, llms.TextParts(messageType(msg.Role), msg.Content))
	}
	return result
}

func messageType(role entity.MessageRole) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
