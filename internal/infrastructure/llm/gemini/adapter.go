package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"

	"google.golang.org/genai"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Logger     output.LoggerPort
	HTTPClient *http.Client
}

// Adapter calls the Gemini API. The client is created lazily on the first
// Chat call.
type Adapter struct {
	cfg Config

	mu     sync.Mutex
	client *genai.Client
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) getClient(ctx context.Context) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     a.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: a.cfg.HTTPClient,
	}
	if a.cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: a.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	a.client = client
	return client, nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return nil, err
	}

	system, contents := convertMessages(req.Messages)
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(req.Temperature),
		ResponseMIMEType:  "application/json",
	}

	if a.cfg.Logger != nil {
		a.cfg.Logger.Debug("Generating content",
			"model", a.cfg.Model,
			"contentsCount", len(contents),
		)
	}

	resp, err := client.Models.GenerateContent(ctx, a.cfg.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: resp.Text(),
		},
	}, nil
}

// convertMessages splits system messages into a single system instruction;
// the rest become conversation turns.
func convertMessages(messages []entity.Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleSystem:
			system = append(system, msg.Content)
		case entity.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}
