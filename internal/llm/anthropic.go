package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicProvider serves "anthropic:" model specs through the Messages API.
type AnthropicProvider struct {
	client     anthropic.Client
	model      string
	maxRetries int
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider builds a provider from opts. The key falls back to
// ANTHROPIC_API_KEY; having neither is an error.
func NewAnthropicProvider(opts ...Option) (*AnthropicProvider, error) {
	cfg := newProviderConfig(defaultAnthropicModel, opts)
	if cfg.apiKey == "" {
		cfg.apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.apiKey == "" {
		return nil, errors.New("llm: ANTHROPIC_API_KEY not set and no API key provided")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	return &AnthropicProvider{
		client:     anthropic.NewClient(reqOpts...),
		model:      cfg.model,
		maxRetries: cfg.maxRetries,
	}, nil
}

// Complete sends req as a single user message. The Messages API requires a
// token bound, so a non-positive MaxTokens becomes defaultMaxTokens.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.modelFor(req)),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: completion failed: %w", err)
	}
	return &Response{
		Content: Text(msg),
		Model:   string(msg.Model),
		Usage:   Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
	}, nil
}

func (p *AnthropicProvider) modelFor(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	return p.model
}

// Model returns the default model.
func (p *AnthropicProvider) Model() string { return p.model }

// MaxRetries returns the SDK retry budget.
func (p *AnthropicProvider) MaxRetries() int { return p.maxRetries }
