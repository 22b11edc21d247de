package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// defaultOpenAIModel is the model used when no override is provided.
const defaultOpenAIModel = "gpt-3.5-turbo"

// OpenAIProvider implements Provider using the official OpenAI SDK.
//
// Chat models go through the chat completions endpoint. Models named
// "*-instruct" only exist on the legacy completions endpoint and are routed
// there.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	maxRetries int
}

// Compile-time check that OpenAIProvider satisfies the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI provider.
// It returns an error if no API key is available (neither via option nor env).
func NewOpenAIProvider(opts ...Option) (*OpenAIProvider, error) {
	cfg := newProviderConfig(defaultOpenAIModel, opts)

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("llm: OPENAI_API_KEY not set and no API key provided")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &OpenAIProvider{
		client:     openai.NewClient(clientOpts...),
		model:      cfg.model,
		maxRetries: cfg.maxRetries,
	}, nil
}

// Complete sends a completion request to the OpenAI API.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	if isInstructModel(model) {
		return p.completeLegacy(ctx, model, req)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: completion failed: %w", err)
	}

	return &Response{
		Content: Text(completion),
		Model:   completion.Model,
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}

func (p *OpenAIProvider) completeLegacy(ctx context.Context, model string, req Request) (*Response, error) {
	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + prompt
	}

	params := openai.CompletionNewParams{
		Model:  openai.CompletionNewParamsModel(model),
		Prompt: openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	completion, err := p.client.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: completion failed: %w", err)
	}

	return &Response{
		Content: Text(completion),
		Model:   completion.Model,
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}

func isInstructModel(model string) bool {
	return strings.HasSuffix(model, "-instruct")
}

// Model returns the default model configured for this provider.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// MaxRetries returns the configured max retry count.
func (p *OpenAIProvider) MaxRetries() int {
	return p.maxRetries
}
