// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

// Package completion wraps an llm.Provider with API-key resolution and an
// in-memory result cache keyed by prompt and token bound.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/llm"
	"github.com/davetashner/promptproxy/internal/secrets"
)

// ErrNoAPIKey is returned when no API key can be resolved for the configured
// model's provider.
var ErrNoAPIKey = errors.New("api key not found")

// KeyResolver finds the API key described by a key spec.
type KeyResolver interface {
	Resolve(ctx context.Context, spec secrets.KeySpec) (string, bool)
}

// ProviderFactory builds a backend for a model spec.
type ProviderFactory func(spec llm.ModelSpec, opts ...llm.Option) (llm.Provider, error)

type cacheKey struct {
	prompt    string
	maxTokens int
}

// Client answers prompts through the configured model, caching the text of
// every successful completion.
type Client struct {
	model       string
	baseURL     string
	keys        KeyResolver
	newProvider ProviderFactory
	cache       *lru.Cache[cacheKey, string]
	group       singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model spec, e.g. "gpt-3.5-turbo" or
// "anthropic:claude-haiku-4-5".
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the OpenAI backend at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithResolver overrides API key resolution.
func WithResolver(r KeyResolver) Option {
	return func(c *Client) {
		c.keys = r
	}
}

// WithProviderFactory overrides how backends are built.
func WithProviderFactory(f ProviderFactory) Option {
	return func(c *Client) {
		c.newProvider = f
	}
}

// WithCacheSize sets the number of cached completions. Values below 1 keep
// the default.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			if cache, err := lru.New[cacheKey, string](n); err == nil {
				c.cache = cache
			}
		}
	}
}

// New creates a Client. Without options it uses the default model, the
// environment/Secrets Manager resolver and the real backends.
func New(opts ...Option) *Client {
	cache, _ := lru.New[cacheKey, string](config.DefaultCompletionCacheSize) //nolint:errcheck // size is positive
	c := &Client{
		model:       config.DefaultModel,
		newProvider: llm.New,
		cache:       cache,
	}
	for _, o := range opts {
		o(c)
	}
	if c.keys == nil {
		c.keys = secrets.NewResolver()
	}
	return c
}

// NewFromConfig creates a Client from resolved configuration. Secret names
// and region set in the config file reach the resolver as if they were
// environment variables.
func NewFromConfig(cfg config.Config, opts ...Option) *Client {
	base := []Option{
		WithModel(cfg.Model),
		WithBaseURL(cfg.OpenAIBaseURL),
		WithCacheSize(cfg.CompletionCacheSize),
		WithResolver(secrets.NewResolver(
			secrets.WithGetenv(cfg.Getenv),
			secrets.WithCacheSize(cfg.SecretCacheSize),
		)),
	}
	return New(append(base, opts...)...)
}

// Complete returns the completion text for prompt bounded by maxTokens.
// A repeated (prompt, maxTokens) pair is served from the cache without
// resolving a key or calling the backend. Errors are never cached.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	key := cacheKey{prompt: prompt, maxTokens: maxTokens}
	if text, ok := c.cache.Get(key); ok {
		slog.Debug("completion cache hit", "max_tokens", maxTokens)
		return text, nil
	}

	// The shared call outlives any one caller so a cancelled request does
	// not fail the others waiting on the same key.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(maxTokens)+"\x00"+prompt, func() (any, error) {
		if text, ok := c.cache.Get(key); ok {
			return text, nil
		}
		text, err := c.complete(shared, prompt, maxTokens)
		if err != nil {
			return "", err
		}
		c.cache.Add(key, text)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	spec, err := llm.ParseModel(c.model)
	if err != nil {
		return "", err
	}

	keySpec := keySpecFor(spec.Provider)
	apiKey, ok := c.keys.Resolve(ctx, keySpec)
	if !ok {
		return "", fmt.Errorf("%w: set %s or %s", ErrNoAPIKey, keySpec.EnvVar, keySpec.SecretNameEnvVar)
	}

	opts := []llm.Option{llm.WithAPIKey(apiKey), llm.WithMaxRetries(0)}
	if c.baseURL != "" && spec.Provider == llm.ProviderOpenAI {
		opts = append(opts, llm.WithBaseURL(c.baseURL))
	}
	provider, err := c.newProvider(spec, opts...)
	if err != nil {
		return "", err
	}

	resp, err := provider.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: llm.Float(0),
	})
	if err != nil {
		return "", err
	}

	slog.Debug("completion",
		"model", spec.String(),
		"max_tokens", maxTokens,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp.Content, nil
}

// Len reports the number of cached completions.
func (c *Client) Len() int {
	return c.cache.Len()
}

func keySpecFor(provider string) secrets.KeySpec {
	if provider == llm.ProviderAnthropic {
		return secrets.Anthropic
	}
	return secrets.OpenAI
}
