// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

// Package handler turns API Gateway proxy events into completion calls and
// completion results into proxy responses.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/redact"
)

// Completer produces completion text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

// MissingPromptMessage is the 400 error text for a request without a prompt.
const MissingPromptMessage = "Missing 'prompt' in request body"

// Handler validates requests and forwards them to a Completer.
type Handler struct {
	completer        Completer
	defaultMaxTokens int
	maxTokensLimit   int
}

// Option configures a Handler.
type Option func(*Handler)

// WithDefaultMaxTokens sets max_tokens for requests that omit it.
func WithDefaultMaxTokens(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.defaultMaxTokens = n
		}
	}
}

// WithMaxTokensLimit lowers the upper bound max_tokens is clamped to. It
// cannot raise the bound past config.DefaultMaxTokensLimit.
func WithMaxTokensLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxTokensLimit = min(n, config.DefaultMaxTokensLimit)
		}
	}
}

// New creates a Handler.
func New(c Completer, opts ...Option) *Handler {
	h := &Handler{
		completer:        c,
		defaultMaxTokens: config.DefaultMaxTokens,
		maxTokensLimit:   config.DefaultMaxTokensLimit,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Handle serves one event. Failures are reported in the response; the
// returned error is always nil so the gateway never sees an invocation error.
func (h *Handler) Handle(ctx context.Context, ev Event) (events.APIGatewayProxyResponse, error) {
	if ev.Method() == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    corsHeaders(),
			Body:       "",
		}, nil
	}

	logger := requestLogger(ctx, ev)
	logger.Debug("event received", "method", ev.Method(), "body_bytes", len(ev.Body), "base64", ev.IsBase64Encoded)

	data, err := ev.params()
	if err != nil {
		return failure(logger, err), nil
	}
	if len(data) == 0 {
		data = ev.queryParams()
	}

	prompt, ok := promptParam(data)
	if !ok {
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": MissingPromptMessage}), nil
	}

	maxTokens, err := maxTokensParam(data, h.defaultMaxTokens)
	if err != nil {
		return failure(logger, err), nil
	}
	if maxTokens > h.maxTokensLimit {
		maxTokens = h.maxTokensLimit
	}

	result, err := h.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return failure(logger, err), nil
	}
	return jsonResponse(http.StatusOK, map[string]string{"result": result}), nil
}

func failure(logger *slog.Logger, err error) events.APIGatewayProxyResponse {
	msg := redact.String(err.Error())
	logger.Error("request failed", "error", msg)
	return jsonResponse(http.StatusInternalServerError, map[string]string{"error": msg})
}

func requestLogger(ctx context.Context, ev Event) *slog.Logger {
	logger := slog.Default()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.With("aws_request_id", lc.AwsRequestID)
	}
	if id := ev.RequestContext.RequestID; id != "" {
		return logger.With("request_id", id)
	}
	return logger
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func jsonResponse(status int, body map[string]string) events.APIGatewayProxyResponse {
	headers := corsHeaders()
	headers["Content-Type"] = "application/json"

	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"encoding response failed"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(b),
	}
}
