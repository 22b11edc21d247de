// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

// Command promptproxy-lambda is the AWS Lambda entry point for the proxy.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/davetashner/promptproxy/internal/completion"
	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/handler"
	pplog "github.com/davetashner/promptproxy/internal/log"
)

func main() {
	h, err := newHandler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lambda.Start(h.Handle)
}

// newHandler builds the handler once per execution environment so the
// completion and secret caches survive across warm invocations.
func newHandler() (*handler.Handler, error) {
	cfg, err := config.Resolve(config.ResolvePath("", false))
	if err != nil {
		return nil, err
	}
	pplog.SetupJSON(os.Stdout, pplog.ParseLevel(cfg.LogLevel))
	slog.Debug("config loaded", "model", cfg.Model, "max_tokens_limit", cfg.MaxTokensLimit)

	return handler.New(completion.NewFromConfig(cfg),
		handler.WithDefaultMaxTokens(cfg.DefaultMaxTokens),
		handler.WithMaxTokensLimit(cfg.MaxTokensLimit),
	), nil
}
