package config

import (
	"fmt"
	"strings"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, "model: must not be empty")
	}

	if cfg.DefaultMaxTokens < 0 {
		errs = append(errs, fmt.Sprintf("default_max_tokens: must be non-negative, got %d", cfg.DefaultMaxTokens))
	}
	if cfg.MaxTokensLimit < 0 {
		errs = append(errs, fmt.Sprintf("max_tokens_limit: must be non-negative, got %d", cfg.MaxTokensLimit))
	}
	if cfg.MaxTokensLimit > DefaultMaxTokensLimit {
		errs = append(errs, fmt.Sprintf("max_tokens_limit: must be at most %d, got %d", DefaultMaxTokensLimit, cfg.MaxTokensLimit))
	}
	if cfg.MaxTokensLimit > 0 && cfg.DefaultMaxTokens > cfg.MaxTokensLimit {
		errs = append(errs, fmt.Sprintf("default_max_tokens: %d exceeds max_tokens_limit %d", cfg.DefaultMaxTokens, cfg.MaxTokensLimit))
	}

	if cfg.CompletionCacheSize < 0 {
		errs = append(errs, fmt.Sprintf("completion_cache_size: must be non-negative, got %d", cfg.CompletionCacheSize))
	}
	if cfg.SecretCacheSize < 0 {
		errs = append(errs, fmt.Sprintf("secret_cache_size: must be non-negative, got %d", cfg.SecretCacheSize))
	}

	if cfg.LogLevel != "" {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
			// valid
		default:
			errs = append(errs, fmt.Sprintf("log_level: invalid value %q (must be debug, info, warn, or error)", cfg.LogLevel))
		}
	}

	if cfg.Stack.PollAttempts < 0 {
		errs = append(errs, fmt.Sprintf("stack.poll_attempts: must be non-negative, got %d", cfg.Stack.PollAttempts))
	}
	if cfg.Stack.PollInterval < 0 {
		errs = append(errs, fmt.Sprintf("stack.poll_interval: must be non-negative, got %s", cfg.Stack.PollInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
