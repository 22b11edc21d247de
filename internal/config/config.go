// Package config handles promptproxy configuration: an optional YAML file
// overlaid by environment variables.
package config

import "time"

// Config represents the contents of a promptproxy YAML file.
//
// API keys are deliberately absent: they come from the environment or the
// secret store, never from a file.
type Config struct {
	Model               string      `yaml:"model,omitempty"`
	OpenAIBaseURL       string      `yaml:"openai_base_url,omitempty"`
	SecretName          string      `yaml:"secret_name,omitempty"`
	AnthropicSecretName string      `yaml:"anthropic_secret_name,omitempty"`
	Region              string      `yaml:"region,omitempty"`
	DefaultMaxTokens    int         `yaml:"default_max_tokens,omitempty"`
	MaxTokensLimit      int         `yaml:"max_tokens_limit,omitempty"`
	CompletionCacheSize int         `yaml:"completion_cache_size,omitempty"`
	SecretCacheSize     int         `yaml:"secret_cache_size,omitempty"`
	LogLevel            string      `yaml:"log_level,omitempty"`
	Stack               StackConfig `yaml:"stack,omitempty"`
}

// StackConfig holds settings for the deployment-stack cleanup commands.
type StackConfig struct {
	Name         string        `yaml:"name,omitempty"`
	Region       string        `yaml:"region,omitempty"`
	PollAttempts int           `yaml:"poll_attempts,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// Defaults applied by WithDefaults.
const (
	DefaultModel               = "gpt-3.5-turbo"
	DefaultMaxTokens           = 150
	DefaultMaxTokensLimit      = 1024
	DefaultCompletionCacheSize = 128
	DefaultSecretCacheSize     = 4
	DefaultStackName           = "langchain-lambda"
	DefaultStackRegion         = "ca-west-1"
	DefaultPollAttempts        = 60
	DefaultPollInterval        = time.Second
)

// FileName is the config file name looked up in the global config directory.
const FileName = "config.yaml"

// WithDefaults returns a copy of cfg with zero-value fields filled in.
func WithDefaults(cfg Config) Config {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.DefaultMaxTokens == 0 {
		cfg.DefaultMaxTokens = DefaultMaxTokens
	}
	if cfg.MaxTokensLimit == 0 {
		cfg.MaxTokensLimit = DefaultMaxTokensLimit
	}
	if cfg.CompletionCacheSize == 0 {
		cfg.CompletionCacheSize = DefaultCompletionCacheSize
	}
	if cfg.SecretCacheSize == 0 {
		cfg.SecretCacheSize = DefaultSecretCacheSize
	}
	if cfg.Stack.Name == "" {
		cfg.Stack.Name = DefaultStackName
	}
	if cfg.Stack.Region == "" {
		cfg.Stack.Region = DefaultStackRegion
	}
	if cfg.Stack.PollAttempts == 0 {
		cfg.Stack.PollAttempts = DefaultPollAttempts
	}
	if cfg.Stack.PollInterval == 0 {
		cfg.Stack.PollInterval = DefaultPollInterval
	}
	return cfg
}
