package config

import (
	"os"
	"strings"
)

// Environment variables recognised by FromEnv.
const (
	EnvModel               = "OPENAI_MODEL"
	EnvOpenAIBaseURL       = "OPENAI_BASE_URL"
	EnvSecretName          = "OPENAI_SECRET_NAME"
	EnvAnthropicSecretName = "ANTHROPIC_SECRET_NAME"
	EnvRegion              = "AWS_REGION"
	EnvLogLevel            = "PROMPTPROXY_LOG_LEVEL"
)

// GetEnv returns the trimmed value of an environment variable or a default when unset.
func GetEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// FromEnv builds a Config holding only the values set in the environment.
func FromEnv() Config {
	return Config{
		Model:               GetEnv(EnvModel, ""),
		OpenAIBaseURL:       GetEnv(EnvOpenAIBaseURL, ""),
		SecretName:          GetEnv(EnvSecretName, ""),
		AnthropicSecretName: GetEnv(EnvAnthropicSecretName, ""),
		Region:              GetEnv(EnvRegion, ""),
		LogLevel:            GetEnv(EnvLogLevel, ""),
	}
}

// Getenv looks key up in the environment and falls back to the matching
// config value, so file settings reach code that reads variables by name.
func (c Config) Getenv(key string) string {
	if v := GetEnv(key, ""); v != "" {
		return v
	}
	switch key {
	case EnvModel:
		return c.Model
	case EnvOpenAIBaseURL:
		return c.OpenAIBaseURL
	case EnvSecretName:
		return c.SecretName
	case EnvAnthropicSecretName:
		return c.AnthropicSecretName
	case EnvRegion:
		return c.Region
	case EnvLogLevel:
		return c.LogLevel
	}
	return ""
}
