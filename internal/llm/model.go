package llm

import (
	"fmt"
	"strings"
)

// Provider tags recognised in a model spec.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ModelSpec is a provider-qualified model identifier such as
// "openai:gpt-3.5-turbo".
type ModelSpec struct {
	Provider string
	Name     string
}

// String returns the "provider:name" form.
func (m ModelSpec) String() string {
	return m.Provider + ":" + m.Name
}

// QualifyModel prefixes a bare model name with the OpenAI provider tag.
// Names that already contain a provider qualifier are returned unchanged.
func QualifyModel(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, ":") {
		return name
	}
	return ProviderOpenAI + ":" + name
}

// ParseModel qualifies name and splits it into provider and model.
func ParseModel(name string) (ModelSpec, error) {
	provider, model, _ := strings.Cut(QualifyModel(name), ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)
	if model == "" {
		return ModelSpec{}, fmt.Errorf("llm: model spec %q has no model name", name)
	}
	switch provider {
	case ProviderOpenAI, ProviderAnthropic:
		return ModelSpec{Provider: provider, Name: model}, nil
	default:
		return ModelSpec{}, fmt.Errorf("llm: unsupported model provider %q", provider)
	}
}

// New builds the backend for spec. Options apply on top of the spec's model.
func New(spec ModelSpec, opts ...Option) (Provider, error) {
	opts = append([]Option{WithModel(spec.Name)}, opts...)
	switch spec.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(opts...)
	case ProviderAnthropic:
		return NewAnthropicProvider(opts...)
	default:
		return nil, fmt.Errorf("llm: unsupported model provider %q", spec.Provider)
	}
}
