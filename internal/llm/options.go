package llm

const (
	// defaultMaxTokens is the default maximum output tokens per request.
	defaultMaxTokens = 4096

	// defaultMaxRetries is the number of automatic retries on transient errors
	// (429 rate-limit, 5xx server errors). The SDKs handle exponential backoff.
	defaultMaxRetries = 3
)

// Option configures a provider backend.
type Option func(*providerConfig)

type providerConfig struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
}

// WithAPIKey sets the API key. If not provided, the provider reads its
// usual environment variable (OPENAI_API_KEY, ANTHROPIC_API_KEY).
func WithAPIKey(key string) Option {
	return func(c *providerConfig) {
		c.apiKey = key
	}
}

// WithModel overrides the default model for all requests.
func WithModel(model string) Option {
	return func(c *providerConfig) {
		c.model = model
	}
}

// WithMaxRetries sets the maximum number of retries for transient errors.
func WithMaxRetries(n int) Option {
	return func(c *providerConfig) {
		c.maxRetries = n
	}
}

// WithBaseURL points the provider at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		c.baseURL = url
	}
}

func newProviderConfig(defaultModel string, opts []Option) providerConfig {
	cfg := providerConfig{
		model:      defaultModel,
		maxRetries: defaultMaxRetries,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
