// Package secrets resolves provider API keys from the environment or from
// AWS Secrets Manager.
//
// Resolution never fails loudly: a missing secret name, an unreachable
// secret store and a malformed payload all surface as absence. Store errors
// are logged so operators can tell "not configured" from "fetch failed".
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davetashner/promptproxy/internal/redact"
)

// ErrSecretNotFound is returned by a Store when the named secret has no
// string value.
var ErrSecretNotFound = errors.New("secrets: secret not found")

// Store fetches the string value of a named secret.
type Store interface {
	GetSecretString(ctx context.Context, name string) (string, error)
}

// StoreFactory builds a Store for the given region. An empty region means the
// SDK default. A factory error means no store is available.
type StoreFactory func(ctx context.Context, region string) (Store, error)

// KeySpec describes where one provider's API key may be found.
type KeySpec struct {
	// EnvVar holds the key directly, e.g. OPENAI_API_KEY.
	EnvVar string

	// SecretNameEnvVar holds the name of the secret to fetch, e.g.
	// OPENAI_SECRET_NAME.
	SecretNameEnvVar string

	// Fields lists JSON payload fields to try, in priority order.
	Fields []string
}

// OpenAI is the key spec for the OpenAI backend.
var OpenAI = KeySpec{
	EnvVar:           "OPENAI_API_KEY",
	SecretNameEnvVar: "OPENAI_SECRET_NAME",
	Fields:           []string{"OPENAI_API_KEY", "openai_api_key", "api_key", "key"},
}

// Anthropic is the key spec for the Anthropic backend.
var Anthropic = KeySpec{
	EnvVar:           "ANTHROPIC_API_KEY",
	SecretNameEnvVar: "ANTHROPIC_SECRET_NAME",
	Fields:           []string{"ANTHROPIC_API_KEY", "anthropic_api_key", "api_key", "key"},
}

// RegionEnvVar scopes the secret-store client when set.
const RegionEnvVar = "AWS_REGION"

// DefaultCacheSize is the number of key specs memoized by a Resolver.
const DefaultCacheSize = 4

type lookup struct {
	key   string
	found bool
}

// Resolver looks up API keys and memoizes the outcome, including absence,
// for the lifetime of the process.
type Resolver struct {
	newStore StoreFactory
	getenv   func(string) string
	cache    *lru.Cache[string, lookup]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStoreFactory overrides how the secret store is built.
func WithStoreFactory(f StoreFactory) Option {
	return func(r *Resolver) {
		r.newStore = f
	}
}

// WithGetenv overrides environment lookup.
func WithGetenv(f func(string) string) Option {
	return func(r *Resolver) {
		r.getenv = f
	}
}

// WithCacheSize sets the memo capacity. Values below 1 keep the default.
func WithCacheSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			c, err := lru.New[string, lookup](n)
			if err == nil {
				r.cache = c
			}
		}
	}
}

// NewResolver creates a Resolver backed by AWS Secrets Manager.
func NewResolver(opts ...Option) *Resolver {
	c, _ := lru.New[string, lookup](DefaultCacheSize) //nolint:errcheck // size is positive
	r := &Resolver{
		newStore: NewAWSStore,
		getenv:   os.Getenv,
		cache:    c,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the API key for spec, or false when none can be found.
func (r *Resolver) Resolve(ctx context.Context, spec KeySpec) (string, bool) {
	if hit, ok := r.cache.Get(spec.EnvVar); ok {
		return hit.key, hit.found
	}

	key, found := r.resolve(ctx, spec)
	if found {
		redact.Register(key)
	}
	r.cache.Add(spec.EnvVar, lookup{key: key, found: found})
	return key, found
}

// Reset drops every memoized lookup.
func (r *Resolver) Reset() {
	r.cache.Purge()
}

func (r *Resolver) resolve(ctx context.Context, spec KeySpec) (string, bool) {
	if key := r.getenv(spec.EnvVar); key != "" {
		return key, true
	}

	name := r.getenv(spec.SecretNameEnvVar)
	if name == "" {
		return "", false
	}
	if r.newStore == nil {
		return "", false
	}

	store, err := r.newStore(ctx, r.getenv(RegionEnvVar))
	if err != nil {
		slog.Warn("secret store unavailable", "secret", name, "error", redact.String(err.Error()))
		return "", false
	}

	payload, err := store.GetSecretString(ctx, name)
	if err != nil {
		slog.Warn("secret fetch failed", "secret", name, "error", redact.String(err.Error()))
		return "", false
	}

	key := ParsePayload(payload, spec.Fields)
	return key, key != ""
}

// ParsePayload extracts a key from a secret payload. A JSON object yields the
// first non-empty string among fields; any other payload is the key itself.
func ParsePayload(payload string, fields []string) string {
	if payload == "" {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		var probe any
		if json.Unmarshal([]byte(payload), &probe) == nil {
			// Valid JSON but not an object: there is no field to read.
			return ""
		}
		return payload
	}

	for _, f := range fields {
		if v, ok := obj[f].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
