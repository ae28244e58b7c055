package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Provider names accepted by NewCaller.
const (
	ProviderAnthropic   = "anthropic"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// Options selects and tunes a model backend. Zero values fall back to the
// package defaults. Temperature is a pointer so that an explicit 0 selects
// greedy sampling instead of the default.
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature *float64
	MaxTokens   int
	Endpoint    string
}

// NewCaller builds the Caller for opts.Provider.
func NewCaller(ctx context.Context, opts Options) (caller Caller, err error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	switch NormalizeProvider(opts.Provider) {
	case ProviderAnthropic:
		client := NewClient(opts.APIKey, opts.Model)
		client.maxTokens = maxTokens
		client.temperature = temperature
		if opts.Endpoint != "" {
			client.endpoint = opts.Endpoint
		}
		caller = client

	case ProviderHuggingFace:
		client := NewHuggingFaceClient(opts.APIKey, opts.Model)
		client.maxTokens = maxTokens
		client.temperature = temperature
		if opts.Endpoint != "" {
			client.endpoint = opts.Endpoint
		}
		caller = client

	case ProviderGemini:
		var client *GeminiClient
		client, err = NewGeminiClient(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return caller, err
		}
		client.maxTokens = maxTokens
		client.temperature = temperature
		caller = client

	default:
		err = errors.Errorf("unknown model provider %q (expected %s, %s or %s)", opts.Provider, ProviderAnthropic, ProviderHuggingFace, ProviderGemini)
		return caller, err
	}

	return caller, err
}

// NormalizeProvider maps aliases onto provider names. Empty means Anthropic.
func NormalizeProvider(name string) (provider string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderAnthropic, "claude":
		provider = ProviderAnthropic
	case ProviderHuggingFace, "hf":
		provider = ProviderHuggingFace
	case ProviderGemini, "google":
		provider = ProviderGemini
	default:
		provider = strings.ToLower(strings.TrimSpace(name))
	}
	return provider
}
