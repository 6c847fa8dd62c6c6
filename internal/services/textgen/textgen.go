// Package textgen builds the configured text-generation client.
//
// OpenAI and OpenRouter share the chat-completions client in services/llm;
// Gemini uses the genai SDK wrapper in services/gemini. Every client satisfies
// Client, which is a superset of what the rewriter needs.
package textgen

import (
	"context"
	"fmt"
	"net/http"

	"slidegen/internal/config"
	"slidegen/internal/services"
	"slidegen/internal/services/gemini"
	"slidegen/internal/services/llm"
)

// Client is a text-generation backend returning raw JSON answers.
type Client interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

type settings struct {
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*settings)

// WithHTTPClient routes provider traffic through client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// New returns the client for cfg.Provider. The "none" provider, an unknown
// provider, a missing API key, and SDK construction failures all yield
// configuration errors.
func New(ctx context.Context, cfg config.LLMConfig, opts ...Option) (Client, error) {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderOpenRouter, config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", fmt.Sprintf("provider %q has no API key", cfg.Provider), nil)
		}
	}

	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		var llmOpts []llm.Option
		if s.httpClient != nil {
			llmOpts = append(llmOpts, llm.WithHTTPClient(s.httpClient))
		}
		return llm.NewClient(llm.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}, llmOpts...), nil
	case config.ProviderGemini:
		var geminiOpts []gemini.Option
		if s.httpClient != nil {
			geminiOpts = append(geminiOpts, gemini.WithHTTPClient(s.httpClient))
		}
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}, geminiOpts...)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", "gemini", err)
		}
		return client, nil
	case config.ProviderNone:
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", "provider none has no text service", nil)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", fmt.Sprintf("unsupported provider %q", cfg.Provider), nil)
	}
}
