// Package gemini adapts the Google Gen AI SDK to the rewriter's JSON
// completion contract.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"slidegen/internal/services/llm"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultTemperature = float32(0.7)
	defaultTimeout     = 60 * time.Second
)

// Config captures the Gemini API settings.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// Client issues JSON-only generateContent calls.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

// Option customizes the client.
type Option func(*options)

type options struct {
	httpClient  *http.Client
	temperature float32
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(o *options) {
		if temperature >= 0 {
			o.temperature = temperature
		}
	}
}

// NewClient builds a Gemini API client.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	o := options{httpClient: &http.Client{Timeout: timeout}, temperature: defaultTemperature}
	for _, opt := range opts {
		opt(&o)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model, temperature: o.temperature}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// CompleteJSON sends the system instruction and user prompt, requesting a
// JSON response.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" || userPrompt == "" {
		return "", errors.New("gemini complete: system and user prompts required")
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		ResponseMIMEType:  "application/json",
	}
	return c.generate(ctx, "gemini complete", genai.Text(userPrompt), config)
}

// HealthCheck verifies the key and model answer a minimal request.
func (c *Client) HealthCheck(ctx context.Context) error {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
	}
	content, err := c.generate(ctx, "gemini health", genai.Text(`Respond with {"ok":true}`), config)
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := llm.DecodeJSON(content, &parsed); err != nil {
		return fmt.Errorf("gemini health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("gemini health: unexpected response")
	}
	return nil
}

func (c *Client) generate(ctx context.Context, op string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%s: no candidates", op)
	}
	if reason := resp.Candidates[0].FinishReason; reason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%s: blocked by safety filters", op)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: empty content (finish_reason=%q)", op, resp.Candidates[0].FinishReason)
	}
	return text, nil
}
