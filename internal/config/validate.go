package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateRewrite(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.CatalogPath == "" && c.Generation.Variant == "" {
		return errors.New("generation.variant must be set when generation.catalog_path is empty")
	}
	name := c.Generation.OutputName
	if filepath.Base(name) != name {
		return fmt.Errorf("generation.output_name must be a file name, got %q", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return fmt.Errorf("generation.output_name must end in .json, got %q", name)
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
	case ProviderNone:
		return nil
	default:
		return fmt.Errorf("llm.provider: unsupported value %q (want openai, openrouter, gemini, or none)", c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderGemini && c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

// RequireAPIKey reports a missing credential for an online provider. Load
// does not enforce it so offline runs work without a key.
func (c *Config) RequireAPIKey() error {
	if c.LLM.Provider == ProviderNone || c.LLM.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf(
		"llm.api_key is required for provider %q. Set %s or edit %s (create with 'slidegen config init'), or set llm.provider = \"none\"",
		c.LLM.Provider,
		providerEnvHint(c.LLM.Provider),
		defaultPath,
	)
}

func providerEnvHint(provider string) string {
	switch provider {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func (c *Config) validateRewrite() error {
	if c.Rewrite.MaxAttempts <= 0 {
		return errors.New("rewrite.max_attempts must be positive")
	}
	if c.Rewrite.MaxAttempts > maxRewriteAttempts {
		return fmt.Errorf("rewrite.max_attempts must be at most %d", maxRewriteAttempts)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
