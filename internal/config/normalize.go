package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeneration()
	if err := c.normalizeCatalogPath(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		c.Paths.AssetsDir = defaultAssetsDir
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.LogDir, defaultHistoryFile)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	c.Generation.Variant = strings.ToLower(strings.TrimSpace(c.Generation.Variant))
	if c.Generation.Variant == "" {
		c.Generation.Variant = defaultVariant
	}
	c.Generation.OutputName = strings.TrimSpace(c.Generation.OutputName)
	if c.Generation.OutputName == "" {
		c.Generation.OutputName = defaultOutputName
	}
}

func (c *Config) normalizeCatalogPath() error {
	if strings.TrimSpace(c.Generation.CatalogPath) == "" {
		c.Generation.CatalogPath = ""
		return nil
	}
	var err error
	if c.Generation.CatalogPath, err = expandPath(strings.TrimSpace(c.Generation.CatalogPath)); err != nil {
		return fmt.Errorf("generation.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultProvider
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)

	switch c.LLM.Provider {
	case ProviderOpenAI:
		c.LLM.APIKey = firstEnv(c.LLM.APIKey, "OPENAI_API_KEY")
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultOpenAIBaseURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultOpenAIModel
		}
	case ProviderOpenRouter:
		c.LLM.APIKey = firstEnv(c.LLM.APIKey, "OPENROUTER_API_KEY")
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultOpenRouterBaseURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultOpenRouterModel
		}
		if strings.TrimSpace(c.LLM.Referer) == "" {
			c.LLM.Referer = defaultOpenRouterReferer
		}
		if strings.TrimSpace(c.LLM.Title) == "" {
			c.LLM.Title = defaultOpenRouterTitle
		}
	case ProviderGemini:
		c.LLM.APIKey = firstEnv(c.LLM.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if c.LLM.Model == "" {
			c.LLM.Model = defaultGeminiModel
		}
	}

	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	c.LLM.Locale = strings.ToLower(strings.TrimSpace(c.LLM.Locale))
	if c.LLM.Locale == "" {
		c.LLM.Locale = defaultLocale
	}
}

// firstEnv returns current when set, otherwise the first non-empty environment value.
func firstEnv(current string, keys ...string) string {
	if current != "" {
		return current
	}
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text", "pretty":
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
