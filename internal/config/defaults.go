package config

// Supported text-generation providers.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderNone       = "none"
)

const (
	defaultConfigPath         = "~/.config/slidegen/config.toml"
	defaultAssetsDir          = "~/slidegen/assets"
	defaultOutputDir          = "~/slidegen/output"
	defaultLogDir             = "~/.local/share/slidegen/logs"
	defaultHistoryFile        = "history.db"
	defaultVariant            = "betai"
	defaultOutputName         = "output.json"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultProvider           = ProviderOpenAI
	defaultLocale             = "en"
	defaultRewriteMaxAttempts = 3
	defaultLLMTimeoutSeconds  = 60
	defaultOpenAIBaseURL      = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel        = "gpt-4.1-mini"
	defaultOpenRouterBaseURL  = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel    = "openai/gpt-4.1-mini"
	defaultGeminiModel        = "gemini-2.5-flash"
	defaultOpenRouterReferer  = "https://github.com/slidegen/slidegen"
	defaultOpenRouterTitle    = "slidegen"
	maxRewriteAttempts        = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Generation: Generation{
			Variant:       defaultVariant,
			OutputName:    defaultOutputName,
			WritePreview:  true,
			RecordHistory: true,
		},
		LLM: LLM{
			Provider:       defaultProvider,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Locale:         defaultLocale,
		},
		Rewrite: Rewrite{
			MaxAttempts: defaultRewriteMaxAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
