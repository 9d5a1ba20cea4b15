package config

const (
	defaultConfigPath        = "~/.config/cinepick/config.toml"
	projectConfigFile        = "cinepick.toml"
	dotEnvFile               = ".env"
	defaultDataDir           = "~/.local/share/cinepick"
	defaultCacheDir          = "~/.cache/cinepick"
	defaultLogDir            = "~/.local/share/cinepick/logs"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL  = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage      = "en-US"
	defaultTMDBRegion        = "IN"
	defaultTMDBTimeout       = 10
	defaultTMDBRPS           = 20
	defaultTMDBBurst         = 5
	defaultLLMProvider       = ProviderGemini
	defaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel       = "gemini-1.5-flash"
	defaultOpenAIBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenAIModel       = "google/gemini-flash-1.5"
	defaultLLMTemperature    = 0.7
	defaultLLMTimeout        = 30
	defaultLLMRetryAttempts  = 1
	defaultLLMReferer        = "https://github.com/cinepick/cinepick"
	defaultLLMTitle          = "cinepick"
	defaultResolverWorkers   = 1
	maxResolverWorkers       = 16
	defaultOTTSearchTemplate = "https://www.justwatch.com/in/search?q={query}"
	defaultCacheTTLHours     = 24
	defaultServerBind        = "127.0.0.1:8090"
	defaultServerRateLimit   = 30
	defaultServerTimeout     = 120
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 20
	defaultLogMaxBackups     = 3
	defaultLogMaxAgeDays     = 30
)

// Supported language model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			Region:            defaultTMDBRegion,
			TimeoutSeconds:    defaultTMDBTimeout,
			RequestsPerSecond: defaultTMDBRPS,
			Burst:             defaultTMDBBurst,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			Temperature:    defaultLLMTemperature,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Resolver: Resolver{
			Workers:           defaultResolverWorkers,
			OTTSearchTemplate: defaultOTTSearchTemplate,
		},
		Cache: Cache{
			Enabled:  true,
			TTLHours: defaultCacheTTLHours,
		},
		History: History{
			Enabled: true,
		},
		Server: Server{
			Bind:               defaultServerBind,
			RateLimitPerMinute: defaultServerRateLimit,
			RequestTimeout:     defaultServerTimeout,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
