package config

// Config holds the server configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Profile    ProfileConfig    `mapstructure:"profile" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gt=0,lte=1440"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gtfield=TokenLifetimeMinutes"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	Provider              string `mapstructure:"provider" validate:"required,oneof=gemini openai"`
	GeminiAPIKey          string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey          string `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	ModelName             string `mapstructure:"model_name"`
	PromptTemplatePath    string `mapstructure:"prompt_template_path"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`
	MaxRetries            int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds" validate:"gte=1"`
}

// GenerationConfig bounds how often and how hard the generator is called.
type GenerationConfig struct {
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"gt=0"`
	RateLimitBurst     int `mapstructure:"rate_limit_burst" validate:"gt=0"`
	BreakerMaxFailures int `mapstructure:"breaker_max_failures" validate:"gt=0"`
	BreakerOpenSeconds int `mapstructure:"breaker_open_seconds" validate:"gt=0"`
}

// ProfileConfig controls the profile read cache.
type ProfileConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// StudioConfig holds the terminal studio's settings.
type StudioConfig struct {
	ServerURL   string `mapstructure:"server_url" validate:"required,url"`
	SessionFile string `mapstructure:"session_file" validate:"required"`
	ExportDir   string `mapstructure:"export_dir" validate:"required"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFile     string `mapstructure:"log_file"`
}
