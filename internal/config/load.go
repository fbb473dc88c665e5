package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load and LoadStudio.
const EnvPrefix = "FLASHFORGE"

// ConfigPathEnv names an explicit config file, overriding the search path.
const ConfigPathEnv = EnvPrefix + "_CONFIG"

var serverDefaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.shutdown_timeout_seconds":     10,
	"database.url":                        "",
	"auth.jwt_secret":                     "",
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"auth.bcrypt_cost":                    10,
	"llm.provider":                        "gemini",
	"llm.gemini_api_key":                  "",
	"llm.openai_api_key":                  "",
	"llm.model_name":                      "",
	"llm.prompt_template_path":            "",
	"llm.request_timeout_seconds":         60,
	"llm.max_retries":                     2,
	"llm.retry_delay_seconds":             1,
	"generation.rate_limit_per_minute":    10,
	"generation.rate_limit_burst":         3,
	"generation.breaker_max_failures":     5,
	"generation.breaker_open_seconds":     30,
	"profile.cache_ttl_seconds":           300,
}

// Load reads the server configuration from defaults, an optional config.yaml
// and FLASHFORGE_* environment variables, in increasing precedence.
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v, err := newViper("config", serverDefaults)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadStudio reads the studio configuration. Paths default to the user's
// config and home directories.
func LoadStudio() (*StudioConfig, error) {
	defaults := map[string]any{
		"studio.server_url":   "http://localhost:8080",
		"studio.session_file": defaultStudioPath("session.toml"),
		"studio.export_dir":   defaultExportDir(),
		"studio.log_level":    "info",
		"studio.log_file":     defaultStudioPath("studio.log"),
	}

	v, err := newViper("studio", defaults)
	if err != nil {
		return nil, err
	}

	var cfg struct {
		Studio StudioConfig `mapstructure:"studio"`
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal studio config: %w", err)
	}

	if err := validator.New().Struct(&cfg.Studio); err != nil {
		return nil, fmt.Errorf("studio config validation failed: %w", err)
	}

	return &cfg.Studio, nil
}

// newViper builds a viper instance with defaults, env binding and an optional
// config file named name.yaml in the working directory.
func newViper(name string, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

func defaultStudioPath(file string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return file
	}
	return filepath.Join(dir, "flashforge", file)
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
