package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RINTH_API_TOKEN.
const EnvPrefix = "RINTH"

// MaxSearchLimit is the largest page size the search endpoint accepts.
const MaxSearchLimit = 100

// Load loads the configuration. An explicit configPath must exist; without
// one the standard locations are searched and a missing file is not an
// error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "rinth"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rinth"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", "https://api.modrinth.com/v2/")
	v.SetDefault("api.token", "")
	v.SetDefault("api.user_agent", "s0up4200/rinth")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.strict", false)

	// Search defaults
	v.SetDefault("search.limit", 20)
	v.SetDefault("search.index", "relevance")
	v.SetDefault("search.max", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Newf("api.url must be an absolute http(s) URL, got %q", cfg.API.URL)
	}

	if cfg.API.Timeout <= 0 {
		return errors.Newf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	if cfg.Search.Limit < 0 || cfg.Search.Limit > MaxSearchLimit {
		return errors.Newf("search.limit must be between 0 and %d, got %d", MaxSearchLimit, cfg.Search.Limit)
	}
	if cfg.Search.Max < 0 {
		return errors.Newf("search.max must not be negative, got %d", cfg.Search.Max)
	}

	validIndexes := map[string]bool{
		"":          true,
		"relevance": true,
		"downloads": true,
		"follows":   true,
		"newest":    true,
		"updated":   true,
	}
	if !validIndexes[cfg.Search.Index] {
		return errors.Newf("invalid search.index: %s", cfg.Search.Index)
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return errors.Newf("filter.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return errors.Newf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return errors.Newf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
