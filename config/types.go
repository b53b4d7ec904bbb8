package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds Modrinth API connection details
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Strict    bool          `mapstructure:"strict"`
}

// SearchConfig contains defaults for the search command
type SearchConfig struct {
	Limit int    `mapstructure:"limit"`
	Index string `mapstructure:"index"`
	// Max caps the number of hits a search prints. Zero means no cap.
	Max int `mapstructure:"max"`
}

// FilterConfig maps names to filter expressions usable with --where
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
