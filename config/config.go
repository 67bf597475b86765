package config

import (
	"time"

	"mkvmux/internal/logging"
	"mkvmux/mkvprobe"
)

// Config holds all mkvmux configuration options
type Config struct {
	// Tools
	MkvmergePath string `yaml:"mkvmerge_path" toml:"mkvmerge_path"` // binary used for -J and muxing
	LanguageFile string `yaml:"language_file" toml:"language_file"` // ISO639-2 list, empty = built-in

	// Output
	LogLevel   string `yaml:"log_level" toml:"log_level"`     // debug, info, warn, error
	Silent     bool   `yaml:"silent" toml:"silent"`           // suppress mkvmerge output while muxing
	TableStyle string `yaml:"table_style" toml:"table_style"` // track table border style

	// Probing
	ProbeCacheTTL    string `yaml:"probe_cache_ttl" toml:"probe_cache_ttl"`       // e.g. "10m", "0" disables caching
	ProbeConcurrency int    `yaml:"probe_concurrency" toml:"probe_concurrency"` // 0 = auto-detect
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MkvmergePath: mkvprobe.DefaultMkvmergePath,
		LanguageFile: "", // Built-in list

		LogLevel:   "warn",
		Silent:     false,
		TableStyle: "light",

		ProbeCacheTTL:    "10m",
		ProbeConcurrency: 0, // Auto-detect CPU count
	}
}

// Copy creates a copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	return &copy
}

// CacheTTL returns the probe cache lifetime. Zero disables the cache.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.ProbeCacheTTL == "" || c.ProbeCacheTTL == "0" {
		return 0, nil
	}
	return time.ParseDuration(c.ProbeCacheTTL)
}

// TableStyleValues returns valid table style values
func TableStyleValues() []string {
	return []string{"light", "rounded", "bold", "double", "plain"}
}

// IsValidTableStyle checks if style is valid
func IsValidTableStyle(style string) bool {
	for _, valid := range TableStyleValues() {
		if style == valid {
			return true
		}
	}
	return false
}

// IsValidLogLevel checks if level is a known log level
func IsValidLogLevel(level string) bool {
	for _, valid := range logging.LevelValues() {
		if level == valid {
			return true
		}
	}
	return false
}
