package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/pflag"
)

// LoadConfig loads configuration with priority: CLI flags > Config file > Defaults.
// fs must already be parsed and carry the flags from RegisterFlags. The path of
// the config file used, if any, is returned alongside.
func LoadConfig(fs *pflag.FlagSet) (*Config, string, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. An explicit --config wins over the standard locations
	configPath, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, "", err
	}
	if configPath == "" {
		configPath = FindConfigFile()
	}

	// Load config file if found
	if configPath != "" {
		fileCfg, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		// Merge file config (overwrites defaults)
		cfg = fileCfg
	}

	// 3. Merge CLI flags (highest priority, overwrites everything)
	if err := cfg.MergeFromFlags(fs); err != nil {
		return nil, "", err
	}

	// Auto-detect probe concurrency if set to 0
	if cfg.ProbeConcurrency == 0 {
		cfg.ProbeConcurrency = runtime.NumCPU()
	}

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, configPath, nil
}
