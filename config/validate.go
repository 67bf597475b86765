package config

import (
	"fmt"
	"os"
	"strings"

	"mkvmux/internal/logging"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.MkvmergePath) == "" {
		errors = append(errors, "mkvmerge path is required")
	}

	// An explicit language list must exist; it is re-read on every check
	if c.LanguageFile != "" {
		info, err := os.Stat(c.LanguageFile)
		if err != nil {
			errors = append(errors, fmt.Sprintf("language file does not exist: %s", c.LanguageFile))
		} else if info.IsDir() {
			errors = append(errors, fmt.Sprintf("language file is a directory: %s", c.LanguageFile))
		}
	}

	if !IsValidLogLevel(c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s', must be one of: %s",
			c.LogLevel, strings.Join(logging.LevelValues(), ", ")))
	}

	if !IsValidTableStyle(c.TableStyle) {
		errors = append(errors, fmt.Sprintf("invalid table style '%s', must be one of: %s",
			c.TableStyle, strings.Join(TableStyleValues(), ", ")))
	}

	if ttl, err := c.CacheTTL(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid probe cache ttl '%s'", c.ProbeCacheTTL))
	} else if ttl < 0 {
		errors = append(errors, "probe cache ttl cannot be negative")
	}

	// 0 is valid, means auto-detect
	if c.ProbeConcurrency < 0 {
		errors = append(errors, "probe concurrency cannot be negative (use 0 for auto-detect)")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
