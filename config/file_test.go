package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	yamlContent := `
mkvmerge_path: "/opt/mkvtoolnix/mkvmerge"
log_level: "info"
silent: true
probe_cache_ttl: "1h"
probe_concurrency: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.MkvmergePath != "/opt/mkvtoolnix/mkvmerge" {
		t.Errorf("Expected mkvmerge path '/opt/mkvtoolnix/mkvmerge', got '%s'", cfg.MkvmergePath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.LogLevel)
	}
	if !cfg.Silent {
		t.Error("Expected silent true, got false")
	}
	if cfg.ProbeCacheTTL != "1h" {
		t.Errorf("Expected cache ttl '1h', got '%s'", cfg.ProbeCacheTTL)
	}
	if cfg.ProbeConcurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.ProbeConcurrency)
	}

	// Keys not in the file keep defaults
	if cfg.TableStyle != "light" {
		t.Errorf("Expected default table style 'light', got '%s'", cfg.TableStyle)
	}
}

func TestLoadConfigFile_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mkvmux.toml")

	tomlContent := `
mkvmerge_path = "/usr/local/bin/mkvmerge"
table_style = "rounded"
probe_concurrency = 2
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MkvmergePath != "/usr/local/bin/mkvmerge" {
		t.Errorf("Expected mkvmerge path '/usr/local/bin/mkvmerge', got '%s'", cfg.MkvmergePath)
	}
	if cfg.TableStyle != "rounded" {
		t.Errorf("Expected table style 'rounded', got '%s'", cfg.TableStyle)
	}
	if cfg.ProbeConcurrency != 2 {
		t.Errorf("Expected concurrency 2, got %d", cfg.ProbeConcurrency)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected default log level 'warn', got '%s'", cfg.LogLevel)
	}
}

func TestLoadConfigFile_NotFound(t *testing.T) {
	_, err := LoadConfigFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid.yaml", "mkvmerge_path: x\ninvalid yaml syntax here ][{\n"},
		{"invalid.toml", "mkvmerge_path = \n[[broken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.name)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			if _, err := LoadConfigFile(configPath); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestSaveConfigFile(t *testing.T) {
	for _, name := range []string{"saved.yaml", "nested/dir/saved.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := DefaultConfig()
			cfg.MkvmergePath = "/opt/mkvmerge"
			cfg.ProbeConcurrency = 8
			cfg.Silent = true

			if err := SaveConfigFile(cfg, configPath); err != nil {
				t.Fatalf("Failed to save config: %v", err)
			}

			// Load it back and verify
			loaded, err := LoadConfigFile(configPath)
			if err != nil {
				t.Fatalf("Failed to load saved config: %v", err)
			}

			if *loaded != *cfg {
				t.Errorf("Round trip mismatch: expected %+v, got %+v", *cfg, *loaded)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	if path := FindConfigFile(); path != "" && filepath.Dir(path) != "/etc/mkvmux" {
		t.Errorf("Expected no config file, got '%s'", path)
	}

	userConfig := filepath.Join(dir, ".config", "mkvmux", "config.toml")
	if err := os.MkdirAll(filepath.Dir(userConfig), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userConfig, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if path := FindConfigFile(); path != userConfig {
		t.Errorf("Expected '%s', got '%s'", userConfig, path)
	}

	// The working directory is searched first
	if err := os.WriteFile(filepath.Join(dir, "mkvmux.yaml"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if path := FindConfigFile(); path != "mkvmux.yaml" {
		t.Errorf("Expected 'mkvmux.yaml', got '%s'", path)
	}
}
