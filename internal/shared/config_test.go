package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "discotag.db" {
			t.Errorf("expected database path discotag.db, got %s", config.Database.Path)
		}

		if config.Enrichment.ArtworkEnabled {
			t.Error("expected artwork extraction to default to disabled")
		}

		if config.Enrichment.ExtractTimeoutSecs != 30 {
			t.Errorf("expected extract timeout 30, got %d", config.Enrichment.ExtractTimeoutSecs)
		}

		if config.Enrichment.MaxFetchBytes != 4194304 {
			t.Errorf("expected max fetch bytes 4194304, got %d", config.Enrichment.MaxFetchBytes)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[enrichment]
artwork_enabled = true
extract_timeout_secs = 5
max_fetch_bytes = 1048576
rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}

		if !config.Enrichment.ArtworkEnabled {
			t.Error("expected artwork extraction enabled")
		}

		if config.Enrichment.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Enrichment.RateLimit)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
