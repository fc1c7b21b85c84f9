package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "adomig.db" {
			t.Errorf("expected database path adomig.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Extraction.FetchTimeoutSeconds != 300 {
			t.Errorf("expected fetch timeout 300s, got %d", config.Extraction.FetchTimeoutSeconds)
		}

		if config.Connections.Source.Organization != "" {
			t.Errorf("expected empty source organization, got %s", config.Connections.Source.Organization)
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

		testConfig := `[connections.source]
organization = "contoso"
base_url = "https://devops.contoso.local"
token = "test_pat"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[extraction]
fetch_timeout_seconds = 60
rate_limit = 2.5
poll_interval_seconds = 1
poll_ceiling_minutes = 2
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Connections.Source.Organization != "contoso" {
			t.Errorf("expected source organization contoso, got %s", config.Connections.Source.Organization)
		}

		if config.Extraction.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Extraction.RateLimit)
		}
	})

	t.Run("Extraction Durations", func(t *testing.T) {
		ec := ExtractionConfig{
			FetchTimeoutSeconds: 60,
			PollIntervalSeconds: 1,
			PollCeilingMinutes:  2,
		}

		if ec.FetchTimeout() != time.Minute {
			t.Errorf("expected 1m fetch timeout, got %s", ec.FetchTimeout())
		}
		if ec.PollInterval() != time.Second {
			t.Errorf("expected 1s poll interval, got %s", ec.PollInterval())
		}
		if ec.PollCeiling() != 2*time.Minute {
			t.Errorf("expected 2m poll ceiling, got %s", ec.PollCeiling())
		}
	})

	t.Run("Extraction Duration Defaults", func(t *testing.T) {
		var ec ExtractionConfig

		if ec.FetchTimeout() != 5*time.Minute {
			t.Errorf("expected 5m default fetch timeout, got %s", ec.FetchTimeout())
		}
		if ec.PollInterval() != 3*time.Second {
			t.Errorf("expected 3s default poll interval, got %s", ec.PollInterval())
		}
		if ec.PollCeiling() != 10*time.Minute {
			t.Errorf("expected 10m default poll ceiling, got %s", ec.PollCeiling())
		}
	})
}
