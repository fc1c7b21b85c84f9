package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Connections ConnectionsConfig `toml:"connections"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Extraction  ExtractionConfig  `toml:"extraction"`
}

// ConnectionsConfig contains the source and target Azure DevOps organizations.
type ConnectionsConfig struct {
	Source OrganizationConfig `toml:"source"`
	Target OrganizationConfig `toml:"target"`
}

// OrganizationConfig contains credentials for one Azure DevOps organization.
type OrganizationConfig struct {
	Organization string `toml:"organization"`
	BaseURL      string `toml:"base_url"`
	Token        string `toml:"token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ExtractionConfig contains tuning knobs for the extraction engine and poller.
type ExtractionConfig struct {
	FetchTimeoutSeconds int     `toml:"fetch_timeout_seconds"`
	RateLimit           float64 `toml:"rate_limit"`
	PollIntervalSeconds int     `toml:"poll_interval_seconds"`
	PollCeilingMinutes  int     `toml:"poll_ceiling_minutes"`
}

// FetchTimeout returns the per-fetch timeout, defaulting to five minutes.
func (e ExtractionConfig) FetchTimeout() time.Duration {
	if e.FetchTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(e.FetchTimeoutSeconds) * time.Second
}

// PollInterval returns the poller tick interval, defaulting to three seconds.
func (e ExtractionConfig) PollInterval() time.Duration {
	if e.PollIntervalSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(e.PollIntervalSeconds) * time.Second
}

// PollCeiling returns the absolute polling ceiling, defaulting to ten minutes.
func (e ExtractionConfig) PollCeiling() time.Duration {
	if e.PollCeilingMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(e.PollCeilingMinutes) * time.Minute
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
