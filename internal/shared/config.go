package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Sync        SyncConfig        `toml:"sync"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	ITGlue   ITGlueConfig   `toml:"itglue"`
	Autotask AutotaskConfig `toml:"autotask"`
}

// ITGlueConfig contains IT Glue API credentials.
type ITGlueConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// AutotaskConfig contains Autotask REST API credentials.
type AutotaskConfig struct {
	Username        string `toml:"username"`
	Secret          string `toml:"secret"`
	IntegrationCode string `toml:"integration_code"`
	BaseURL         string `toml:"base_url"`
}

// SyncConfig contains sync pipeline settings.
type SyncConfig struct {
	PageSize    int      `toml:"page_size"`
	RateLimit   float64  `toml:"rate_limit"`
	License     string   `toml:"license"`
	ExcludeOrgs []string `toml:"exclude_orgs"`
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
