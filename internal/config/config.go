package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for keyring and config
const AppName = "notion-tools"

// Environment variables consulted when resolving settings.
const (
	EnvAPIToken            = "NOTION_API_TOKEN"
	EnvDefaultParentPageID = "NOTION_DEFAULT_PARENT_PAGE_ID"
	EnvAPITimeout          = "NOTION_API_TIMEOUT"
	EnvAPIMaxRetries       = "NOTION_API_MAX_RETRIES"
	EnvKeyringBackend      = "NOTION_KEYRING_BACKEND"
)

// Config holds CLI configuration
type Config struct {
	BaseURL             string `yaml:"base_url,omitempty"`
	DefaultParentPageID string `yaml:"default_parent_page_id,omitempty"`
	Token               string `yaml:"token,omitempty"`
	KeyringBackend      string `yaml:"keyring_backend,omitempty"` // auto, keychain, file
	OutputFormat        string `yaml:"output_format,omitempty"`   // text, json, yaml, table
	TimeoutSeconds      int    `yaml:"timeout_seconds,omitempty"`
	MaxRetries          *int   `yaml:"max_retries,omitempty"`
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureKeyringDir ensures the keyring directory exists and returns its path
func EnsureKeyringDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	keyringDir := filepath.Join(dir, "keyring")
	if err := os.MkdirAll(keyringDir, 0o700); err != nil {
		return "", fmt.Errorf("creating keyring directory: %w", err)
	}
	return keyringDir, nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Timeout returns the configured request timeout, falling back to the
// NOTION_API_TIMEOUT environment variable and then to 30 seconds.
func (c *Config) Timeout(envGet func(string) string) (time.Duration, error) {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second, nil
	}
	if raw := strings.TrimSpace(envGet(EnvAPITimeout)); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be numeric", EnvAPITimeout)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
	return 30 * time.Second, nil
}

// Retries returns the configured retry budget, falling back to the
// NOTION_API_MAX_RETRIES environment variable and then to 3.
func (c *Config) Retries(envGet func(string) string) (int, error) {
	if c.MaxRetries != nil {
		return *c.MaxRetries, nil
	}
	if raw := strings.TrimSpace(envGet(EnvAPIMaxRetries)); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", EnvAPIMaxRetries)
		}
		return retries, nil
	}
	return 3, nil
}

// RedactToken masks a token for display, keeping only the last four
// characters. Short tokens are fully masked.
func RedactToken(token string) string {
	stripped := strings.TrimSpace(token)
	if stripped == "" {
		return ""
	}
	if len(stripped) <= 4 {
		return strings.Repeat("*", len(stripped))
	}
	return strings.Repeat("*", len(stripped)-4) + stripped[len(stripped)-4:]
}
