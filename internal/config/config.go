// Package config provides configuration loading and validation for the staffdesk console
// and the backend's authentication settings.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Defaults applied by MergeWithDefaults callers.
const (
	DefaultAPIURL   = "http://localhost:8080"
	DefaultPageSize = 10
	maxPageSize     = 500
)

// Config represents the console configuration that can be loaded from a JSON file.
// All fields are optional; flags override file values.
type Config struct {
	APIURL   string `json:"api_url,omitempty"`   // Base URL of the staffdesk backend
	Token    string `json:"token,omitempty"`     // Bearer token written by `staffdesk login`
	Email    string `json:"email,omitempty"`     // Employee email of the last login
	PageSize int    `json:"page_size,omitempty"` // Rows per page in list output
}

// DefaultPath returns the console config location. STAFFDESK_CONFIG overrides the
// per-user default.
func DefaultPath() (string, error) {
	if p := os.Getenv("STAFFDESK_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "staffdesk", "config.json"), nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// LoadOrEmpty is LoadConfig that treats a missing file as an empty configuration.
func LoadOrEmpty(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration, creating parent directories. The file holds a token
// and is written owner-readable only.
func (c *Config) Save(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'api_url' must be an http(s) URL, got %q", c.APIURL)
		}
	}
	if c.PageSize < 0 || c.PageSize > maxPageSize {
		return fmt.Errorf("config error: 'page_size' must be between 0 and %d", maxPageSize)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}

	return result
}
