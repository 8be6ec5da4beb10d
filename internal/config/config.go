// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/pathgenie/internal/llm"
)

// Duration is a time.Duration written as a Go duration string ("24h", "90m") in JSON.
type Duration time.Duration

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string such as "36h".
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"24h\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config represents the application configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Completion service
	Provider   string `json:"provider,omitempty"`    // "gemini" or "gateway"
	APIKey     string `json:"api_key,omitempty"`     // Gemini or gateway API key
	GatewayURL string `json:"gateway_url,omitempty"` // Base URL of the chat completions gateway

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL for shared results
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite file for shared results
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for sessions (memory when empty)

	// Lifetimes
	SessionTTL Duration `json:"session_ttl,omitempty"` // Idle lifetime of a session
	ShareTTL   Duration `json:"share_ttl,omitempty"`   // Lifetime of a shared result link

	// Server
	Port    int  `json:"port,omitempty"`
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
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

// Validate checks that the configuration has valid values.
// Required values such as the API key are checked by the command that needs them.
func (c *Config) Validate() error {
	switch llm.Provider(c.Provider) {
	case "", llm.ProviderGemini, llm.ProviderGateway:
	default:
		return fmt.Errorf("config error: unknown provider %q (want gemini or gateway)", c.Provider)
	}

	if c.DatabaseURL != "" && c.SQLitePath != "" {
		return fmt.Errorf("config error: 'database_url' and 'sqlite_path' are mutually exclusive")
	}

	if c.GatewayURL != "" {
		u, err := url.Parse(c.GatewayURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'gateway_url' must be an http(s) URL: %s", c.GatewayURL)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}
	if c.ShareTTL < 0 {
		return fmt.Errorf("config error: 'share_ttl' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer a config file over environment values and built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GatewayURL == "" {
		result.GatewayURL = defaults.GatewayURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	// Only one shared store may be set; a configured one wins over both defaults.
	if result.DatabaseURL == "" && result.SQLitePath == "" {
		result.DatabaseURL = defaults.DatabaseURL
		if result.DatabaseURL == "" {
			result.SQLitePath = defaults.SQLitePath
		}
	}

	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.ShareTTL == 0 {
		result.ShareTTL = defaults.ShareTTL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLM returns the completion service configuration for the selected provider.
func (c *Config) LLM() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.Provider))
	if c.GatewayURL != "" {
		cfg.GatewayURL = c.GatewayURL
	}
	return cfg
}
