package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Built-in defaults
const (
	DefaultPort       = 8080
	DefaultSessionTTL = 24 * time.Hour
	DefaultShareTTL   = 30 * 24 * time.Hour
	DefaultSQLitePath = "data/pathgenie.db"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:   "gemini",
		SQLitePath: DefaultSQLitePath,
		SessionTTL: Duration(DefaultSessionTTL),
		ShareTTL:   Duration(DefaultShareTTL),
		Port:       DefaultPort,
	}
}

// FromEnv reads configuration from environment variables. Unset variables
// leave the field empty so that MergeWithDefaults can fill it.
//
// LLM_PROVIDER, GEMINI_API_KEY (or LLM_API_KEY for the gateway), LLM_GATEWAY_URL,
// DATABASE_URL, SQLITE_PATH, REDIS_URL, SESSION_TTL, SHARE_TTL, PORT.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Provider:    os.Getenv("LLM_PROVIDER"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		GatewayURL:  os.Getenv("LLM_GATEWAY_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	var err error
	if cfg.SessionTTL, err = envDuration("SESSION_TTL"); err != nil {
		return nil, err
	}
	if cfg.ShareTTL, err = envDuration("SHARE_TTL"); err != nil {
		return nil, err
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func envDuration(key string) (Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return Duration(d), nil
}

// Load resolves the effective configuration: the optional JSON file first,
// then the environment, then built-in defaults.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	cfg := env
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged := file.MergeWithDefaults(*env)
		cfg = &merged
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
