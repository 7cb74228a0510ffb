package configs

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Refresh RefreshConfig
	Forms   FormsConfig
}

// ServerConfig holds dashboard server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// APIConfig holds backend API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RefreshConfig holds auto-refresh configuration.
// An empty Schedule disables auto-refresh.
type RefreshConfig struct {
	Schedule string
}

// FormsConfig points at an optional forms catalog overriding the built-in one
type FormsConfig struct {
	File string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	timeout, err := getDuration("API_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: timeout,
		},
		Refresh: RefreshConfig{
			Schedule: getEnv("REFRESH_SCHEDULE", ""),
		},
		Forms: FormsConfig{
			File: getEnv("FORMS_FILE", ""),
		},
	}, nil
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
