// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binary needs to run.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string

	// APIBaseURL is the remote monthlypay API root.
	APIBaseURL string

	// RefreshInterval is how often the syncer pulls the remote snapshot.
	RefreshInterval time.Duration

	// MetricsAddr is the Prometheus exposition listen address; empty
	// disables the endpoint.
	MetricsAddr string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return &Config{
		DBPath:          getEnv("MONTHLYPAY_DB_PATH", "./data/monthlypay.db"),
		APIBaseURL:      getEnv("MONTHLYPAY_API_URL", "http://localhost:8080"),
		RefreshInterval: getEnvDuration("MONTHLYPAY_REFRESH_INTERVAL", 5*time.Minute),
		MetricsAddr:     getEnv("MONTHLYPAY_METRICS_ADDR", ""),
	}
}

// Validate checks the configuration and returns a combined error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if parsed, err := url.Parse(c.APIBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid API URL %q: %v", c.APIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid API URL scheme %q: must be http or https", parsed.Scheme))
	}

	if c.RefreshInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
