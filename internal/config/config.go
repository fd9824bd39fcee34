// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// DatabasePath is the SQLite file holding usage events.
	DatabasePath string
	// UsageLogPath is the JSONL file tailed for new usage events.
	// Empty disables the ingest watcher.
	UsageLogPath string
	// RefreshInterval is how often the dashboard refreshes on its own.
	// Zero disables automatic refresh; manual refresh always works.
	RefreshInterval time.Duration
	// AlertThresholdTokens triggers a desktop notification when the
	// windowed total crosses it. Zero disables alerts.
	AlertThresholdTokens int64
}

// Default values
const (
	defaultRefreshInterval = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:         getEnvString("TOKENSCOPE_DB_PATH", getDefaultDatabasePath()),
		UsageLogPath:         getEnvString("TOKENSCOPE_USAGE_LOG", ""),
		RefreshInterval:      getEnvDuration("TOKENSCOPE_REFRESH_INTERVAL", defaultRefreshInterval),
		AlertThresholdTokens: getEnvInt64("TOKENSCOPE_ALERT_THRESHOLD", 0),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tokenscope", ".env"),
			filepath.Join(home, ".tokenscope", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tokenscope.db"
	}
	return filepath.Join(home, ".config", "tokenscope", "tokenscope.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms", or bare seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt64 retrieves an integer environment variable or returns the default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
