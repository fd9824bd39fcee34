package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKENSCOPE_DB_PATH", filepath.Join(t.TempDir(), "test.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if cfg.UsageLogPath != "" {
		t.Errorf("UsageLogPath = %q, want empty", cfg.UsageLogPath)
	}
	if cfg.AlertThresholdTokens != 0 {
		t.Errorf("AlertThresholdTokens = %d, want 0", cfg.AlertThresholdTokens)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom", "usage.db")
	t.Setenv("TOKENSCOPE_DB_PATH", dbPath)
	t.Setenv("TOKENSCOPE_USAGE_LOG", "/var/log/usage.jsonl")
	t.Setenv("TOKENSCOPE_REFRESH_INTERVAL", "2m")
	t.Setenv("TOKENSCOPE_ALERT_THRESHOLD", "5000000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DatabasePath != dbPath {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, dbPath)
	}
	if cfg.UsageLogPath != "/var/log/usage.jsonl" {
		t.Errorf("UsageLogPath = %q", cfg.UsageLogPath)
	}
	if cfg.RefreshInterval != 2*time.Minute {
		t.Errorf("RefreshInterval = %v, want 2m", cfg.RefreshInterval)
	}
	if cfg.AlertThresholdTokens != 5000000 {
		t.Errorf("AlertThresholdTokens = %d, want 5000000", cfg.AlertThresholdTokens)
	}
}

func TestGetEnvDuration_BareSeconds(t *testing.T) {
	t.Setenv("TEST_DURATION", "45")

	if got := getEnvDuration("TEST_DURATION", time.Second); got != 45*time.Second {
		t.Errorf("getEnvDuration() = %v, want 45s", got)
	}
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("TEST_DURATION", "not-a-duration")

	if got := getEnvDuration("TEST_DURATION", 10*time.Second); got != 10*time.Second {
		t.Errorf("getEnvDuration() = %v, want fallback 10s", got)
	}
}

func TestGetEnvInt64_Invalid(t *testing.T) {
	t.Setenv("TEST_INT", "abc")

	if got := getEnvInt64("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt64() = %d, want fallback 7", got)
	}
}

func TestLoad_CreatesDatabaseDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "usage.db")
	t.Setenv("TOKENSCOPE_DB_PATH", dbPath)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
}
