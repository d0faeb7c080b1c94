package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_PORT", "SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS", "SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"REFRESH_INTERVAL_SECONDS", "ACTIVITY_SNAPSHOT_PATH", "DATABASE_DSN",
		"LOG_LEVEL", "LOG_FORMAT", "ACTIVITY_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Errorf("refresh interval = %v, want 5m", cfg.Refresh.Interval)
	}
	if cfg.Database.DSN != "" {
		t.Errorf("dsn = %q, want empty", cfg.Database.DSN)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "60")
	t.Setenv("DATABASE_DSN", "postgres://localhost/feed")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Refresh.Interval != time.Minute {
		t.Errorf("interval = %v, want 1m", cfg.Refresh.Interval)
	}
	if cfg.Database.DSN != "postgres://localhost/feed" {
		t.Errorf("dsn = %s", cfg.Database.DSN)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"negative timeout", "SERVER_READ_TIMEOUT_SECONDS", "-1"},
		{"non-numeric interval", "REFRESH_INTERVAL_SECONDS", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "7070"
logging:
  level: warn
trending:
  minViews: 250
  weeklyThreshold: 60
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTIVITY_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("port = %s, want 7070", cfg.Server.Port)
	}
	if cfg.Logging.Level != slog.LevelWarn {
		t.Errorf("level = %v, want warn", cfg.Logging.Level)
	}
	if cfg.Trending.MinViews != 250 || cfg.Trending.WeeklyThreshold != 60 {
		t.Errorf("trending = %+v, want file values", cfg.Trending)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTIVITY_CONFIG", path)
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port = %s, want env override 9999", cfg.Server.Port)
	}
}
