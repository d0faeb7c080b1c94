package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents runtime configuration. Values are read from an optional
// YAML file (ACTIVITY_CONFIG) and overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Trending  TrendingConfig  `yaml:"trending"`
	Threading ThreadingConfig `yaml:"threading"`
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level `yaml:"-"`
	Format string     `yaml:"format"`

	// LevelName is the YAML-facing spelling of Level.
	LevelName string `yaml:"level"`
}

// DatabaseConfig describes the optional Postgres state-store connection. An
// empty DSN selects the in-memory store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RefreshConfig controls the feed refresh loop.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`

	// SnapshotPath is an optional JSON file of activity items served as a
	// source. External producers hand items off through it.
	SnapshotPath string `yaml:"snapshotPath"`
}

// TrendingConfig exposes the engagement-scoring weights and thresholds as
// tuning parameters.
type TrendingConfig struct {
	ViewWeight       float64 `yaml:"viewWeight"`
	LikeWeight       float64 `yaml:"likeWeight"`
	CommentWeight    float64 `yaml:"commentWeight"`
	ReadingWeight    float64 `yaml:"readingWeight"`
	MinViews         int     `yaml:"minViews"`
	WeeklyThreshold  int     `yaml:"weeklyThreshold"`
	MonthlyThreshold int     `yaml:"monthlyThreshold"`
}

// ThreadingConfig bounds the thread-building walk.
type ThreadingConfig struct {
	ScanWindow        int           `yaml:"scanWindow"`
	MaxReplyAge       time.Duration `yaml:"maxReplyAge"`
	MaxVisibleReplies int           `yaml:"maxVisibleReplies"`
}

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultRefreshInterval = 5 * time.Minute

	defaultLogFormat = "json"

	configPathEnv = "ACTIVITY_CONFIG"
)

// Load reads configuration from the optional YAML file and the environment,
// applying defaults when values are not provided.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Refresh: RefreshConfig{
			Interval: defaultRefreshInterval,
		},
	}

	if path := os.Getenv(configPathEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Logging.LevelName != "" {
		level, err := parseLogLevel(cfg.Logging.LevelName)
		if err != nil {
			return Config{}, fmt.Errorf("invalid logging level: %w", err)
		}
		cfg.Logging.Level = level
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	// Cloud platforms set PORT; SERVER_PORT overrides for local dev.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("REFRESH_INTERVAL_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_INTERVAL_SECONDS: %w", err)
		}
		cfg.Refresh.Interval = d
	}

	if v := os.Getenv("ACTIVITY_SNAPSHOT_PATH"); v != "" {
		cfg.Refresh.SnapshotPath = v
	}

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.LevelName = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
