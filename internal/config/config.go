package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port          string        `env:"PORT"           envDefault:"8080"`
	Environment   string        `env:"ENVIRONMENT"    envDefault:"development"`
	LogLevelName  string        `env:"LOG_LEVEL"      envDefault:"info"`
	StoreBackend  string        `env:"STORE_BACKEND"  envDefault:"redis"`
	RedisURL      string        `env:"REDIS_URL"      envDefault:"localhost:6379"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"1h"`
	StartLocation string        `env:"START_LOCATION"`
	StoryDir      string        `env:"STORY_DIR"`

	LogLevel slog.Level
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want %q or %q)", cfg.StoreBackend, StoreRedis, StoreMemory)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
