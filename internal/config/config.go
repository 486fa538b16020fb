// Package config loads daybook settings from the environment and an
// optional .env file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration read from .env and the environment.
type Config struct {
	DBPath          string
	Addr            string
	ReminderVariant string
	WeatherTTL      time.Duration
	RedisURI        string // optional; weather readings are cached in-process without it
	LogLevel        slog.Level
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	cfg := &Config{
		DBPath:          getEnv("DAYBOOK_DB", filepath.Join(home, ".daybook", "daybook.db")),
		Addr:            getEnv("DAYBOOK_ADDR", "127.0.0.1:8080"),
		ReminderVariant: getEnv("DAYBOOK_REMINDER_VARIANT", "control"),
		WeatherTTL:      30 * time.Minute,
		RedisURI:        getEnv("REDIS_URI", ""),
		LogLevel:        parseLevel(getEnv("DAYBOOK_LOG_LEVEL", "info")),
	}
	if d, err := time.ParseDuration(getEnv("DAYBOOK_WEATHER_TTL", "")); err == nil && d > 0 {
		cfg.WeatherTTL = d
	}
	return cfg
}

// NewLogger returns a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
