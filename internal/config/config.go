// Package config loads the demo's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bila9630/giraffen-voice/pkg/session"
)

// Config holds everything the voice demo needs at startup.
type Config struct {
	// OpenAIKey authenticates the realtime socket. Required.
	OpenAIKey string
	// RealtimeURL is the streaming endpoint, model included.
	RealtimeURL string
	// MapboxToken authenticates geocoding requests. Required.
	MapboxToken string
	// DatabaseURL selects the Postgres POI store; empty means the
	// built-in static dataset.
	DatabaseURL string
	// LogLevel is debug, info, warn, or error.
	LogLevel slog.Level
}

// LoadFromEnv reads the configuration and validates required fields.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		OpenAIKey:   envOr("OPENAI_API_KEY", ""),
		RealtimeURL: envOr("REALTIME_URL", session.DefaultRealtimeURL),
		MapboxToken: envOr("MAPBOX_TOKEN", ""),
		DatabaseURL: envOr("DATABASE_URL", ""),
		LogLevel:    parseLevel(envOr("LOG_LEVEL", "info")),
	}
	if cfg.OpenAIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.MapboxToken == "" {
		return Config{}, fmt.Errorf("MAPBOX_TOKEN is required")
	}
	return cfg, nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
