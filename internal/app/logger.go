package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the application logger from LOG_FORMAT and LOG_LEVEL.
// Source locations are only attached at debug level; above that they add
// noise without helping triage.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	format := ""
	if cfg != nil {
		level = ParseLogLevel(cfg.LogLevel)
		format = cfg.LogFormat
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// ParseLogLevel maps a LOG_LEVEL string to a slog level. Unknown values
// fall back to info rather than failing startup.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
