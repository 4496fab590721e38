package utils

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. Level names follow slog ("debug",
// "info", "warn"/"warning", "error"); anything unrecognised falls back to
// info so a typo in config never silences the service. JSON output is meant
// for the container collector, text for local runs.
func NewLogger(level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
