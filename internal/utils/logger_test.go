package utils

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	logger := NewLogger("debug", false)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug logger should accept debug records")
	}

	logger = NewLogger("error", true)
	if logger.Enabled(ctx, slog.LevelWarn) {
		t.Fatal("error logger should drop warn records")
	}

	logger = NewLogger("Warning", false)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Fatal("warning alias should map to warn")
	}
}

func TestNewLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	ctx := context.Background()
	logger := NewLogger("loud", false)
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("unknown level must not enable debug")
	}
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("unknown level must keep info enabled")
	}
}
