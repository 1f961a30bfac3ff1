package app

import (
	"io"
	"log/slog"
)

// newLogger creates an isolated slog.Logger writing to errW. Logs go to a
// separate writer than the reconciliation report so that piping the report
// stays clean.
func newLogger(levelStr, formatStr string, errW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(errW, opts))
	}
	return slog.New(slog.NewTextHandler(errW, opts))
}
