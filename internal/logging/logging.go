package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a console slog.Logger with the provided level string.
func New(level string) *slog.Logger {
	return newWithWriter(level, os.Stdout)
}

// NewWithFile logs to stdout and, when dir is usable, to dir/app.log as
// well. The file is the one travelctl's log housekeeping truncates.
func NewWithFile(level, dir string) *slog.Logger {
	if dir == "" {
		return New(level)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return New(level)
	}

	file, err := os.OpenFile(filepath.Join(dir, "app.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return New(level)
	}

	return newWithWriter(level, io.MultiWriter(os.Stdout, file))
}

func newWithWriter(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
