// Package tuilog is the structured logging surface for recoverable
// protocol violations and dropped input: it never panics and never writes
// to stdout, since stdout is the driver's exclusive paint surface.
package tuilog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Logger returns the package-wide logger, writing JSON lines to stderr at a
// level gated by TERM_LLM_TUI_LOG_LEVEL (debug/info/warn/error, default
// warn).
func Logger() *slog.Logger {
	once.Do(func() {
		level := slog.LevelWarn
		if err := level.UnmarshalText([]byte(os.Getenv("TERM_LLM_TUI_LOG_LEVEL"))); err != nil {
			level = slog.LevelWarn
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
	})
	return logger
}

// Warn logs a recoverable protocol violation or dropped delta.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs a non-fatal error encountered outside the draw cycle.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
