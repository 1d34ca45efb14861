package csbitvectors

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with this module's structured-logging
// conventions: build-time diagnostics only, never errors (those are
// surfaced to the caller, not logged by the library).
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses the default text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output. A nil
// *Logger anywhere in this module behaves the same way, so this
// constructor exists mainly for callers who want a concrete value.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	})
	return &Logger{Logger: slog.New(handler)}
}

// LogBuild records the chosen parameters of a Build() call at Debug
// level. Called with a nil *Logger is a no-op.
func (l *Logger) LogBuild(component string, attrs ...any) {
	if l == nil {
		return
	}
	l.Debug("build completed", append([]any{"component", component}, attrs...)...)
}
