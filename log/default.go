package log

import (
	"context"
	"log/slog"
	"os"
)

// DefaultContextProvider returns the context used by the logging methods
// that do not accept one. It returns [context.TODO] unless reassigned.
var DefaultContextProvider = context.TODO

// defaultLog is the package-level logger used by the top-level logging
// functions. It writes to standard error so that standard output remains
// reserved for program results.
var defaultLog = Make(os.Stderr)

// Default returns the package-level logger.
func Default() Logger {
	return defaultLog
}

// Config replaces the package-level logger with one derived from the
// current configuration and the provided options.
func Config(opts ...Option) {
	defaultLog = defaultLog.Wrap(opts...)
}

// TraceContext logs a message at Trace level to the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logContext(ctx, LevelTrace, msg, attrs...)
}

// Trace logs a message at Trace level to the package-level logger.
func Trace(msg string, attrs ...slog.Attr) {
	TraceContext(DefaultContextProvider(), msg, attrs...)
}

// DebugContext logs a message at Debug level to the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logContext(ctx, LevelDebug, msg, attrs...)
}

// Debug logs a message at Debug level to the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at Info level to the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logContext(ctx, LevelInfo, msg, attrs...)
}

// Info logs a message at Info level to the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs a message at Warn level to the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logContext(ctx, LevelWarn, msg, attrs...)
}

// Warn logs a message at Warn level to the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	WarnContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at Error level to the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logContext(ctx, LevelError, msg, attrs...)
}

// Error logs a message at Error level to the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	ErrorContext(DefaultContextProvider(), msg, attrs...)
}
