// Package log defines the stable logging interface shared by all ember packages.
//
// Overview:
//   - Responsibility: Decouple ember components from any concrete logging backend
//   - Key Types: Logger interface with structured key-value logging
//   - Concurrency Model: Logger implementations must be safe for concurrent use
//   - Error Semantics: Error method accepts the error as first parameter
//   - Performance Notes: Key-value helpers allocate a single two-element slice
//
// Usage:
//
//	logger.Info("configuration bound", log.Str("prefix", "app.datasource"), log.Int("fields", 5))
package log

import "time"

// Logger is a structured logging interface compatible with slog concepts.
// Implementations must be safe for concurrent use.
type Logger interface {
	// With returns a new Logger with the given key-value pairs attached.
	// The returned Logger shares the underlying backend but carries
	// additional context on every record.
	With(kv ...any) Logger

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, kv ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, kv ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, kv ...any)

	// Error logs an error message with the error and optional key-value pairs.
	Error(err error, msg string, kv ...any)
}

// Str creates a string key-value pair for structured logging.
func Str(k, v string) any {
	return []any{k, v}
}

// Int creates an integer key-value pair for structured logging.
func Int(k string, v int) any {
	return []any{k, v}
}

// Bool creates a boolean key-value pair for structured logging.
func Bool(k string, v bool) any {
	return []any{k, v}
}

// Dur creates a duration key-value pair for structured logging.
func Dur(k string, v time.Duration) any {
	return []any{k, v}
}
