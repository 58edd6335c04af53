// Package logx provides a structured logging implementation based on slog.
//
// Overview:
//   - Responsibility: Unified logging with logfmt/JSON output, field sorting, and colorization
//   - Key Types: Logger implementation, Options for configuration
//   - Concurrency Model: All loggers are safe for concurrent use
//   - Error Semantics: No errors returned; logging failures are silently handled
//   - Performance Notes: Fields are sorted for stable output; rotation is optional
//
// Usage:
//
//	logger := logx.New(logx.WithFormat(logx.FormatLogfmt), logx.WithColor(true))
//	logger.Info("application starting", logx.Str("phase", "starting"))
package logx

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/emberlab/ember/core/log"
	"github.com/emberlab/ember/logx/internal"
)

// Format specifies the output format for logs.
type Format string

const (
	// FormatLogfmt outputs logs in logfmt format (key=value pairs).
	FormatLogfmt Format = "logfmt"
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = "json"
)

// Options configures the logger behavior.
type Options struct {
	Format           Format     // Output format: logfmt or json
	Level            slog.Level // Minimum log level
	Color            bool       // Enable colorization for the level field only
	Writer           io.Writer  // Output writer (default: os.Stderr)
	SensitiveFields  []string   // Field names to mask (e.g., "password", "token")
	DisableTimestamp bool       // Disable timestamp in output
}

// RotationOptions configures size-based log file rotation.
type RotationOptions struct {
	Filename   string // Log file path
	MaxSizeMB  int    // Maximum size in megabytes before rotation (default: 100)
	MaxBackups int    // Maximum number of old files to retain (0 = keep all)
	MaxAgeDays int    // Maximum age in days of old files (0 = no limit)
	Compress   bool   // Compress rotated files
}

// Logger implements the core/log.Logger interface using slog.
type Logger struct {
	handler *internal.Handler
	attrs   []slog.Attr
}

// New creates a new Logger with the given options.
func New(opts ...Option) log.Logger {
	options := Options{
		Format:           FormatLogfmt,
		Level:            slog.LevelInfo,
		Writer:           os.Stderr,
		DisableTimestamp: true, // Container runtimes already add timestamps
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	handler := internal.NewHandler(internal.Options{
		Format:           string(options.Format),
		Level:            options.Level,
		Color:            options.Color,
		SensitiveFields:  options.SensitiveFields,
		DisableTimestamp: options.DisableTimestamp,
	}, options.Writer)

	return &Logger{handler: handler}
}

// Option configures logger behavior.
type Option func(*Options)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithColor enables colorization for the level field only.
func WithColor(enabled bool) Option {
	return func(o *Options) {
		o.Color = enabled
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// WithSensitiveFields sets field names to mask in logs.
func WithSensitiveFields(fields ...string) Option {
	return func(o *Options) {
		o.SensitiveFields = fields
	}
}

// WithTimestamp re-enables timestamps in output.
func WithTimestamp() Option {
	return func(o *Options) {
		o.DisableTimestamp = false
	}
}

// WithRotation writes logs to a size-rotated file instead of stderr.
func WithRotation(rot RotationOptions) Option {
	return func(o *Options) {
		maxSize := rot.MaxSizeMB
		if maxSize == 0 {
			maxSize = 100
		}
		o.Writer = &lumberjack.Logger{
			Filename:   rot.Filename,
			MaxSize:    maxSize,
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAgeDays,
			Compress:   rot.Compress,
		}
	}
}

// With returns a new Logger with the given key-value pairs attached.
func (l *Logger) With(kv ...any) log.Logger {
	attrs := internal.KVToAttrs(kv)
	newAttrs := append([]slog.Attr{}, l.attrs...)
	newAttrs = append(newAttrs, attrs...)

	return &Logger{
		handler: l.handler,
		attrs:   newAttrs,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...any) {
	l.log(slog.LevelDebug, msg, kv...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...any) {
	l.log(slog.LevelInfo, msg, kv...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...any) {
	l.log(slog.LevelWarn, msg, kv...)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string, kv ...any) {
	attrs := internal.KVToAttrs(kv)
	if err != nil {
		attrs = append([]slog.Attr{slog.Any("error", err)}, attrs...)
	}
	l.logWithAttrs(slog.LevelError, msg, attrs)
}

func (l *Logger) log(level slog.Level, msg string, kv ...any) {
	l.logWithAttrs(level, msg, internal.KVToAttrs(kv))
}

func (l *Logger) logWithAttrs(level slog.Level, msg string, attrs []slog.Attr) {
	allAttrs := append([]slog.Attr{}, l.attrs...)
	allAttrs = append(allAttrs, attrs...)

	l.handler.LogRecord(level, msg, allAttrs)
}

// Str creates a string key-value pair. Re-exported for call-site convenience.
func Str(k, v string) any { return log.Str(k, v) }

// Int creates an integer key-value pair. Re-exported for call-site convenience.
func Int(k string, v int) any { return log.Int(k, v) }
