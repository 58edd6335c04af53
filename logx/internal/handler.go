// Package internal provides internal implementation details for logx.
package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Options configures the handler behavior.
type Options struct {
	Format           string     // Output format: logfmt or json
	Level            slog.Level // Minimum log level
	Color            bool       // Enable colorization for the level field only
	SensitiveFields  []string   // Field names to mask
	DisableTimestamp bool       // Disable timestamp in output
}

// Handler is a custom slog.Handler that writes logfmt or JSON with sorted fields.
type Handler struct {
	opts   Options
	mu     sync.Mutex
	writer io.Writer
	attrs  []slog.Attr
	group  string
}

// NewHandler creates a new Handler with the given options.
func NewHandler(opts Options, writer io.Writer) *Handler {
	return &Handler{
		opts:   opts,
		writer: writer,
	}
}

func (h *Handler) handle(level slog.Level, msg string, attrs []slog.Attr) {
	if level < h.opts.Level {
		return
	}

	allAttrs := append([]slog.Attr{}, h.attrs...)
	allAttrs = append(allAttrs, attrs...)
	sorted := SortAttrs(allAttrs)

	var line string
	if h.opts.Format == "json" {
		line = h.formatJSON(level, msg, sorted)
	} else {
		line = h.formatLogfmt(level, msg, sorted)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.writer.Write([]byte(line))
}

func (h *Handler) formatLogfmt(level slog.Level, msg string, attrs []slog.Attr) string {
	var buf strings.Builder

	if !h.opts.DisableTimestamp {
		buf.WriteString("time=")
		buf.WriteString(time.Now().Format(time.RFC3339))
		buf.WriteString(" ")
	}

	levelStr := LevelString(level)
	buf.WriteString("level=")
	if h.opts.Color {
		buf.WriteString(ColorizeLevel(levelStr))
	} else {
		buf.WriteString(levelStr)
	}

	buf.WriteString(" msg=")
	buf.WriteString(fmt.Sprintf("%q", msg))

	for _, attr := range attrs {
		buf.WriteString(" ")
		buf.WriteString(attr.Key)
		buf.WriteString("=")
		buf.WriteString(FormatValue(attr.Key, attr.Value, h.opts))
	}

	buf.WriteString("\n")
	return buf.String()
}

func (h *Handler) formatJSON(level slog.Level, msg string, attrs []slog.Attr) string {
	record := make(map[string]any, len(attrs)+3)
	if !h.opts.DisableTimestamp {
		record["time"] = time.Now().Format(time.RFC3339)
	}
	record["level"] = LevelString(level)
	record["msg"] = msg

	for _, attr := range attrs {
		if h.isSensitive(attr.Key) {
			record[attr.Key] = "***REDACTED***"
			continue
		}
		record[attr.Key] = attr.Value.Any()
	}

	data, err := json.Marshal(record)
	if err != nil {
		// Fall back to logfmt rather than dropping the record.
		return h.formatLogfmt(level, msg, attrs)
	}
	return string(data) + "\n"
}

func (h *Handler) isSensitive(key string) bool {
	for _, field := range h.opts.SensitiveFields {
		if strings.EqualFold(key, field) {
			return true
		}
	}
	return false
}

// LogRecord writes a log record (public method for the logx package).
func (h *Handler) LogRecord(level slog.Level, msg string, attrs []slog.Attr) {
	h.handle(level, msg, attrs)
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	h.handle(r.Level, r.Message, attrs)
	return nil
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := append([]slog.Attr{}, h.attrs...)
	newAttrs = append(newAttrs, attrs...)

	return &Handler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  newAttrs,
		group:  h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  h.attrs,
		group:  name,
	}
}

// KVToAttrs converts key-value pairs to a slog.Attr slice.
// Accepts both flat "key", value sequences and the two-element
// []any pairs produced by the core/log helpers.
func KVToAttrs(kv []any) []slog.Attr {
	flat := make([]any, 0, len(kv))
	for _, item := range kv {
		switch v := item.(type) {
		case []any:
			if len(v) == 2 {
				flat = append(flat, v[0], v[1])
			} else {
				flat = append(flat, v)
			}
		default:
			flat = append(flat, item)
		}
	}

	attrs := make([]slog.Attr, 0, len(flat)/2)
	for i := 0; i < len(flat)-1; i += 2 {
		key := fmt.Sprintf("%v", flat[i])
		attrs = append(attrs, slog.Any(key, flat[i+1]))
	}
	return attrs
}

// SortAttrs sorts attributes by key for stable output.
func SortAttrs(attrs []slog.Attr) []slog.Attr {
	sorted := make([]slog.Attr, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// FormatValue formats a slog.Value for logfmt output.
func FormatValue(key string, v slog.Value, opts Options) string {
	for _, field := range opts.SensitiveFields {
		if strings.EqualFold(key, field) {
			return `"***REDACTED***"`
		}
	}

	switch v.Kind() {
	case slog.KindString:
		return fmt.Sprintf("%q", v.String())
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		f := v.Float64()
		if f == float64(int64(f)) {
			return fmt.Sprintf("%.0f", f)
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return fmt.Sprintf("%q", v.Time().Format(time.RFC3339))
	default:
		return fmt.Sprintf("%q", v.String())
	}
}

// LevelString returns the string representation of a log level.
func LevelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// ColorizeLevel adds ANSI color codes only to the level value.
func ColorizeLevel(level string) string {
	const (
		reset   = "\033[0m"
		red     = "\033[31m"
		yellow  = "\033[33m"
		cyan    = "\033[36m"
		magenta = "\033[35m"
	)

	switch level {
	case "DEBUG":
		return magenta + level + reset
	case "INFO":
		return cyan + level + reset
	case "WARN":
		return yellow + level + reset
	case "ERROR":
		return red + level + reset
	default:
		return level
	}
}
