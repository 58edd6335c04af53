// Package internal provides internal implementation details for configx.
//
// Overview:
//   - Responsibility: Implement configuration sources (Env, Map, File)
//   - Key Types: EnvSource, MapSource, FileSource
//   - Concurrency Model: All sources are safe for concurrent use
//   - Error Semantics: Sources return errors for loading and parse failures
//   - Performance Notes: File watching is event-driven via fsnotify
package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// EnvOptions configures environment variable source behavior.
type EnvOptions struct {
	Prefix  string // Only consider variables with this prefix (stripped from keys)
	DotKeys bool   // Map FOO_BAR_BAZ to foo.bar.baz
}

// EnvSource loads configuration from environment variables.
type EnvSource struct {
	prefix  string
	dotKeys bool
}

// NewEnvSource creates a new environment variable source.
func NewEnvSource(opts EnvOptions) Source {
	return &EnvSource{
		prefix:  opts.Prefix,
		dotKeys: opts.DotKeys,
	}
}

// Load reads configuration from environment variables.
func (s *EnvSource) Load(ctx context.Context) (map[string]string, error) {
	config := make(map[string]string)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := parts[1]

		if s.prefix != "" {
			if !strings.HasPrefix(key, s.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.prefix)
		}

		if s.dotKeys {
			key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
		}

		config[key] = value
	}

	return config, nil
}

// Watch returns a channel that never emits: environment variables are
// static for the lifetime of the process.
func (s *EnvSource) Watch(ctx context.Context) (<-chan map[string]string, error) {
	ch := make(chan map[string]string)
	go func() {
		defer close(ch)
		<-ctx.Done()
	}()
	return ch, nil
}

// MapSource serves a fixed in-memory snapshot.
type MapSource struct {
	values map[string]string
}

// NewMapSource creates a static source from the given values.
func NewMapSource(values map[string]string) Source {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{values: copied}
}

// Load returns a copy of the static values.
func (s *MapSource) Load(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

// Watch returns a channel that never emits.
func (s *MapSource) Watch(ctx context.Context) (<-chan map[string]string, error) {
	ch := make(chan map[string]string)
	go func() {
		defer close(ch)
		<-ctx.Done()
	}()
	return ch, nil
}

// FileOptions configures file source behavior.
type FileOptions struct {
	Watch  bool   // Watch the file for changes
	Format string // "json" or "yaml" (default: by extension)
}

// FileSource loads configuration from a YAML or JSON file, flattening
// nested documents into dotted keys.
type FileSource struct {
	path   string
	format string
	watch  bool
}

// NewFileSource creates a new file source.
func NewFileSource(path string, opts FileOptions) Source {
	format := opts.Format
	if format == "" {
		format = detectFileFormat(path)
	}

	return &FileSource{
		path:   path,
		format: format,
		watch:  opts.Watch,
	}
}

// Load reads and flattens the configuration file. A missing file yields an
// empty snapshot rather than an error.
func (s *FileSource) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read file %s: %w", s.path, err)
	}

	return parseConfigFile(data, s.format)
}

// Watch monitors the file for changes via fsnotify. The parent directory is
// watched rather than the file itself: editors often replace files by
// delete-and-create, which would drop a direct file watch.
func (s *FileSource) Watch(ctx context.Context) (<-chan map[string]string, error) {
	if !s.watch {
		ch := make(chan map[string]string)
		go func() {
			defer close(ch)
			<-ctx.Done()
		}()
		return ch, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	ch := make(chan map[string]string)
	target := filepath.Clean(s.path)

	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				config, err := s.Load(ctx)
				if err != nil {
					continue
				}

				select {
				case ch <- config:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return ch, nil
}

// detectFileFormat detects the file format from the extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// parseConfigFile parses configuration file content into flat dotted keys.
func parseConfigFile(data []byte, format string) (map[string]string, error) {
	var doc map[string]any

	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON configuration: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	flat := make(map[string]string)
	flatten("", doc, flat)
	return flat, nil
}

// flatten converts a nested document into dotted scalar keys. Scalar lists
// become comma-separated values, matching the binder's slice delimiter.
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := JoinPath(prefix, k)
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				converted[fmt.Sprintf("%v", mk)] = mv
			}
			flatten(key, converted, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			out[key] = strings.Join(parts, ",")
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}
