package configx

import (
	"context"
	"fmt"
	"time"

	"github.com/emberlab/ember/configx/internal"
	"github.com/emberlab/ember/core/log"
)

// Source describes a configuration source that can load and watch for updates.
// Implementations must be thread-safe and honor context cancellation.
type Source interface {
	// Load reads the current configuration snapshot for initial merge.
	// Returns a map of dotted keys to scalar string values.
	Load(ctx context.Context) (map[string]string, error)

	// Watch starts monitoring for updates and publishes snapshots via the returned channel.
	// The channel must be closed when the context is cancelled to avoid goroutine leaks.
	Watch(ctx context.Context) (<-chan map[string]string, error)
}

// Manager manages multiple configuration sources and provides unified access.
// The manager merges configurations with later sources taking precedence.
type Manager interface {
	// Snapshot returns a copy of the current merged configuration.
	Snapshot() map[string]string

	// Value returns the value for a key and whether it exists.
	Value(key string) (string, bool)

	// Bind populates target from the merged snapshot according to the binding.
	Bind(target any, b Binding, opts ...BindOption) error

	// OnUpdate subscribes to configuration update events.
	// Returns an unsubscribe function.
	OnUpdate(fn func(snapshot map[string]string)) (unsubscribe func())
}

// Options holds configuration for the manager.
type Options struct {
	Logger   log.Logger    // Logger for configuration operations
	Sources  []Source      // Configuration sources (later sources override earlier ones)
	Debounce time.Duration // Debounce duration for updates (default: 200ms)
}

// Binding associates a target struct with a key prefix and the policy used
// while binding. The zero value binds from the root with default policy
// (unknown keys tolerated, invalid values strict), identical to
// NewBinding(""). Immutable once constructed.
type Binding struct {
	prefix string

	// strictUnknownFields inverts the ignoreUnknownFields policy so the
	// zero value carries the lenient default.
	strictUnknownFields bool
	ignoreInvalidFields bool
}

// BindingOption configures a Binding at construction time.
type BindingOption func(*Binding)

// NewBinding creates a Binding for the given dot-separated key prefix.
// By default unknown keys under the prefix are ignored and unconvertible
// values are reported as errors.
func NewBinding(prefix string, opts ...BindingOption) Binding {
	b := Binding{prefix: prefix}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithIgnoreUnknownFields controls whether keys under the prefix that match
// no field are tolerated. Disabled, the first unmatched key fails the bind
// with an *UnknownFieldError.
func WithIgnoreUnknownFields(ignore bool) BindingOption {
	return func(b *Binding) {
		b.strictUnknownFields = !ignore
	}
}

// WithIgnoreInvalidFields controls whether values that cannot be converted
// to the field type are tolerated. Enabled, such fields keep their default
// and binding continues.
func WithIgnoreInvalidFields(ignore bool) BindingOption {
	return func(b *Binding) {
		b.ignoreInvalidFields = ignore
	}
}

// Prefix returns the dot-separated key prefix this binding is scoped to.
func (b Binding) Prefix() string { return b.prefix }

// IgnoreUnknownFields reports whether unmatched keys under the prefix are tolerated.
func (b Binding) IgnoreUnknownFields() bool { return !b.strictUnknownFields }

// IgnoreInvalidFields reports whether unconvertible values are tolerated.
func (b Binding) IgnoreInvalidFields() bool { return b.ignoreInvalidFields }

// BindOption configures a single Manager.Bind call.
type BindOption interface {
	apply(*bindConfig)
}

type bindConfig struct {
	onUpdate func()
}

type bindOptionFunc func(*bindConfig)

func (f bindOptionFunc) apply(cfg *bindConfig) {
	f(cfg)
}

// WithUpdateCallback sets a callback invoked when the merged configuration
// changes. The subscription lives for the lifetime of the manager and cannot
// be removed; use Manager.OnUpdate directly when unsubscription is needed.
func WithUpdateCallback(fn func()) BindOption {
	return bindOptionFunc(func(cfg *bindConfig) {
		cfg.onUpdate = fn
	})
}

// Bind populates target from the given snapshot according to the binding.
// The snapshot is never mutated and binding the same snapshot twice yields
// the same result. target must be a pointer to struct.
func Bind(snapshot map[string]string, target any, b Binding) error {
	return internal.Bind(snapshot, target, internal.Binding{
		Prefix:              b.prefix,
		IgnoreUnknownFields: !b.strictUnknownFields,
		IgnoreInvalidFields: b.ignoreInvalidFields,
	})
}

// manager wraps the internal manager implementation.
type manager struct {
	impl *internal.ManagerImpl
}

// NewManager creates a new configuration manager, loads the initial merged
// snapshot, and starts watching all sources.
func NewManager(ctx context.Context, opts Options) (Manager, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	internalSources := make([]internal.Source, len(opts.Sources))
	for i, src := range opts.Sources {
		internalSources[i] = src
	}

	debounce := opts.Debounce
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}

	impl, err := internal.NewManager(opts.Logger, internalSources, debounce)
	if err != nil {
		return nil, err
	}

	if err := impl.Initialize(ctx); err != nil {
		return nil, err
	}

	return &manager{impl: impl}, nil
}

// Snapshot returns a copy of the current merged configuration.
func (m *manager) Snapshot() map[string]string {
	return m.impl.Snapshot()
}

// Value returns the value for a key and whether it exists.
func (m *manager) Value(key string) (string, bool) {
	return m.impl.Value(key)
}

// Bind populates target from the merged snapshot.
func (m *manager) Bind(target any, b Binding, opts ...BindOption) error {
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	var cfg bindConfig
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.onUpdate != nil {
		m.impl.OnUpdate(func(map[string]string) { cfg.onUpdate() })
	}

	return Bind(m.impl.Snapshot(), target, b)
}

// OnUpdate subscribes to configuration update events.
func (m *manager) OnUpdate(fn func(snapshot map[string]string)) func() {
	return m.impl.OnUpdate(fn)
}

// --- Public wrappers for source constructors (delegating to internal) ---

// NewEnvSource creates an environment variable configuration source.
func NewEnvSource(opts EnvOptions) Source {
	return internal.NewEnvSource(internal.EnvOptions{
		Prefix:  opts.Prefix,
		DotKeys: opts.DotKeys,
	})
}

// NewFileSource creates a file-based configuration source (YAML or JSON).
func NewFileSource(path string, opts FileOptions) Source {
	return internal.NewFileSource(path, internal.FileOptions{
		Watch:  opts.Watch,
		Format: opts.Format,
	})
}

// NewMapSource creates a static in-memory configuration source.
// Useful for tests and for drivers that materialize configuration themselves.
func NewMapSource(values map[string]string) Source {
	return internal.NewMapSource(values)
}

// EnvOptions configures environment variable source behavior.
type EnvOptions struct {
	Prefix  string // Only consider variables with this prefix (stripped from keys)
	DotKeys bool   // Map FOO_BAR_BAZ to foo.bar.baz for prefix-scoped binding
}

// FileOptions configures file source behavior.
type FileOptions struct {
	Watch  bool   // Watch the file for changes via fsnotify
	Format string // File format: "json" or "yaml" (default: by extension)
}
