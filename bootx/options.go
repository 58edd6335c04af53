package bootx

import (
	"context"
	"time"

	"github.com/emberlab/ember/configx"
	"github.com/emberlab/ember/core/log"
)

// ServiceRegistrar defines a function that registers handlers with the application.
type ServiceRegistrar func(app *App) error

// Runner executes once after the application has started serving, before
// the running phase fires. A returned error fails startup.
type Runner interface {
	Run(ctx context.Context, app *App) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, app *App) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, app *App) error {
	return f(ctx, app)
}

// Options holds configuration for application startup.
type Options struct {
	// Service identification
	ServiceName    string
	ServiceVersion string

	// Config is an optional struct to bind from the merged configuration.
	Config any

	// Binding scopes Config binding to a key prefix with a policy.
	// The zero value binds from the root with default policy.
	Binding configx.Binding

	// Sources are the configuration sources, later sources taking
	// precedence. Defaults to a single environment source.
	Sources []configx.Source

	// Listeners receive lifecycle phase callbacks in order.
	Listeners []RunListener

	// Register is called to register handlers once the context is prepared.
	Register ServiceRegistrar

	// Runners execute after the application starts serving.
	Runners []Runner

	// HTTPAddr is the listen address (default ":8080").
	HTTPAddr string

	// EnableHealthCheck mounts a /health endpoint.
	EnableHealthCheck bool

	// ShutdownTimeout bounds graceful shutdown (default 15s).
	ShutdownTimeout time.Duration

	// Logger (optional, will create a default if nil)
	Logger log.Logger
}

// validate validates the options and sets defaults.
func (o *Options) validate() error {
	if o.ServiceName == "" {
		o.ServiceName = "app"
	}
	if o.ServiceVersion == "" {
		o.ServiceVersion = "0.0.0"
	}
	if o.HTTPAddr == "" {
		o.HTTPAddr = ":8080"
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = 15 * time.Second
	}
	return nil
}
