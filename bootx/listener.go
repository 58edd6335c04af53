package bootx

import (
	"github.com/emberlab/ember/configx"
)

// RunListener receives a callback at each lifecycle phase transition.
// Callbacks run synchronously on the driver goroutine; a returned error
// aborts startup and the driver fires Failed.
//
// Implementations that only care about some phases should embed
// NopListener and override what they need.
type RunListener interface {
	// Starting is called when the driver begins, before the environment
	// is prepared.
	Starting() error

	// EnvironmentPrepared is called once configuration is loaded and
	// bound, with the live configuration manager.
	EnvironmentPrepared(env configx.Manager) error

	// ContextPrepared is called once the application context exists but
	// before registration runs.
	ContextPrepared(app *App) error

	// ContextLoaded is called after registration completes, before the
	// application starts serving.
	ContextLoaded(app *App) error

	// Started is called once servers are accepting traffic, before
	// runners execute.
	Started(app *App) error

	// Running is called once the application is fully operational.
	Running(app *App) error

	// Failed is called when startup fails, with the causing error.
	// app is nil when the failure happened before the context existed.
	Failed(app *App, err error)
}

// NopListener implements RunListener with no-ops for every phase.
// Embed it to implement only the callbacks you need.
type NopListener struct{}

func (NopListener) Starting() error { return nil }

func (NopListener) EnvironmentPrepared(configx.Manager) error { return nil }

func (NopListener) ContextPrepared(*App) error { return nil }

func (NopListener) ContextLoaded(*App) error { return nil }

func (NopListener) Started(*App) error { return nil }

func (NopListener) Running(*App) error { return nil }

func (NopListener) Failed(*App, error) {}

var _ RunListener = NopListener{}
