package bootx

import (
	"net/http"

	"github.com/emberlab/ember/configx"
	"github.com/emberlab/ember/core/log"
)

// App provides access to application components during registration and
// in lifecycle callbacks. This is the only surface exposed to Register
// functions and runners.
type App struct {
	mux    *http.ServeMux
	logger log.Logger
	config configx.Manager
}

// Mux returns the HTTP mux for handler registration.
func (a *App) Mux() *http.ServeMux {
	return a.mux
}

// Logger returns the logger instance.
func (a *App) Logger() log.Logger {
	return a.logger
}

// Config returns the configuration manager.
func (a *App) Config() configx.Manager {
	return a.config
}
