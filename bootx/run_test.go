package bootx_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlab/ember/bootx"
	"github.com/emberlab/ember/configx"
	"github.com/emberlab/ember/testingx"
)

// stopAfterRunning cancels the run context once the application reports
// it is fully operational, so tests do not need real signals.
type stopAfterRunning struct {
	bootx.NopListener
	cancel context.CancelFunc
}

func (l stopAfterRunning) Running(*bootx.App) error {
	l.cancel()
	return nil
}

func TestRun_FullLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type AppConfig struct {
		Greeting string `default:"hello"`
		Port     int
	}

	var cfg AppConfig
	var runnerRan bool

	listener := &testingx.RecordingListener{}
	logger := testingx.NewMockLogger(t)

	err := bootx.Run(ctx, bootx.Options{
		ServiceName: "lifecycle-test",
		Logger:      logger,
		Config:      &cfg,
		Binding:     configx.NewBinding("app"),
		Sources: []configx.Source{
			configx.NewMapSource(map[string]string{
				"app.greeting": "hi",
				"app.port":     "9090",
			}),
		},
		Listeners: []bootx.RunListener{listener, stopAfterRunning{cancel: cancel}},
		HTTPAddr:  "127.0.0.1:0",
		Register: func(app *bootx.App) error {
			app.Mux().HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			return nil
		},
		Runners: []bootx.Runner{
			bootx.RunnerFunc(func(ctx context.Context, app *bootx.App) error {
				runnerRan = true
				return nil
			}),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, allPhases, listener.Phases())
	assert.NoError(t, listener.FailureCause())
	assert.True(t, runnerRan, "runner should execute before running phase")

	assert.Equal(t, "hi", cfg.Greeting)
	assert.Equal(t, 9090, cfg.Port)

	assert.True(t, logger.Contains("Service started successfully"))
	assert.True(t, logger.Contains("Service stopped gracefully"))
}

func TestRun_UnsetBindingToleratesUnknownKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type AppConfig struct {
		Name string
	}

	var cfg AppConfig
	listener := &testingx.RecordingListener{}

	// Config set without constructing a Binding: extraneous keys in the
	// merged snapshot must not fail startup.
	err := bootx.Run(ctx, bootx.Options{
		Logger: testingx.NewMockLogger(t),
		Config: &cfg,
		Sources: []configx.Source{
			configx.NewMapSource(map[string]string{
				"name":  "svc",
				"other": "boom",
			}),
		},
		Listeners: []bootx.RunListener{listener, stopAfterRunning{cancel: cancel}},
		HTTPAddr:  "127.0.0.1:0",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, allPhases, listener.Phases())
}

func TestRun_ListenerErrorFailsStartup(t *testing.T) {
	boom := errors.New("environment rejected")
	listener := &testingx.RecordingListener{
		ErrOn: map[bootx.Phase]error{bootx.PhaseEnvironmentPrepared: boom},
	}

	err := bootx.Run(context.Background(), bootx.Options{
		Logger:    testingx.NewMockLogger(t),
		Sources:   []configx.Source{configx.NewMapSource(nil)},
		Listeners: []bootx.RunListener{listener},
	})
	require.ErrorIs(t, err, boom)

	want := []bootx.Phase{bootx.PhaseStarting, bootx.PhaseEnvironmentPrepared, bootx.PhaseFailed}
	assert.Equal(t, want, listener.Phases())
	assert.ErrorIs(t, listener.FailureCause(), boom)
}

func TestRun_BindFailureFailsStartup(t *testing.T) {
	type AppConfig struct {
		Port int
	}

	var cfg AppConfig
	listener := &testingx.RecordingListener{}

	err := bootx.Run(context.Background(), bootx.Options{
		Logger:  testingx.NewMockLogger(t),
		Config:  &cfg,
		Binding: configx.NewBinding("app"),
		Sources: []configx.Source{
			configx.NewMapSource(map[string]string{"app.port": "not-a-number"}),
		},
		Listeners: []bootx.RunListener{listener},
	})
	require.Error(t, err)

	var invalidErr *configx.InvalidFieldError
	assert.ErrorAs(t, err, &invalidErr)

	// Failure before the environment phase leaves only the starting phase
	// plus the terminal failure.
	assert.Equal(t, []bootx.Phase{bootx.PhaseStarting, bootx.PhaseFailed}, listener.Phases())
}

func TestRun_RegisterFailureFailsStartup(t *testing.T) {
	boom := errors.New("registration boom")
	listener := &testingx.RecordingListener{}

	err := bootx.Run(context.Background(), bootx.Options{
		Logger:    testingx.NewMockLogger(t),
		Sources:   []configx.Source{configx.NewMapSource(nil)},
		Listeners: []bootx.RunListener{listener},
		Register: func(app *bootx.App) error {
			return boom
		},
	})
	require.ErrorIs(t, err, boom)

	want := []bootx.Phase{
		bootx.PhaseStarting,
		bootx.PhaseEnvironmentPrepared,
		bootx.PhaseContextPrepared,
		bootx.PhaseFailed,
	}
	assert.Equal(t, want, listener.Phases())
}

func TestRun_RunnerFailureFailsStartup(t *testing.T) {
	boom := errors.New("runner boom")
	listener := &testingx.RecordingListener{}

	err := bootx.Run(context.Background(), bootx.Options{
		Logger:    testingx.NewMockLogger(t),
		Sources:   []configx.Source{configx.NewMapSource(nil)},
		Listeners: []bootx.RunListener{listener},
		HTTPAddr:  "127.0.0.1:0",
		Runners: []bootx.Runner{
			bootx.RunnerFunc(func(ctx context.Context, app *bootx.App) error {
				return boom
			}),
		},
	})
	require.ErrorIs(t, err, boom)

	want := []bootx.Phase{
		bootx.PhaseStarting,
		bootx.PhaseEnvironmentPrepared,
		bootx.PhaseContextPrepared,
		bootx.PhaseContextLoaded,
		bootx.PhaseStarted,
		bootx.PhaseFailed,
	}
	assert.Equal(t, want, listener.Phases())
}

func TestRun_AppAccessors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := testingx.NewMockLogger(t)

	err := bootx.Run(ctx, bootx.Options{
		Logger: logger,
		Sources: []configx.Source{
			configx.NewMapSource(map[string]string{"feature.enabled": "true"}),
		},
		Listeners: []bootx.RunListener{stopAfterRunning{cancel: cancel}},
		HTTPAddr:  "127.0.0.1:0",
		Register: func(app *bootx.App) error {
			if app.Mux() == nil {
				return errors.New("mux not wired")
			}
			if app.Logger() == nil {
				return errors.New("logger not wired")
			}
			if v, ok := app.Config().Value("feature.enabled"); !ok || v != "true" {
				return errors.New("config not wired")
			}
			return nil
		},
	})
	require.NoError(t, err)
}
