package bootx

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/emberlab/ember/configx"
	"github.com/emberlab/ember/core/log"
	"github.com/emberlab/ember/logx"
)

// Run starts an application with the given options, driving the lifecycle
// phases in order and notifying listeners at each transition.
// This is the main entry point for bootx - it handles configuration
// loading, registration, serving, and graceful shutdown in one call.
func Run(ctx context.Context, opts Options) error {
	// Validate options
	if err := opts.validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// Set default logger if not provided
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notifier := NewNotifier(opts.Listeners...)

	// fail fires the terminal phase once and wraps the cause.
	fail := func(app *App, err error) error {
		notifier.Failed(app, err)
		return err
	}

	if err := notifier.Starting(); err != nil {
		return fail(nil, fmt.Errorf("starting notification failed: %w", err))
	}

	// Initialize configuration management
	sources := opts.Sources
	if len(sources) == 0 {
		sources = []configx.Source{configx.NewEnvSource(configx.EnvOptions{DotKeys: true})}
	}

	configMgr, err := configx.NewManager(ctx, configx.Options{
		Logger:  opts.Logger,
		Sources: sources,
	})
	if err != nil {
		return fail(nil, fmt.Errorf("config initialization failed: %w", err))
	}

	// Bind configuration
	if opts.Config != nil {
		if err := configMgr.Bind(opts.Config, opts.Binding); err != nil {
			return fail(nil, fmt.Errorf("failed to bind configuration: %w", err))
		}
	}

	// Log configuration hot reloads
	configMgr.OnUpdate(func(snapshot map[string]string) {
		opts.Logger.Info("Configuration updated", log.Int("keys", len(snapshot)))
	})

	if err := notifier.EnvironmentPrepared(configMgr); err != nil {
		return fail(nil, fmt.Errorf("environment notification failed: %w", err))
	}

	// Initialize HTTP server
	mux := http.NewServeMux()

	// Create app instance for registration
	app := &App{
		mux:    mux,
		logger: opts.Logger,
		config: configMgr,
	}

	if err := notifier.ContextPrepared(app); err != nil {
		return fail(app, fmt.Errorf("context notification failed: %w", err))
	}

	// Run service registration
	if opts.Register != nil {
		if err := opts.Register(app); err != nil {
			return fail(app, fmt.Errorf("service registration failed: %w", err))
		}
	}

	if err := notifier.ContextLoaded(app); err != nil {
		return fail(app, fmt.Errorf("context loaded notification failed: %w", err))
	}

	// Add health check endpoint
	if opts.EnableHealthCheck {
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Healthy"))
		})
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			opts.Logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Start HTTP server
	server := &http.Server{
		Addr:    opts.HTTPAddr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			opts.Logger.Error(err, "HTTP server failed")
			cancel()
		}
	}()

	if err := notifier.Started(app); err != nil {
		return fail(app, fmt.Errorf("started notification failed: %w", err))
	}

	// Execute runners before declaring the application running
	for _, runner := range opts.Runners {
		if err := runner.Run(ctx, app); err != nil {
			return fail(app, fmt.Errorf("runner failed: %w", err))
		}
	}

	if err := notifier.Running(app); err != nil {
		return fail(app, fmt.Errorf("running notification failed: %w", err))
	}

	opts.Logger.Info("Service started successfully",
		log.Str("service_name", opts.ServiceName),
		log.Str("service_version", opts.ServiceVersion))

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer shutdownCancel()

	opts.Logger.Info("Shutting down service")

	if err := server.Shutdown(shutdownCtx); err != nil {
		opts.Logger.Error(err, "Failed to shutdown HTTP server")
	}

	opts.Logger.Info("Service stopped gracefully")
	return nil
}
