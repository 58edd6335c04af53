// Package internal provides internal implementation details for configx.
package internal

import (
	"context"
	"time"

	"github.com/emberlab/ember/core/log"
)

// Source describes a configuration source that can load and watch for updates.
// Implementations must be thread-safe and honor context cancellation.
type Source interface {
	// Load reads the current configuration snapshot for initial merge.
	Load(ctx context.Context) (map[string]string, error)

	// Watch starts monitoring for updates and publishes snapshots via the returned channel.
	// The channel must be closed when the context is cancelled to avoid goroutine leaks.
	Watch(ctx context.Context) (<-chan map[string]string, error)
}

// Binding carries the prefix and policy for one bind operation.
// Policy flags are inherited by nested structs during recursion.
type Binding struct {
	Prefix              string
	IgnoreUnknownFields bool
	IgnoreInvalidFields bool
}

// ManagerOptions holds configuration for the manager.
type ManagerOptions struct {
	Logger   log.Logger
	Sources  []Source
	Debounce time.Duration
}
