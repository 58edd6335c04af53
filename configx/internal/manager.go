package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emberlab/ember/core/log"
)

// ManagerImpl merges configuration sources and tracks updates.
type ManagerImpl struct {
	logger    log.Logger
	sources   []Source
	debounce  time.Duration
	perSource []map[string]string
	snapshot  map[string]string
	mu        sync.RWMutex

	updateSubs map[int]func(map[string]string)
	subsMu     sync.RWMutex
	nextSubID  int
}

// NewManager creates a new configuration manager.
func NewManager(logger log.Logger, sources []Source, debounce time.Duration) (*ManagerImpl, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}

	return &ManagerImpl{
		logger:     logger,
		sources:    sources,
		debounce:   debounce,
		perSource:  make([]map[string]string, len(sources)),
		snapshot:   make(map[string]string),
		updateSubs: make(map[int]func(map[string]string)),
	}, nil
}

// Initialize loads the initial merged snapshot and starts watching.
func (m *ManagerImpl) Initialize(ctx context.Context) error {
	if err := m.loadInitial(ctx); err != nil {
		return fmt.Errorf("failed to load initial configuration: %w", err)
	}

	if err := m.startWatching(ctx); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	return nil
}

// loadInitial loads every source once and merges the results.
func (m *ManagerImpl) loadInitial(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, source := range m.sources {
		snapshot, err := source.Load(ctx)
		if err != nil {
			return fmt.Errorf("source %d load failed: %w", i, err)
		}
		m.perSource[i] = snapshot
	}

	m.remergeLocked()
	m.logger.Info("configuration loaded", log.Int("keys", len(m.snapshot)))
	return nil
}

// remergeLocked rebuilds the merged snapshot from the cached per-source
// snapshots, later sources winning. Empty values never override earlier
// sources. Caller must hold m.mu.
func (m *ManagerImpl) remergeLocked() {
	merged := make(map[string]string)
	for _, snapshot := range m.perSource {
		for k, v := range snapshot {
			if v != "" {
				merged[k] = v
			}
		}
	}
	m.snapshot = merged
}

// startWatching starts a watch goroutine per source.
func (m *ManagerImpl) startWatching(ctx context.Context) error {
	for i, source := range m.sources {
		updateChan, err := source.Watch(ctx)
		if err != nil {
			return fmt.Errorf("source %d watch failed: %w", i, err)
		}

		go m.watchSource(ctx, i, updateChan)
	}

	return nil
}

// watchSource debounces updates from a single source before applying them.
func (m *ManagerImpl) watchSource(ctx context.Context, sourceIndex int, updateChan <-chan map[string]string) {
	var debounceTimer *time.Timer
	var pendingMu sync.Mutex
	var pendingUpdate map[string]string

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		case snapshot, ok := <-updateChan:
			if !ok {
				return
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			pendingMu.Lock()
			pendingUpdate = snapshot
			pendingMu.Unlock()

			debounceTimer = time.AfterFunc(m.debounce, func() {
				pendingMu.Lock()
				update := pendingUpdate
				pendingMu.Unlock()
				m.applyUpdate(sourceIndex, update)
			})
		}
	}
}

// applyUpdate replaces one source's cached snapshot and re-merges.
func (m *ManagerImpl) applyUpdate(sourceIndex int, update map[string]string) {
	m.mu.Lock()
	m.perSource[sourceIndex] = update
	m.remergeLocked()
	merged := m.snapshot
	m.mu.Unlock()

	m.logger.Info("configuration updated",
		log.Int("source", sourceIndex), log.Int("keys", len(merged)))

	m.notifySubscribers(merged)
}

// notifySubscribers fans the new snapshot out to all subscribers.
func (m *ManagerImpl) notifySubscribers(snapshot map[string]string) {
	m.subsMu.RLock()
	subs := make([]func(map[string]string), 0, len(m.updateSubs))
	for _, fn := range m.updateSubs {
		subs = append(subs, fn)
	}
	m.subsMu.RUnlock()

	for _, sub := range subs {
		go sub(snapshot)
	}
}

// Snapshot returns a copy of the current merged configuration.
func (m *ManagerImpl) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]string, len(m.snapshot))
	for k, v := range m.snapshot {
		snapshot[k] = v
	}
	return snapshot
}

// Value returns the value for a key and whether it exists.
func (m *ManagerImpl) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.snapshot[key]
	return value, exists
}

// OnUpdate subscribes to configuration update events.
func (m *ManagerImpl) OnUpdate(fn func(snapshot map[string]string)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	subID := m.nextSubID
	m.nextSubID++
	m.updateSubs[subID] = fn

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.updateSubs, subID)
	}
}
