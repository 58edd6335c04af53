package testingx

import (
	"sync"

	"github.com/emberlab/ember/bootx"
	"github.com/emberlab/ember/configx"
)

// RecordingListener implements bootx.RunListener and records every phase
// it observes. Set ErrOn before starting the lifecycle to inject an error
// when a given phase fires.
type RecordingListener struct {
	mu      sync.Mutex
	phases  []bootx.Phase
	failErr error

	// ErrOn maps a phase to the error returned when that phase fires.
	ErrOn map[bootx.Phase]error
}

func (r *RecordingListener) observe(p bootx.Phase) error {
	r.mu.Lock()
	r.phases = append(r.phases, p)
	err := r.ErrOn[p]
	r.mu.Unlock()
	return err
}

func (r *RecordingListener) Starting() error {
	return r.observe(bootx.PhaseStarting)
}

func (r *RecordingListener) EnvironmentPrepared(configx.Manager) error {
	return r.observe(bootx.PhaseEnvironmentPrepared)
}

func (r *RecordingListener) ContextPrepared(*bootx.App) error {
	return r.observe(bootx.PhaseContextPrepared)
}

func (r *RecordingListener) ContextLoaded(*bootx.App) error {
	return r.observe(bootx.PhaseContextLoaded)
}

func (r *RecordingListener) Started(*bootx.App) error {
	return r.observe(bootx.PhaseStarted)
}

func (r *RecordingListener) Running(*bootx.App) error {
	return r.observe(bootx.PhaseRunning)
}

func (r *RecordingListener) Failed(_ *bootx.App, err error) {
	r.mu.Lock()
	r.phases = append(r.phases, bootx.PhaseFailed)
	r.failErr = err
	r.mu.Unlock()
}

// Phases returns the phases observed so far, in order.
func (r *RecordingListener) Phases() []bootx.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]bootx.Phase, len(r.phases))
	copy(out, r.phases)
	return out
}

// FailureCause returns the error passed to Failed, or nil.
func (r *RecordingListener) FailureCause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failErr
}

var _ bootx.RunListener = (*RecordingListener)(nil)
