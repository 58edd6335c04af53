package bootx

import (
	"fmt"
	"sync"

	"github.com/emberlab/ember/configx"
	"github.com/emberlab/ember/core/errors"
)

// ErrPhaseOrder is returned when the driver fires phases out of order,
// fires a phase after a failure, or fires the same phase twice.
var ErrPhaseOrder = errors.New(errors.CodeFailedPrecondition, "lifecycle phase out of order")

// Notifier dispatches lifecycle phase transitions to registered listeners.
// Listeners are invoked synchronously in registration order. Each phase
// fires at most once, in declaration order; Failed is terminal and may
// follow any phase, but never fires twice.
type Notifier struct {
	mu        sync.Mutex
	listeners []RunListener
	fired     []Phase
	last      Phase
	failed    bool
}

// NewNotifier creates a Notifier with the given listeners, in order.
func NewNotifier(listeners ...RunListener) *Notifier {
	n := &Notifier{}
	n.listeners = append(n.listeners, listeners...)
	return n
}

// Register adds a listener. It fails once any phase has fired, so that
// every listener observes the full lifecycle from the start.
func (n *Notifier) Register(l RunListener) error {
	if l == nil {
		return errors.New(errors.CodeInvalidArgument, "listener cannot be nil")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.last != 0 || n.failed {
		return errors.New(errors.CodeFailedPrecondition, "cannot register listener after lifecycle has started")
	}

	n.listeners = append(n.listeners, l)
	return nil
}

// Trace returns the phases fired so far, in order.
func (n *Notifier) Trace() []Phase {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Phase, len(n.fired))
	copy(out, n.fired)
	return out
}

// advance checks that next is the legal successor of the last fired phase
// and records it. Callers hold no lock.
func (n *Notifier) advance(next Phase) ([]RunListener, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failed {
		return nil, fmt.Errorf("cannot fire %s after failure: %w", next, ErrPhaseOrder)
	}

	if next != n.last+1 {
		return nil, fmt.Errorf("cannot fire %s after %s: %w", next, n.last, ErrPhaseOrder)
	}

	n.last = next
	n.fired = append(n.fired, next)
	return n.listeners, nil
}

func (n *Notifier) notify(next Phase, call func(l RunListener) error) error {
	listeners, err := n.advance(next)
	if err != nil {
		return err
	}

	for _, l := range listeners {
		if err := call(l); err != nil {
			return err
		}
	}
	return nil
}

// Starting fires the starting phase.
func (n *Notifier) Starting() error {
	return n.notify(PhaseStarting, func(l RunListener) error {
		return l.Starting()
	})
}

// EnvironmentPrepared fires once configuration is loaded and bound.
func (n *Notifier) EnvironmentPrepared(env configx.Manager) error {
	return n.notify(PhaseEnvironmentPrepared, func(l RunListener) error {
		return l.EnvironmentPrepared(env)
	})
}

// ContextPrepared fires once the application context exists.
func (n *Notifier) ContextPrepared(app *App) error {
	return n.notify(PhaseContextPrepared, func(l RunListener) error {
		return l.ContextPrepared(app)
	})
}

// ContextLoaded fires once registration has completed.
func (n *Notifier) ContextLoaded(app *App) error {
	return n.notify(PhaseContextLoaded, func(l RunListener) error {
		return l.ContextLoaded(app)
	})
}

// Started fires once servers are up.
func (n *Notifier) Started(app *App) error {
	return n.notify(PhaseStarted, func(l RunListener) error {
		return l.Started(app)
	})
}

// Running fires once the application is fully operational.
func (n *Notifier) Running(app *App) error {
	return n.notify(PhaseRunning, func(l RunListener) error {
		return l.Running(app)
	})
}

// Failed fires the failed phase. It can follow any phase and fires at
// most once. Every listener is notified; Failed callbacks cannot abort
// the loop. app may be nil when the failure happened before the context
// was created.
func (n *Notifier) Failed(app *App, cause error) {
	n.mu.Lock()
	if n.failed {
		n.mu.Unlock()
		return
	}
	n.failed = true
	n.fired = append(n.fired, PhaseFailed)
	listeners := n.listeners
	n.mu.Unlock()

	for _, l := range listeners {
		l.Failed(app, cause)
	}
}
