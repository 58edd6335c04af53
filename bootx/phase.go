package bootx

// Phase identifies a stage of the application startup lifecycle.
// Phases fire in declaration order; Failed is terminal and may follow
// any other phase.
type Phase int

const (
	// PhaseStarting fires as soon as the driver begins, before any
	// environment or configuration work.
	PhaseStarting Phase = iota + 1

	// PhaseEnvironmentPrepared fires once the merged configuration is
	// loaded and bound, before the application context exists.
	PhaseEnvironmentPrepared

	// PhaseContextPrepared fires once the application context is created
	// but before any handlers are registered.
	PhaseContextPrepared

	// PhaseContextLoaded fires once registration has completed but before
	// the application starts serving.
	PhaseContextLoaded

	// PhaseStarted fires once servers are up, before runners execute.
	PhaseStarted

	// PhaseRunning fires once all runners have completed and the
	// application is fully operational.
	PhaseRunning

	// PhaseFailed fires when startup fails. It is terminal.
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseEnvironmentPrepared:
		return "environment-prepared"
	case PhaseContextPrepared:
		return "context-prepared"
	case PhaseContextLoaded:
		return "context-loaded"
	case PhaseStarted:
		return "started"
	case PhaseRunning:
		return "running"
	case PhaseFailed:
		return "failed"
	case 0:
		return "not-started"
	}
	return "unknown"
}
