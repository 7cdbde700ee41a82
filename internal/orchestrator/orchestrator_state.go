package orchestrator

import (
	"fmt"

	"devrunner/pkg/logging"
)

// State is the lifecycle state of one orchestration run.
type State string

const (
	StateIdle           State = "idle"
	StateResolvingTools State = "resolving-tools"
	StateRunning        State = "running"
	StateShuttingDown   State = "shutting-down"
	StateTerminated     State = "terminated"
)

// Mode selects what a run does once tools are resolved.
type Mode int

const (
	ModeDevelopmentServer Mode = iota
	ModeTypeGeneration
)

func (m Mode) String() string {
	switch m {
	case ModeDevelopmentServer:
		return "development-server"
	case ModeTypeGeneration:
		return "type-generation"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateResolvingTools
	case StateResolvingTools:
		return to == StateRunning || to == StateShuttingDown
	case StateRunning:
		return to == StateShuttingDown
	case StateShuttingDown:
		return to == StateTerminated
	default:
		return false
	}
}

// transition moves the run to the next state. Runs are strictly sequential,
// so an invalid transition is a programming error.
func (o *Orchestrator) transition(to State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	from := o.state
	if !isAllowedTransition(from, to) {
		panic(fmt.Sprintf("orchestrator: invalid transition %s -> %s", from, to))
	}
	o.state = to
	o.history = append(o.history, to)
	if to == StateRunning {
		logging.Info("Orchestrator", "State %s -> %s (%s)", from, to, o.cfg.Mode)
		return
	}
	logging.Debug("Orchestrator", "State %s -> %s", from, to)
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// History returns every state entered after Idle, in order.
func (o *Orchestrator) History() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]State(nil), o.history...)
}
