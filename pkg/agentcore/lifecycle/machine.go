// Package lifecycle tracks an agent's position in the canonical lifecycle
// state machine and announces transitions on the event bus.
//
// States and transitions:
//
//	Initialized -> Running, Terminated
//	Running     -> Paused, Completed, Failed, Terminated
//	Paused      -> Running, Terminated
//	Completed   -> Terminated
//	Failed      -> Terminated
//	Terminated  -> (terminal)
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
)

// State is a lifecycle state of an agent.
type State string

const (
	// Initialized means the agent has been created but not started.
	Initialized State = "initialized"
	// Running means the agent is actively processing tasks.
	Running State = "running"
	// Paused means execution is suspended but resumable.
	Paused State = "paused"
	// Completed means the agent finished all tasks successfully.
	Completed State = "completed"
	// Failed means the agent encountered a fatal error.
	Failed State = "failed"
	// Terminated means the agent was explicitly shut down. Terminal.
	Terminated State = "terminated"
)

// String returns the state as a string.
func (s State) String() string { return string(s) }

var validTransitions = map[State][]State{
	Initialized: {Running, Terminated},
	Running:     {Paused, Completed, Failed, Terminated},
	Paused:      {Running, Terminated},
	Completed:   {Terminated},
	Failed:      {Terminated},
	Terminated:  nil,
}

var terminalStates = map[State]bool{
	Completed:  true,
	Failed:     true,
	Terminated: true,
}

// TransitionError reports an attempted transition that is not in the valid
// transition map.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid lifecycle transition: %q -> %q", e.From, e.To)
}

// TransitionCallback observes a completed transition.
type TransitionCallback func(from, to State)

// Transition is one recorded state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// Machine manages lifecycle transitions for a single agent. All methods are
// safe for concurrent use.
type Machine struct {
	agentID string

	mu        sync.Mutex
	state     State
	callbacks []TransitionCallback
	history   []Transition

	bus    *event.Bus
	logger *slog.Logger
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithInitialState overrides the starting state.
func WithInitialState(s State) MachineOption {
	return func(m *Machine) { m.state = s }
}

// WithBus attaches an event bus; the machine then emits agent_started,
// agent_stopped, and error_occurred events for the matching transitions.
func WithBus(bus *event.Bus) MachineOption {
	return func(m *Machine) { m.bus = bus }
}

// WithLogger sets the logger used for transition and callback logging.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) { m.logger = logger }
}

// NewMachine creates a state machine for agentID, starting in Initialized.
func NewMachine(agentID string, opts ...MachineOption) *Machine {
	m := &Machine{
		agentID: agentID,
		state:   Initialized,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AgentID returns the agent this machine tracks.
func (m *Machine) AgentID() string { return m.agentID }

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsTerminal reports whether the current state admits no further transitions
// besides termination.
func (m *Machine) IsTerminal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return terminalStates[m.state]
}

// History returns a copy of all recorded transitions, oldest first.
func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// OnTransition registers a callback invoked after every successful
// transition. Callback panics are logged and absorbed.
func (m *Machine) OnTransition(cb TransitionCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// TransitionTo attempts a transition to target. It returns a
// *TransitionError when target is not reachable from the current state.
func (m *Machine) TransitionTo(ctx context.Context, target State) error {
	m.mu.Lock()
	if !reachable(m.state, target) {
		err := &TransitionError{From: m.state, To: target}
		m.mu.Unlock()
		return err
	}

	previous := m.state
	m.state = target
	m.history = append(m.history, Transition{From: previous, To: target, At: time.Now().UTC()})
	callbacks := make([]TransitionCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	m.logger.Debug("lifecycle transition",
		"agent_id", m.agentID,
		"from", previous.String(),
		"to", target.String())

	for _, cb := range callbacks {
		m.invoke(cb, previous, target)
	}
	m.announce(ctx, previous, target)
	return nil
}

func reachable(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (m *Machine) invoke(cb TransitionCallback, from, to State) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("transition callback panicked",
				"agent_id", m.agentID,
				"panic", r)
		}
	}()
	cb(from, to)
}

// announce maps state changes onto bus events. The bus absorbs handler
// failures, so announcing never fails a transition.
func (m *Machine) announce(ctx context.Context, from, to State) {
	if m.bus == nil {
		return
	}
	var typ event.Type
	switch {
	case to == Running && from == Initialized:
		typ = event.AgentStarted
	case to == Terminated:
		typ = event.AgentStopped
	case to == Failed:
		typ = event.ErrorOccurred
	default:
		return
	}
	m.bus.Emit(ctx, event.New(typ, m.agentID,
		event.WithData(map[string]any{
			"from_state": from.String(),
			"to_state":   to.String(),
		})))
}

// Start transitions to Running.
func (m *Machine) Start(ctx context.Context) error { return m.TransitionTo(ctx, Running) }

// Pause transitions to Paused.
func (m *Machine) Pause(ctx context.Context) error { return m.TransitionTo(ctx, Paused) }

// Resume transitions from Paused back to Running.
func (m *Machine) Resume(ctx context.Context) error { return m.TransitionTo(ctx, Running) }

// Complete transitions to Completed.
func (m *Machine) Complete(ctx context.Context) error { return m.TransitionTo(ctx, Completed) }

// Fail transitions to Failed.
func (m *Machine) Fail(ctx context.Context) error { return m.TransitionTo(ctx, Failed) }

// Terminate transitions to Terminated.
func (m *Machine) Terminate(ctx context.Context) error { return m.TransitionTo(ctx, Terminated) }
