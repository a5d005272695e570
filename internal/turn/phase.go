// Package turn provides the turn-phase state machine and the controller
// that ties action completion to phase advancement and mode restoration.
package turn

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Phase is one of the three coarse stages that make up a full turn cycle.
// The ordering is strictly cyclic: PLAYER, ENEMY, ENVIRONMENT, PLAYER, ...
type Phase int

const (
	// PhasePlayer is waiting for, or resolving, a player action.
	PhasePlayer Phase = iota
	// PhaseEnemy is the monsters acting.
	PhaseEnemy
	// PhaseEnvironment is passive effects ticking (poison, regen).
	PhaseEnvironment
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlayer:
		return "player"
	case PhaseEnemy:
		return "enemy"
	case PhaseEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

// Next returns the phase that follows p in cycle order.
func (p Phase) Next() Phase {
	switch p {
	case PhasePlayer:
		return PhaseEnemy
	case PhaseEnemy:
		return PhaseEnvironment
	default:
		return PhasePlayer
	}
}

// ParsePhase resolves a phase identifier from a save game.
func ParsePhase(id string) (Phase, error) {
	switch id {
	case "player":
		return PhasePlayer, nil
	case "enemy":
		return PhaseEnemy, nil
	case "environment":
		return PhaseEnvironment, nil
	default:
		return 0, fmt.Errorf("unknown turn phase %q", id)
	}
}

// Listener is invoked synchronously when the machine enters the phase it
// was registered for. A panic inside a listener is caught and logged; it
// never aborts the remaining listeners or the transition itself.
type Listener func(ctx context.Context)

// Transition records one phase change for diagnostics.
type Transition struct {
	Turn int   // turn counter after the transition
	From Phase // phase left
	To   Phase // phase entered
}

// historyWindow bounds the retained transition history.
const historyWindow = 50

type listenerEntry struct {
	name string
	fn   Listener
}

// Machine tracks which phase is active and the turn counter. It is the
// sole owner of both; everything else reads them through it. Execution is
// single-threaded and cooperative, so the only guarded hazard is a
// listener synchronously calling back into Advance.
type Machine struct {
	phase     Phase
	turn      int
	listeners map[Phase][]listenerEntry
	history   []Transition
	notifying bool
	log       logr.Logger
}

// NewMachine creates a machine in the PLAYER phase with the turn counter
// at zero.
func NewMachine(log logr.Logger) *Machine {
	return &Machine{
		phase:     PhasePlayer,
		listeners: make(map[Phase][]listenerEntry),
		history:   make([]Transition, 0, historyWindow),
		log:       log.WithName("phase"),
	}
}

// Current returns the active phase.
func (m *Machine) Current() Phase {
	return m.phase
}

// Is reports whether p is the active phase.
func (m *Machine) Is(p Phase) bool {
	return m.phase == p
}

// Turn returns the turn counter. It increments by exactly one each time
// the cycle completes, on the ENVIRONMENT to PLAYER edge, and is never
// decremented.
func (m *Machine) Turn() int {
	return m.turn
}

// Advance moves to the next phase in cycle order and returns the phase
// entered. If the new phase is PLAYER the turn counter increments first.
// A call made while a previous transition is still notifying listeners is
// logged and ignored, leaving the phase unchanged; this guards against a
// listener reacting to a phase change by triggering another one.
func (m *Machine) Advance(ctx context.Context) Phase {
	if m.notifying {
		m.log.Error(nil, "re-entrant advance ignored",
			"phase", m.phase.String(), "turn", m.turn)
		return m.phase
	}

	from := m.phase
	to := from.Next()
	if to == PhasePlayer {
		m.turn++
	}
	m.phase = to
	m.record(Transition{Turn: m.turn, From: from, To: to})

	m.notifying = true
	defer func() { m.notifying = false }()
	for _, entry := range m.listeners[to] {
		m.notify(ctx, to, entry)
	}
	return to
}

// notify runs one listener, isolating panics so the remaining listeners
// still fire and the transition completes.
func (m *Machine) notify(ctx context.Context, p Phase, entry listenerEntry) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(fmt.Errorf("listener panic: %v", r),
				"phase listener failed",
				"phase", p.String(), "listener", entry.name)
		}
	}()
	entry.fn(ctx)
}

// RegisterListener invokes fn whenever the machine enters p. Listeners
// for the same phase run in registration order. The name identifies the
// listener in diagnostics when it fails.
func (m *Machine) RegisterListener(p Phase, name string, fn Listener) {
	m.listeners[p] = append(m.listeners[p], listenerEntry{name: name, fn: fn})
}

// record appends a transition, dropping the oldest entry once the window
// is full.
func (m *Machine) record(t Transition) {
	if len(m.history) == historyWindow {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyWindow-1]
	}
	m.history = append(m.history, t)
}

// History returns up to the last n transitions, most recent last. It is
// diagnostics only; game logic never reads it.
func (m *Machine) History(n int) []Transition {
	if n <= 0 {
		return nil
	}
	if n > len(m.history) {
		n = len(m.history)
	}
	out := make([]Transition, n)
	copy(out, m.history[len(m.history)-n:])
	return out
}

// Restore sets phase and turn counter directly from saved primitives. No
// listeners fire and no history is recorded; a loaded game resumes where
// it left off rather than replaying transitions.
func (m *Machine) Restore(p Phase, turnCount int) error {
	if p != PhasePlayer && p != PhaseEnemy && p != PhaseEnvironment {
		return fmt.Errorf("cannot restore unknown phase %d", int(p))
	}
	if turnCount < 0 {
		return fmt.Errorf("cannot restore negative turn counter %d", turnCount)
	}
	m.phase = p
	m.turn = turnCount
	return nil
}
