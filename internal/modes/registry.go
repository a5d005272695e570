package modes

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDescriptor indicates a mode without a registered descriptor.
	// This is a configuration defect, never a runtime case to handle.
	ErrNoDescriptor = errors.New("no descriptor registered for mode")
	// ErrDuplicateDescriptor indicates a mode registered twice.
	ErrDuplicateDescriptor = errors.New("descriptor already registered for mode")
	// ErrInvalidMode indicates a mode value outside the defined enum.
	ErrInvalidMode = errors.New("invalid game mode")
)

// Descriptor is the immutable behavior record for one mode. Descriptors
// are built once at startup and never mutated afterwards.
type Descriptor struct {
	// Handler owns interpretation of raw input while this mode is active.
	// Nil means input in this mode is silently ignored.
	Handler Handler

	// AllowsMovement permits walking the map.
	AllowsMovement bool
	// AllowsItemPickup permits picking items off the floor.
	AllowsItemPickup bool
	// AllowsInventory permits opening the inventory screen.
	AllowsInventory bool
	// CausesPhaseTransition makes a turn-consuming action in this mode
	// hand control to the enemy phase. Menu-style modes leave this false.
	CausesPhaseTransition bool
	// PreserveAcrossEnemyTurn restores this exact mode after the enemy
	// and environment phases instead of resetting to the default mode.
	PreserveAcrossEnemyTurn bool
	// AIActive tells the AI collaborator whether monsters act while this
	// mode is current. Informational; not enforced here.
	AIActive bool
}

// Registry is the validated lookup table from mode to descriptor. After
// Validate passes at startup, every defined mode has exactly one
// descriptor, so lookups during play cannot miss.
type Registry struct {
	descriptors map[Mode]Descriptor
	defaultMode Mode
}

// NewRegistry creates an empty registry whose default player mode is
// defaultMode. The default mode is what the turn controller resets to
// when no preserved mode is pending.
func NewRegistry(defaultMode Mode) *Registry {
	return &Registry{
		descriptors: make(map[Mode]Descriptor, modeCount),
		defaultMode: defaultMode,
	}
}

// Register adds the descriptor for a mode. Registering the same mode
// twice is a configuration defect and fails.
func (r *Registry) Register(m Mode, d Descriptor) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	if _, exists := r.descriptors[m]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDescriptor, m)
	}
	r.descriptors[m] = d
	return nil
}

// Bind attaches an input handler to an already registered mode. Flags are
// loaded from data before the game layer has handlers to attach, so
// binding is a separate startup step.
func (r *Registry) Bind(m Mode, h Handler) error {
	d, ok := r.descriptors[m]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDescriptor, m)
	}
	d.Handler = h
	r.descriptors[m] = d
	return nil
}

// Validate checks that every defined mode has a descriptor and that the
// default mode is usable. Called once at startup; failure is fatal and
// must halt session creation before any gameplay begins.
func (r *Registry) Validate() error {
	for _, m := range All() {
		if _, ok := r.descriptors[m]; !ok {
			return fmt.Errorf("%w: %s", ErrNoDescriptor, m)
		}
	}
	if !r.defaultMode.Valid() {
		return fmt.Errorf("default mode: %w: %d", ErrInvalidMode, int(r.defaultMode))
	}
	return nil
}

// Descriptor returns the descriptor for a mode. A miss after Validate has
// passed means the registry was corrupted; callers treat it as fatal.
func (r *Registry) Descriptor(m Mode) (Descriptor, error) {
	d, ok := r.descriptors[m]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNoDescriptor, m)
	}
	return d, nil
}

// DefaultMode returns the registry-designated default player mode.
func (r *Registry) DefaultMode() Mode {
	return r.defaultMode
}

// The query methods below are pure projections of Descriptor. They return
// zero values for unregistered modes, which Validate rules out at startup.

// AllowsMovement reports whether walking is permitted in mode m.
func (r *Registry) AllowsMovement(m Mode) bool {
	return r.descriptors[m].AllowsMovement
}

// AllowsItemPickup reports whether floor pickup is permitted in mode m.
func (r *Registry) AllowsItemPickup(m Mode) bool {
	return r.descriptors[m].AllowsItemPickup
}

// AllowsInventory reports whether the inventory screen may open in mode m.
func (r *Registry) AllowsInventory(m Mode) bool {
	return r.descriptors[m].AllowsInventory
}

// CausesPhaseTransition reports whether a turn-consuming action in mode m
// hands control to the enemy phase.
func (r *Registry) CausesPhaseTransition(m Mode) bool {
	return r.descriptors[m].CausesPhaseTransition
}

// ShouldPreserve reports whether mode m must be restored after the enemy
// and environment phases.
func (r *Registry) ShouldPreserve(m Mode) bool {
	return r.descriptors[m].PreserveAcrossEnemyTurn
}

// AIActive reports whether monsters act while mode m is current.
func (r *Registry) AIActive(m Mode) bool {
	return r.descriptors[m].AIActive
}

// InputHandler returns the handler owning input in mode m, or nil if the
// mode ignores input.
func (r *Registry) InputHandler(m Mode) Handler {
	return r.descriptors[m].Handler
}
