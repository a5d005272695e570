package turn

import (
	"context"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/telemetry"
)

// Controller is the single place that decides whether a completed action
// ends the player's turn and, if so, what happens to the current mode.
// It owns the current mode and the preserved-mode slot; collaborators
// read mode state through it and never toggle descriptor flags.
type Controller struct {
	registry *modes.Registry
	machine  *Machine

	mode         modes.Mode
	preserved    modes.Mode
	preservedSet bool
	log          logr.Logger
}

// NewController creates a controller starting in the registry's default
// player mode with an empty preserved slot.
func NewController(registry *modes.Registry, machine *Machine, log logr.Logger) *Controller {
	return &Controller{
		registry: registry,
		machine:  machine,
		mode:     registry.DefaultMode(),
		log:      log.WithName("turn"),
	}
}

// CurrentMode returns the active game mode.
func (c *Controller) CurrentMode() modes.Mode {
	return c.mode
}

// SetMode switches the active mode. The mode must have a descriptor; an
// unknown mode is a configuration defect and the switch is refused.
func (c *Controller) SetMode(m modes.Mode) error {
	if _, err := c.registry.Descriptor(m); err != nil {
		return err
	}
	c.mode = m
	return nil
}

// PreservedMode returns the mode waiting in the preserved slot, if any.
// Diagnostics and tests only; restoration consumes the slot itself.
func (c *Controller) PreservedMode() (modes.Mode, bool) {
	return c.preserved, c.preservedSet
}

// FinishPlayerAction is called after every dispatched action with the
// mode the action left the game in and whether it consumed the turn.
// Non-consuming actions are a no-op. Consuming actions in a mode that
// does not cause phase transitions (menu browsing) are also a no-op.
// Otherwise the mode is preserved if its descriptor asks for it, and the
// machine advances to the enemy phase.
func (c *Controller) FinishPlayerAction(ctx context.Context, m modes.Mode, turnConsumed bool) {
	if !turnConsumed {
		return
	}
	if !c.registry.CausesPhaseTransition(m) {
		return
	}

	if c.registry.ShouldPreserve(m) {
		c.preserve(m)
	}

	tracer := telemetry.Tracer("turn")
	_, span := tracer.Start(ctx, "turn.player_done")
	span.SetAttributes(
		attribute.String("mode", m.String()),
		attribute.Int("turn", c.machine.Turn()),
		attribute.Bool("preserved", c.preservedSet),
	)
	span.End()

	c.machine.Advance(ctx)
}

// preserve stores m in the single-capacity slot. Attempting to preserve
// while the slot is occupied is logged and the existing value wins.
func (c *Controller) preserve(m modes.Mode) {
	if c.preservedSet {
		c.log.Error(nil, "preserved-mode slot already occupied, keeping existing",
			"existing", c.preserved.String(), "discarded", m.String())
		return
	}
	c.preserved = m
	c.preservedSet = true
}

// FinishEnemyAndEnvironment is called once by the AI collaborator after
// all monsters have acted. It drives the machine through the environment
// phase and back to the player phase, incrementing the turn counter, then
// restores the preserved mode or resets to the default player mode. The
// environment phase is always entered so its listeners fire even when
// they have nothing to do.
func (c *Controller) FinishEnemyAndEnvironment(ctx context.Context) {
	tracer := telemetry.Tracer("turn")
	ctx, span := tracer.Start(ctx, "turn.cycle_complete")
	defer span.End()

	c.machine.Advance(ctx) // ENEMY -> ENVIRONMENT
	c.machine.Advance(ctx) // ENVIRONMENT -> PLAYER

	if c.preservedSet {
		restored := c.preserved
		c.preserved = 0
		c.preservedSet = false
		c.mode = restored
		span.SetAttributes(attribute.String("mode.restored", restored.String()))
	} else {
		c.mode = c.registry.DefaultMode()
		span.SetAttributes(attribute.String("mode.reset", c.mode.String()))
	}
	span.SetAttributes(attribute.Int("turn", c.machine.Turn()))
}
