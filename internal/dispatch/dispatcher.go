// Package dispatch routes decoded input commands to the active mode's
// handler and reports the outcome to the turn controller.
package dispatch

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/turn"
)

// Dispatcher is the entry point for all externally-originated commands.
// It is mode-agnostic by construction: it never inspects individual mode
// values, only what the registry declares about them.
type Dispatcher struct {
	registry   *modes.Registry
	controller *turn.Controller
	log        logr.Logger
}

// New creates a dispatcher over the given registry and controller.
func New(registry *modes.Registry, controller *turn.Controller, log logr.Logger) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		controller: controller,
		log:        log.WithName("dispatch"),
	}
}

// Dispatch resolves the current mode's handler, runs it, applies any
// mode switch the handler requested, and forwards the result to the turn
// controller. A mode with no handler yields a silent no-op outcome;
// unrecognized input while dead is deliberately not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd modes.Command) modes.Outcome {
	mode := d.controller.CurrentMode()

	handler := d.registry.InputHandler(mode)
	if handler == nil {
		return modes.Outcome{}
	}

	outcome := handler(ctx, cmd)

	if outcome.SwitchMode {
		if err := d.controller.SetMode(outcome.NextMode); err != nil {
			// A handler asking for an unregistered mode is a wiring bug;
			// refuse the switch and keep playing.
			d.log.Error(err, "handler requested invalid mode",
				"from", mode.String(), "requested", outcome.NextMode.String())
		}
	}

	// The mode the action left the game in governs phase transition and
	// preservation: picking up the amulet switches modes and consumes the
	// turn in the same action, and it is the new mode that must survive
	// the enemy phase.
	d.controller.FinishPlayerAction(ctx, d.controller.CurrentMode(), outcome.TurnConsumed)

	return outcome
}
