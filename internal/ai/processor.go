// Package ai drives monsters during the enemy phase and passive effects
// during the environment phase. It never mutates phase or mode directly;
// it reads the phase machine and reports completion to the controller.
package ai

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RafeHatfield/yarl-sub006/internal/combat"
	"github.com/RafeHatfield/yarl-sub006/internal/entity"
	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/telemetry"
	"github.com/RafeHatfield/yarl-sub006/internal/turn"
	"github.com/RafeHatfield/yarl-sub006/internal/world"
)

// chaseRadius is how close the player must be (in squared tiles) before a
// monster abandons wandering and closes in.
const chaseRadius = 64

// Processor runs all monster turns for the current enemy phase, then the
// environment phase, and signals the controller when both are done.
type Processor struct {
	machine    *turn.Machine
	controller *turn.Controller
	registry   *modes.Registry
	dungeon    *world.Dungeon
	player     *entity.Player
	rng        *rand.Rand
	log        logr.Logger

	// pending collects messages produced by the environment listener so
	// Run can hand them back alongside the monster messages.
	pending []string
}

// NewProcessor creates a processor and registers its environment-phase
// listener on the machine.
func NewProcessor(machine *turn.Machine, controller *turn.Controller, registry *modes.Registry,
	dungeon *world.Dungeon, player *entity.Player, rng *rand.Rand, log logr.Logger) *Processor {

	p := &Processor{
		machine:    machine,
		controller: controller,
		registry:   registry,
		dungeon:    dungeon,
		player:     player,
		rng:        rng,
		log:        log.WithName("ai"),
	}
	machine.RegisterListener(turn.PhaseEnvironment, "status-ticks", p.tickEnvironment)
	return p
}

// Run executes every living monster's turn, then drives the machine
// through the environment phase back to the player phase via the
// controller. It is gated on the enemy phase being active; calling it in
// any other phase is a no-op. Returns messages for the message line.
func (p *Processor) Run(ctx context.Context, monsters []*entity.Monster) []string {
	if !p.machine.Is(turn.PhaseEnemy) {
		return nil
	}

	tracer := telemetry.Tracer("ai")
	ctx, span := tracer.Start(ctx, "ai.enemy_phase")
	defer span.End()

	var messages []string
	acted := 0

	// The descriptor's AIActive flag is advisory to this collaborator:
	// monsters hold still while the player is in a frozen mode, but the
	// phase itself still completes so ordering is never broken.
	if p.registry.AIActive(p.controller.CurrentMode()) {
		for _, monster := range monsters {
			if !monster.IsAlive() {
				continue
			}
			if msg := p.act(monster); msg != "" {
				messages = append(messages, msg)
			}
			acted++
			if !p.player.IsAlive() {
				break
			}
		}
	}

	span.SetAttributes(
		attribute.Int("monsters_acted", acted),
		attribute.Int("turn", p.machine.Turn()),
	)

	p.pending = p.pending[:0]
	p.controller.FinishEnemyAndEnvironment(ctx)
	messages = append(messages, p.pending...)

	if !p.player.IsAlive() {
		if err := p.controller.SetMode(modes.ModeDead); err != nil {
			p.log.Error(err, "failed to enter dead mode")
		}
		messages = append(messages, "You die...")
		span.SetAttributes(attribute.Bool("player_died", true))
	}

	return messages
}

// act moves one monster: bump-attack the player when adjacent, chase when
// close, otherwise wander.
func (p *Processor) act(monster *entity.Monster) string {
	dx := p.player.X - monster.X
	dy := p.player.Y - monster.Y

	if abs(dx)+abs(dy) == 1 {
		result := combat.Resolve(monster, p.player, p.rng)
		return result.Message
	}

	var stepX, stepY int
	if dx*dx+dy*dy <= chaseRadius {
		stepX, stepY = sign(dx), sign(dy)
		// One axis at a time; pick the longer one first.
		if abs(dx) >= abs(dy) {
			stepY = 0
		} else {
			stepX = 0
		}
	} else {
		dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
		d := dirs[p.rng.Intn(len(dirs))]
		stepX, stepY = d[0], d[1]
	}

	nx, ny := monster.X+stepX, monster.Y+stepY
	if p.dungeon.IsPassable(nx, ny) && !(nx == p.player.X && ny == p.player.Y) {
		monster.X, monster.Y = nx, ny
	}
	return ""
}

// tickEnvironment is the environment-phase listener: it applies the
// player's status effects. It runs every turn even when there is nothing
// to tick, preserving the phase ordering guarantee.
func (p *Processor) tickEnvironment(ctx context.Context) {
	for _, tick := range p.player.TickStatuses() {
		switch tick.Type {
		case entity.StatusPoison:
			if tick.Amount > 0 {
				p.pending = append(p.pending, fmt.Sprintf("Poison burns for %d.", tick.Amount))
			}
		case entity.StatusRegen:
			if tick.Amount > 0 {
				p.pending = append(p.pending, fmt.Sprintf("You regenerate %d HP.", tick.Amount))
			}
		}
		if tick.Ended {
			p.pending = append(p.pending, fmt.Sprintf("The %s wears off.", tick.Type))
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
