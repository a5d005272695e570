// Package combat resolves melee attacks between the player and monsters.
// Its math is deliberately independent of the turn orchestration core; it
// only reports whether an action happened.
package combat

import (
	"fmt"
	"math/rand"
)

// Combatant is the interface for anything that can trade blows. Both the
// player and monsters implement it.
type Combatant interface {
	GetName() string
	IsAlive() bool
	GetHP() int
	GetAttack() int
	GetDefense() int
	TakeDamage(amount int) int // Returns actual damage taken
}

// Result describes one resolved attack.
type Result struct {
	Damage  int
	Killed  bool
	Message string
}

// variance is the size of the random damage spread added to attack power.
const variance = 3

// Resolve applies one melee attack from attacker to defender. Damage is
// attack plus a small random spread minus defense, never below 1.
func Resolve(attacker, defender Combatant, rng *rand.Rand) Result {
	raw := attacker.GetAttack() + rng.Intn(variance) - defender.GetDefense()
	if raw < 1 {
		raw = 1
	}

	dealt := defender.TakeDamage(raw)
	killed := !defender.IsAlive()

	var msg string
	if killed {
		msg = fmt.Sprintf("%s hits %s for %d and kills it!",
			attacker.GetName(), defender.GetName(), dealt)
	} else {
		msg = fmt.Sprintf("%s hits %s for %d.",
			attacker.GetName(), defender.GetName(), dealt)
	}

	return Result{Damage: dealt, Killed: killed, Message: msg}
}
