// Package entity provides game entities: the player and monsters.
package entity

import "github.com/RafeHatfield/yarl-sub006/internal/combat"

// StatusType identifies a per-turn status effect on the player.
type StatusType string

const (
	// StatusPoison damages the player each environment phase.
	StatusPoison StatusType = "poison"
	// StatusRegen heals the player each environment phase.
	StatusRegen StatusType = "regen"
)

// Status is an active effect that ticks during the environment phase.
type Status struct {
	Type           StatusType
	RemainingTurns int
	Power          int // Damage or healing applied per tick
}

// StatusTick reports what one status did when it was processed.
type StatusTick struct {
	Type   StatusType
	Amount int
	Ended  bool
}

// ItemKind classifies carriable items.
type ItemKind string

const (
	// ItemPotion heals when quaffed or poisons when thrown.
	ItemPotion ItemKind = "potion"
	// ItemAmulet is the victory item.
	ItemAmulet ItemKind = "amulet"
)

// Item is something the player can carry.
type Item struct {
	Kind ItemKind
	Name string
}

// Player is the single hero walking the dungeon.
type Player struct {
	Name    string
	X, Y    int
	HP      int
	MaxHP   int
	Attack  int
	Defense int

	Inventory []Item
	HasAmulet bool

	statuses []Status
}

// NewPlayer creates a player at the given position with default stats.
func NewPlayer(x, y int) *Player {
	return &Player{
		Name:    "You",
		X:       x,
		Y:       y,
		HP:      30,
		MaxHP:   30,
		Attack:  6,
		Defense: 2,
	}
}

// Move shifts the player by the given delta.
func (p *Player) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Position returns the player's current coordinates.
func (p *Player) Position() (int, int) {
	return p.X, p.Y
}

// AddItem puts an item in the inventory. Picking up the amulet also sets
// the narrative flag the game mode switch keys off.
func (p *Player) AddItem(item Item) {
	p.Inventory = append(p.Inventory, item)
	if item.Kind == ItemAmulet {
		p.HasAmulet = true
	}
}

// RemoveItem removes the item at the given inventory index, reporting
// whether the index was valid.
func (p *Player) RemoveItem(index int) (Item, bool) {
	if index < 0 || index >= len(p.Inventory) {
		return Item{}, false
	}
	item := p.Inventory[index]
	p.Inventory = append(p.Inventory[:index], p.Inventory[index+1:]...)
	return item, true
}

// AddStatus adds or refreshes a status effect.
func (p *Player) AddStatus(s Status) {
	for i, existing := range p.statuses {
		if existing.Type == s.Type {
			p.statuses[i] = s
			return
		}
	}
	p.statuses = append(p.statuses, s)
}

// Statuses returns the active status effects.
func (p *Player) Statuses() []Status {
	return p.statuses
}

// TickStatuses processes one environment phase worth of status effects
// and returns what happened.
func (p *Player) TickStatuses() []StatusTick {
	var ticks []StatusTick
	remaining := p.statuses[:0]

	for _, s := range p.statuses {
		tick := StatusTick{Type: s.Type}

		switch s.Type {
		case StatusPoison:
			tick.Amount = p.TakeDamage(s.Power)
		case StatusRegen:
			tick.Amount = p.Heal(s.Power)
		}

		s.RemainingTurns--
		if s.RemainingTurns <= 0 {
			tick.Ended = true
		} else {
			remaining = append(remaining, s)
		}
		ticks = append(ticks, tick)
	}

	p.statuses = remaining
	return ticks
}

// Heal restores HP and returns the actual amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if p.HP+actual > p.MaxHP {
		actual = p.MaxHP - p.HP
	}
	p.HP += actual
	return actual
}

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// IsAlive returns true if the player has HP remaining.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// GetHP returns current HP.
func (p *Player) GetHP() int { return p.HP }

// GetAttack returns attack power.
func (p *Player) GetAttack() int { return p.Attack }

// GetDefense returns defense value.
func (p *Player) GetDefense() int { return p.Defense }

// TakeDamage reduces HP and returns actual damage taken.
func (p *Player) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > p.HP {
		actual = p.HP
	}
	p.HP -= actual
	return actual
}

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
