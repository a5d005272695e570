package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/RafeHatfield/yarl-sub006/internal/combat"
	"github.com/RafeHatfield/yarl-sub006/internal/gamedata"
)

// Monster is a hostile creature in the dungeon, built from a data-driven
// definition.
type Monster struct {
	Def       *gamedata.MonsterDef // Definition this monster was spawned from
	Name      string
	Symbol    rune
	X, Y      int
	RoomIndex int // Index of the room this monster is in (-1 if not in a room)
	HP        int
	MaxHP     int
}

// NewMonster creates a monster from its definition at the given position.
func NewMonster(def *gamedata.MonsterDef, x, y, roomIndex int) *Monster {
	return &Monster{
		Def:       def,
		Name:      def.Name,
		Symbol:    def.GlyphRune(),
		X:         x,
		Y:         y,
		RoomIndex: roomIndex,
		HP:        def.HP,
		MaxHP:     def.HP,
	}
}

// Position returns the monster's current coordinates.
func (m *Monster) Position() (int, int) {
	return m.X, m.Y
}

// Color returns the tcell color for this monster.
func (m *Monster) Color() tcell.Color {
	return m.Def.TCellColor()
}

// GetName returns the monster's name.
func (m *Monster) GetName() string { return m.Name }

// IsAlive returns true if the monster has HP remaining.
func (m *Monster) IsAlive() bool { return m.HP > 0 }

// GetHP returns current HP.
func (m *Monster) GetHP() int { return m.HP }

// GetAttack returns attack power.
func (m *Monster) GetAttack() int { return m.Def.Attack }

// GetDefense returns defense value.
func (m *Monster) GetDefense() int { return m.Def.Defense }

// TakeDamage reduces HP and returns actual damage taken.
func (m *Monster) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > m.HP {
		actual = m.HP
	}
	m.HP -= actual
	return actual
}

// Ensure Monster implements combat.Combatant
var _ combat.Combatant = (*Monster)(nil)
