// Package modes defines the game's interaction modes and the declarative
// behavior table that governs what input means in each of them.
package modes

import "fmt"

// Mode identifies the current interaction context: what input means and
// which actions are legal right now. Exactly one mode is active at a time.
type Mode int

const (
	// ModeNormal is the default play mode: walking the dungeon.
	ModeNormal Mode = iota
	// ModeNormalAmulet is normal play while carrying the amulet. It behaves
	// like ModeNormal but must survive enemy turns instead of collapsing
	// back to the default mode.
	ModeNormalAmulet
	// ModeTargeting is aiming a thrown item at a tile.
	ModeTargeting
	// ModeInventory is browsing the inventory screen.
	ModeInventory
	// ModeMenu is the main menu.
	ModeMenu
	// ModeConfront is the guardian confrontation screen.
	ModeConfront
	// ModeDead is shown after the player dies. It has no input handler;
	// keystrokes other than quit are deliberately ignored.
	ModeDead
	// ModeVictory is shown after escaping with the amulet.
	ModeVictory

	// modeCount is the number of modes; used for coverage validation.
	modeCount
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeNormalAmulet:
		return "normal_amulet"
	case ModeTargeting:
		return "targeting"
	case ModeInventory:
		return "inventory"
	case ModeMenu:
		return "menu"
	case ModeConfront:
		return "confront"
	case ModeDead:
		return "dead"
	case ModeVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// ID returns the stable identifier used in data files and save games.
// It is identical to String for every valid mode.
func (m Mode) ID() string {
	return m.String()
}

// Valid reports whether m is a defined mode value.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Parse resolves a mode identifier from a data file or save game.
func Parse(id string) (Mode, error) {
	for _, m := range All() {
		if m.ID() == id {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q", id)
}

// All returns every defined mode in declaration order.
func All() []Mode {
	all := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		all = append(all, m)
	}
	return all
}
