// Package save persists a game session to disk and restores it. Phase,
// turn counter and mode are stored as primitives and restored directly,
// with no derived recomputation on load.
package save

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/RafeHatfield/yarl-sub006/internal/entity"
	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/turn"
)

// PlayerState is the serializable subset of the player.
type PlayerState struct {
	X         int  `yaml:"x"`
	Y         int  `yaml:"y"`
	HP        int  `yaml:"hp"`
	MaxHP     int  `yaml:"maxHp"`
	Potions   int  `yaml:"potions"`
	HasAmulet bool `yaml:"hasAmulet"`
}

// Snapshot is one saved game session.
type Snapshot struct {
	SessionID string      `yaml:"sessionId"`
	Turn      int         `yaml:"turn"`
	Phase     string      `yaml:"phase"`
	Mode      string      `yaml:"mode"`
	Seed      int64       `yaml:"seed"`
	Player    PlayerState `yaml:"player"`
}

// NewSessionID returns a fresh identifier for a game session.
func NewSessionID() string {
	return uuid.NewString()
}

// Capture builds a snapshot from live session state.
func Capture(sessionID string, seed int64, machine *turn.Machine, controller *turn.Controller, player *entity.Player) Snapshot {
	potions := 0
	for _, item := range player.Inventory {
		if item.Kind == entity.ItemPotion {
			potions++
		}
	}
	return Snapshot{
		SessionID: sessionID,
		Turn:      machine.Turn(),
		Phase:     machine.Current().String(),
		Mode:      controller.CurrentMode().ID(),
		Seed:      seed,
		Player: PlayerState{
			X:         player.X,
			Y:         player.Y,
			HP:        player.HP,
			MaxHP:     player.MaxHP,
			Potions:   potions,
			HasAmulet: player.HasAmulet,
		},
	}
}

// Write stores a snapshot at path, creating parent directories as needed.
func Write(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create save directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// Read loads a snapshot from path.
func Read(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("failed to read save file: %w", err)
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse save file: %w", err)
	}
	return snap, nil
}

// Apply restores machine, controller and player from a snapshot. Unknown
// phase or mode strings fail before anything is mutated.
func Apply(snap Snapshot, machine *turn.Machine, controller *turn.Controller, player *entity.Player) error {
	phase, err := turn.ParsePhase(snap.Phase)
	if err != nil {
		return err
	}
	mode, err := modes.Parse(snap.Mode)
	if err != nil {
		return err
	}

	if err := machine.Restore(phase, snap.Turn); err != nil {
		return err
	}
	if err := controller.SetMode(mode); err != nil {
		return err
	}

	player.X = snap.Player.X
	player.Y = snap.Player.Y
	player.HP = snap.Player.HP
	player.MaxHP = snap.Player.MaxHP
	player.HasAmulet = snap.Player.HasAmulet
	player.Inventory = nil
	for i := 0; i < snap.Player.Potions; i++ {
		player.AddItem(entity.Item{Kind: entity.ItemPotion, Name: "Healing Potion"})
	}
	if snap.Player.HasAmulet {
		player.AddItem(entity.Item{Kind: entity.ItemAmulet, Name: "Amulet of Yendor"})
	}
	return nil
}
