package gamedata

// ModeDef is the declarative behavior record for one game mode, loaded
// from modes.json. It carries everything about a mode except its input
// handler, which is code and gets bound at startup by the game layer.
type ModeDef struct {
	ID                      string `json:"id"`                      // Stable identifier matching modes.Mode (e.g., "normal")
	Name                    string `json:"name"`                    // Display name for the HUD (e.g., "Exploring")
	AllowsMovement          bool   `json:"allowsMovement"`          // Walking the map is permitted
	AllowsItemPickup        bool   `json:"allowsItemPickup"`        // Picking items off the floor is permitted
	AllowsInventory         bool   `json:"allowsInventory"`         // Opening the inventory screen is permitted
	CausesPhaseTransition   bool   `json:"causesPhaseTransition"`   // A turn-consuming action hands off to the enemy phase
	PreserveAcrossEnemyTurn bool   `json:"preserveAcrossEnemyTurn"` // Restore this exact mode after the enemy phase
	AIActive                bool   `json:"aiActive"`                // Monsters act while this mode is current
}

// ModesFile represents the structure of modes.json.
type ModesFile struct {
	Modes []ModeDef `json:"modes"`
}

// LoadModes loads mode definitions from the embedded modes.json file.
func LoadModes() ([]ModeDef, error) {
	file, err := Load[ModesFile]("modes.json")
	if err != nil {
		return nil, err
	}
	return file.Modes, nil
}

// MustLoadModes loads mode definitions, panicking on error.
func MustLoadModes() []ModeDef {
	defs, err := LoadModes()
	if err != nil {
		panic(err)
	}
	return defs
}
