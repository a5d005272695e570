package gamedata

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/RafeHatfield/yarl-sub006/internal/modes"
)

func TestLoadModesCoversEveryMode(t *testing.T) {
	defs, err := LoadModes()
	if err != nil {
		t.Fatalf("LoadModes() returned error: %v", err)
	}

	seen := make(map[modes.Mode]bool)
	for _, def := range defs {
		m, err := modes.Parse(def.ID)
		if err != nil {
			t.Errorf("modes.json contains unknown id %q: %v", def.ID, err)
			continue
		}
		if seen[m] {
			t.Errorf("modes.json defines %q twice", def.ID)
		}
		seen[m] = true

		if def.Name == "" {
			t.Errorf("mode %q has no display name", def.ID)
		}
	}

	for _, m := range modes.All() {
		if !seen[m] {
			t.Errorf("modes.json missing definition for %v", m)
		}
	}
}

func TestModeFlagsMatchPlayRules(t *testing.T) {
	defs, err := LoadModes()
	if err != nil {
		t.Fatalf("LoadModes() returned error: %v", err)
	}

	byID := make(map[string]ModeDef)
	for _, def := range defs {
		byID[def.ID] = def
	}

	// Only the amulet mode survives the enemy phase.
	for id, def := range byID {
		want := id == "normal_amulet"
		if def.PreserveAcrossEnemyTurn != want {
			t.Errorf("%s.preserveAcrossEnemyTurn = %v, want %v", id, def.PreserveAcrossEnemyTurn, want)
		}
	}

	// Overlay screens never hand the turn to the enemies.
	for _, id := range []string{"inventory", "menu", "confront", "dead", "victory"} {
		if byID[id].CausesPhaseTransition {
			t.Errorf("%s.causesPhaseTransition = true, want false", id)
		}
	}
	for _, id := range []string{"normal", "normal_amulet", "targeting"} {
		if !byID[id].CausesPhaseTransition {
			t.Errorf("%s.causesPhaseTransition = false, want true", id)
		}
	}
}

func TestLoadMonsterRegistry(t *testing.T) {
	registry, err := LoadMonsterRegistry()
	if err != nil {
		t.Fatalf("LoadMonsterRegistry() returned error: %v", err)
	}

	if registry.Count() == 0 {
		t.Fatal("registry has no monster types")
	}

	for _, def := range registry.All() {
		if def.ID == "" || def.Name == "" {
			t.Errorf("monster %+v missing id or name", def)
		}
		if def.HP <= 0 {
			t.Errorf("monster %s has HP %d, want > 0", def.ID, def.HP)
		}
		if def.SpawnWeight <= 0 {
			t.Errorf("monster %s has spawnWeight %d, want > 0", def.ID, def.SpawnWeight)
		}
		if _, err := ParseHexColor(def.Color); err != nil {
			t.Errorf("monster %s has bad color %q: %v", def.ID, def.Color, err)
		}
	}

	if registry.GetByID("rat") == nil {
		t.Error("GetByID(\"rat\") = nil, want a definition")
	}
	if registry.GetByID("no-such-monster") != nil {
		t.Error("GetByID of unknown id should return nil")
	}
}

func TestSpawnRandomIsDeterministicPerSeed(t *testing.T) {
	registry, err := LoadMonsterRegistry()
	if err != nil {
		t.Fatalf("LoadMonsterRegistry() returned error: %v", err)
	}

	first := rand.New(rand.NewSource(7))
	second := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		a := registry.SpawnRandom(first)
		b := registry.SpawnRandom(second)
		if a == nil || b == nil {
			t.Fatal("SpawnRandom returned nil with a populated registry")
		}
		if a.ID != b.ID {
			t.Fatalf("roll %d: same seed produced %s and %s", i, a.ID, b.ID)
		}
	}
}

func TestSpawnRandomEmptyRegistry(t *testing.T) {
	registry := NewMonsterRegistry(nil)
	if got := registry.SpawnRandom(rand.New(rand.NewSource(1))); got != nil {
		t.Errorf("SpawnRandom on empty registry = %v, want nil", got)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    tcell.Color
		wantErr bool
	}{
		{"#FF8800", tcell.NewRGBColor(255, 136, 0), false},
		{"FF8800", tcell.NewRGBColor(255, 136, 0), false},
		{"#000000", tcell.NewRGBColor(0, 0, 0), false},
		{"#ffffff", tcell.NewRGBColor(255, 255, 255), false},
		{"#FFF", 0, true},
		{"#GGGGGG", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHexColor(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHexColor(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
