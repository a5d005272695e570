package modes

import (
	"context"
	"errors"
	"testing"
)

func TestModeStringAndParse(t *testing.T) {
	for _, m := range All() {
		parsed, err := Parse(m.ID())
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", m.ID(), err)
		}
		if parsed != m {
			t.Errorf("Parse(%q) = %v, want %v", m.ID(), parsed, m)
		}
	}

	if Mode(99).String() != "unknown" {
		t.Errorf("Mode(99).String() = %q, want %q", Mode(99).String(), "unknown")
	}
	if _, err := Parse("not-a-mode"); err == nil {
		t.Error("Parse of unknown id should fail")
	}
}

func TestRegistryValidateRequiresFullCoverage(t *testing.T) {
	registry := NewRegistry(ModeNormal)

	// Register everything except the last mode.
	all := All()
	for _, m := range all[:len(all)-1] {
		if err := registry.Register(m, Descriptor{}); err != nil {
			t.Fatalf("Register(%v) failed: %v", m, err)
		}
	}

	err := registry.Validate()
	if err == nil {
		t.Fatal("Validate should fail with a missing descriptor")
	}
	if !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Validate error = %v, want ErrNoDescriptor", err)
	}

	// Completing coverage fixes it.
	if err := registry.Register(all[len(all)-1], Descriptor{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Validate(); err != nil {
		t.Errorf("Validate after full coverage = %v, want nil", err)
	}
}

func TestRegistryRejectsDuplicatesAndInvalidModes(t *testing.T) {
	registry := NewRegistry(ModeNormal)

	if err := registry.Register(ModeNormal, Descriptor{}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := registry.Register(ModeNormal, Descriptor{})
	if !errors.Is(err, ErrDuplicateDescriptor) {
		t.Errorf("duplicate Register error = %v, want ErrDuplicateDescriptor", err)
	}

	err = registry.Register(Mode(99), Descriptor{})
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("invalid Register error = %v, want ErrInvalidMode", err)
	}
}

func TestDescriptorLookupFailsForUnregisteredMode(t *testing.T) {
	registry := NewRegistry(ModeNormal)

	_, err := registry.Descriptor(ModeTargeting)
	if !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Descriptor error = %v, want ErrNoDescriptor", err)
	}
}

func TestProjectionQueries(t *testing.T) {
	registry := NewRegistry(ModeNormal)
	err := registry.Register(ModeNormal, Descriptor{
		AllowsMovement:        true,
		AllowsItemPickup:      true,
		AllowsInventory:       true,
		CausesPhaseTransition: true,
		AIActive:              true,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err = registry.Register(ModeNormalAmulet, Descriptor{
		CausesPhaseTransition:   true,
		PreserveAcrossEnemyTurn: true,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"AllowsMovement(normal)", registry.AllowsMovement(ModeNormal), true},
		{"AllowsItemPickup(normal)", registry.AllowsItemPickup(ModeNormal), true},
		{"AllowsInventory(normal)", registry.AllowsInventory(ModeNormal), true},
		{"CausesPhaseTransition(normal)", registry.CausesPhaseTransition(ModeNormal), true},
		{"ShouldPreserve(normal)", registry.ShouldPreserve(ModeNormal), false},
		{"ShouldPreserve(normal_amulet)", registry.ShouldPreserve(ModeNormalAmulet), true},
		{"AIActive(normal)", registry.AIActive(ModeNormal), true},
		{"AllowsMovement(normal_amulet)", registry.AllowsMovement(ModeNormalAmulet), false},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestBindAttachesHandler(t *testing.T) {
	registry := NewRegistry(ModeNormal)
	if err := registry.Register(ModeNormal, Descriptor{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if h := registry.InputHandler(ModeNormal); h != nil {
		t.Error("InputHandler before Bind should be nil")
	}

	called := false
	err := registry.Bind(ModeNormal, func(ctx context.Context, cmd Command) Outcome {
		called = true
		return Outcome{TurnConsumed: true}
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	h := registry.InputHandler(ModeNormal)
	if h == nil {
		t.Fatal("InputHandler after Bind should not be nil")
	}
	out := h(context.Background(), Command{Rune: 'x'})
	if !called || !out.TurnConsumed {
		t.Errorf("bound handler: called=%v outcome=%+v", called, out)
	}

	// Binding to an unregistered mode is a configuration defect.
	if err := registry.Bind(ModeTargeting, nil); !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Bind to unregistered mode error = %v, want ErrNoDescriptor", err)
	}
}
