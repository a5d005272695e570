package turn

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhasePlayer, "player"},
		{PhaseEnemy, "enemy"},
		{PhaseEnvironment, "environment"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.phase.String()
		if got != tt.expected {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.expected)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for _, p := range []Phase{PhasePlayer, PhaseEnemy, PhaseEnvironment} {
		got, err := ParsePhase(p.String())
		if err != nil {
			t.Errorf("ParsePhase(%q) returned error: %v", p.String(), err)
		}
		if got != p {
			t.Errorf("ParsePhase(%q) = %v, want %v", p.String(), got, p)
		}
	}

	if _, err := ParsePhase("bogus"); err == nil {
		t.Error("ParsePhase(\"bogus\") should return an error")
	}
}

func TestAdvanceCycle(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	if m.Current() != PhasePlayer {
		t.Fatalf("initial phase = %v, want PhasePlayer", m.Current())
	}

	// Three full cycles must observe exactly the repeating pattern.
	want := []Phase{PhaseEnemy, PhaseEnvironment, PhasePlayer}
	for cycle := 0; cycle < 3; cycle++ {
		for i, expected := range want {
			got := m.Advance(ctx)
			if got != expected {
				t.Fatalf("cycle %d step %d: Advance() = %v, want %v", cycle, i, got, expected)
			}
			if m.Current() != expected {
				t.Fatalf("cycle %d step %d: Current() = %v, want %v", cycle, i, m.Current(), expected)
			}
		}
	}
}

func TestTurnCounterIncrementsOnlyOnPlayerEdge(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	if m.Turn() != 0 {
		t.Fatalf("initial Turn() = %d, want 0", m.Turn())
	}

	m.Advance(ctx) // PLAYER -> ENEMY
	if m.Turn() != 0 {
		t.Errorf("Turn() after PLAYER->ENEMY = %d, want 0", m.Turn())
	}

	m.Advance(ctx) // ENEMY -> ENVIRONMENT
	if m.Turn() != 0 {
		t.Errorf("Turn() after ENEMY->ENVIRONMENT = %d, want 0", m.Turn())
	}

	m.Advance(ctx) // ENVIRONMENT -> PLAYER
	if m.Turn() != 1 {
		t.Errorf("Turn() after ENVIRONMENT->PLAYER = %d, want 1", m.Turn())
	}

	// N full cycles add exactly N.
	for i := 0; i < 15; i++ {
		m.Advance(ctx)
	}
	if m.Turn() != 6 {
		t.Errorf("Turn() after 18 advances = %d, want 6", m.Turn())
	}
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	var order []string
	m.RegisterListener(PhaseEnemy, "first", func(ctx context.Context) {
		order = append(order, "first")
	})
	m.RegisterListener(PhaseEnemy, "second", func(ctx context.Context) {
		order = append(order, "second")
	})
	m.RegisterListener(PhasePlayer, "other-phase", func(ctx context.Context) {
		order = append(order, "other-phase")
	})

	m.Advance(ctx) // -> ENEMY

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("listener order = %v, want [first second]", order)
	}
}

func TestListenerPanicIsolation(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	var ran []string
	m.RegisterListener(PhaseEnemy, "one", func(ctx context.Context) {
		ran = append(ran, "one")
	})
	m.RegisterListener(PhaseEnemy, "two", func(ctx context.Context) {
		panic("listener failure")
	})
	m.RegisterListener(PhaseEnemy, "three", func(ctx context.Context) {
		ran = append(ran, "three")
	})

	got := m.Advance(ctx)

	if got != PhaseEnemy {
		t.Errorf("Advance() = %v, want PhaseEnemy despite listener panic", got)
	}
	if len(ran) != 2 || ran[0] != "one" || ran[1] != "three" {
		t.Errorf("listeners run = %v, want [one three]", ran)
	}
}

func TestReentrantAdvanceIgnored(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	var nested Phase
	m.RegisterListener(PhaseEnemy, "reentrant", func(ctx context.Context) {
		nested = m.Advance(ctx)
	})

	got := m.Advance(ctx)

	if got != PhaseEnemy {
		t.Errorf("outer Advance() = %v, want PhaseEnemy", got)
	}
	if nested != PhaseEnemy {
		t.Errorf("nested Advance() = %v, want PhaseEnemy (unchanged)", nested)
	}
	if m.Current() != PhaseEnemy {
		t.Errorf("Current() = %v, want PhaseEnemy after re-entrant call", m.Current())
	}
	if m.Turn() != 0 {
		t.Errorf("Turn() = %d, want 0 (re-entrant call must not advance)", m.Turn())
	}
}

func TestHistory(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	m.Advance(ctx) // PLAYER -> ENEMY
	m.Advance(ctx) // ENEMY -> ENVIRONMENT
	m.Advance(ctx) // ENVIRONMENT -> PLAYER, turn 1

	history := m.History(2)
	if len(history) != 2 {
		t.Fatalf("History(2) length = %d, want 2", len(history))
	}
	last := history[1]
	if last.From != PhaseEnvironment || last.To != PhasePlayer || last.Turn != 1 {
		t.Errorf("last transition = %+v, want {Turn:1 From:environment To:player}", last)
	}

	// Asking for more than recorded returns what exists.
	if got := len(m.History(100)); got != 3 {
		t.Errorf("History(100) length = %d, want 3", got)
	}
	if m.History(0) != nil {
		t.Error("History(0) should be nil")
	}
}

func TestHistoryBounded(t *testing.T) {
	m := NewMachine(logr.Discard())
	ctx := context.Background()

	for i := 0; i < historyWindow*3; i++ {
		m.Advance(ctx)
	}

	history := m.History(historyWindow * 3)
	if len(history) != historyWindow {
		t.Errorf("retained history = %d entries, want %d", len(history), historyWindow)
	}

	// Most recent transition must be last.
	last := history[len(history)-1]
	if last.To != m.Current() {
		t.Errorf("last history entry To = %v, want current phase %v", last.To, m.Current())
	}
}

func TestRestore(t *testing.T) {
	m := NewMachine(logr.Discard())

	if err := m.Restore(PhaseEnemy, 42); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if m.Current() != PhaseEnemy {
		t.Errorf("Current() after restore = %v, want PhaseEnemy", m.Current())
	}
	if m.Turn() != 42 {
		t.Errorf("Turn() after restore = %d, want 42", m.Turn())
	}

	if err := m.Restore(Phase(7), 1); err == nil {
		t.Error("Restore with invalid phase should fail")
	}
	if err := m.Restore(PhasePlayer, -1); err == nil {
		t.Error("Restore with negative turn should fail")
	}
}
