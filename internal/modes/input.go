package modes

import "context"

// Command is a single decoded input command. The game layer translates
// terminal events into commands before dispatch, so the orchestration core
// never sees tcell types.
type Command struct {
	// Key is the symbolic name of a special key ("up", "down", "left",
	// "right", "enter", "escape"). Empty for printable input.
	Key string
	// Rune is the printable character typed. Zero for special keys.
	Rune rune
}

// Outcome reports what a handler did with a command.
type Outcome struct {
	// TurnConsumed is true when the action should end the player's turn
	// and hand control to the enemy phase (subject to the active mode's
	// CausesPhaseTransition flag).
	TurnConsumed bool
	// Message is free-form text for the message line, empty for none.
	Message string
	// NextMode requests a mode switch as part of this action. Only
	// meaningful when SwitchMode is true.
	NextMode Mode
	// SwitchMode marks NextMode as set.
	SwitchMode bool
	// Quit requests game shutdown.
	Quit bool
}

// Handler interprets raw commands while its mode is active. The registry
// treats handlers as opaque references; only the dispatcher invokes them.
type Handler func(ctx context.Context, cmd Command) Outcome
