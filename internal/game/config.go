// Package game wires the orchestration core to the terminal, the world
// and the AI, and runs the main loop.
package game

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon
	// generation. A seed of 0 means a random seed will be generated.
	Seed int64
	// SavePath is where the session snapshot is written. Empty disables
	// saving.
	SavePath string
	// Resume restores the session from SavePath instead of starting
	// fresh.
	Resume bool
}
