package game

import (
	"context"

	"github.com/RafeHatfield/yarl-sub006/internal/combat"
	"github.com/RafeHatfield/yarl-sub006/internal/entity"
	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/world"
)

// bindHandlers attaches input handlers to the registry. ModeDead gets no
// handler on purpose: input while dead is silently ignored.
func (g *Game) bindHandlers() error {
	bindings := []struct {
		mode    modes.Mode
		handler modes.Handler
	}{
		{modes.ModeNormal, g.handleNormal},
		{modes.ModeNormalAmulet, g.handleNormal},
		{modes.ModeTargeting, g.handleTargeting},
		{modes.ModeInventory, g.handleInventory},
		{modes.ModeMenu, g.handleMenu},
		{modes.ModeConfront, g.handleConfront},
		{modes.ModeVictory, g.handleVictory},
	}
	for _, b := range bindings {
		if err := g.registry.Bind(b.mode, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// normalMode returns the play mode the player belongs in, which depends
// on whether they carry the amulet.
func (g *Game) normalMode() modes.Mode {
	if g.player.HasAmulet {
		return modes.ModeNormalAmulet
	}
	return modes.ModeNormal
}

// handleNormal interprets input for both normal play modes. The shared
// handler never checks which of the two is active; everything
// mode-specific comes from the registry's permission queries.
func (g *Game) handleNormal(ctx context.Context, cmd modes.Command) modes.Outcome {
	mode := g.controller.CurrentMode()

	if dx, dy, ok := moveDelta(cmd); ok {
		if !g.registry.AllowsMovement(mode) {
			return modes.Outcome{}
		}
		return g.tryMove(dx, dy)
	}

	switch {
	case cmd.Rune == 'g':
		if !g.registry.AllowsItemPickup(mode) {
			return modes.Outcome{}
		}
		return g.tryPickup()

	case cmd.Rune == 'i':
		if !g.registry.AllowsInventory(mode) {
			return modes.Outcome{}
		}
		g.invSel = 0
		return modes.Outcome{SwitchMode: true, NextMode: modes.ModeInventory}

	case cmd.Rune == 't':
		if !g.hasPotion() {
			return modes.Outcome{Message: "Nothing to throw."}
		}
		g.cursorX, g.cursorY = g.player.X, g.player.Y
		return modes.Outcome{SwitchMode: true, NextMode: modes.ModeTargeting}

	case cmd.Rune == '.':
		// Waiting consumes the turn.
		return modes.Outcome{TurnConsumed: true}

	case cmd.Key == "escape":
		return modes.Outcome{SwitchMode: true, NextMode: modes.ModeMenu}
	}

	return modes.Outcome{}
}

// tryMove walks, bump-attacks, or triggers the tile the player steps on.
func (g *Game) tryMove(dx, dy int) modes.Outcome {
	nx, ny := g.player.X+dx, g.player.Y+dy

	if monster := g.monsterAt(nx, ny); monster != nil {
		result := combat.Resolve(g.player, monster, g.rng)
		return modes.Outcome{TurnConsumed: true, Message: result.Message}
	}

	if !g.dungeon.IsPassable(nx, ny) {
		return modes.Outcome{}
	}
	g.player.Move(dx, dy)

	// Stepping into the amulet chamber for the first time interrupts play
	// with the confrontation screen.
	if !g.confronted && g.dungeon.RoomIndexAt(nx, ny) == g.dungeon.FarthestRoomIndex() {
		g.confronted = true
		return modes.Outcome{TurnConsumed: true, SwitchMode: true, NextMode: modes.ModeConfront}
	}

	// The stairs are the way out, but only with the amulet in hand.
	if g.dungeon.GetTile(nx, ny) == world.TileStairs {
		if g.player.HasAmulet {
			return modes.Outcome{TurnConsumed: true, SwitchMode: true, NextMode: modes.ModeVictory}
		}
		return modes.Outcome{TurnConsumed: true, Message: "The stairs lead out, but you came here for the Amulet."}
	}

	return modes.Outcome{TurnConsumed: true}
}

// tryPickup lifts whatever is on the player's tile.
func (g *Game) tryPickup() modes.Outcome {
	idx := g.floorItemAt(g.player.X, g.player.Y)
	if idx < 0 {
		return modes.Outcome{Message: "Nothing here to pick up."}
	}

	item := g.floorItems[idx].Item
	g.floorItems = append(g.floorItems[:idx], g.floorItems[idx+1:]...)
	g.player.AddItem(item)

	if item.Kind == entity.ItemAmulet {
		// Taking the amulet consumes the turn and switches into the
		// amulet variant of normal play, which survives enemy turns.
		return modes.Outcome{
			TurnConsumed: true,
			SwitchMode:   true,
			NextMode:     modes.ModeNormalAmulet,
			Message:      "You take the Amulet of Yendor! Now get out alive.",
		}
	}
	return modes.Outcome{TurnConsumed: true, Message: "You pick up the " + item.Name + "."}
}

// handleTargeting moves the crosshair and resolves a throw.
func (g *Game) handleTargeting(ctx context.Context, cmd modes.Command) modes.Outcome {
	if dx, dy, ok := moveDelta(cmd); ok {
		nx, ny := g.cursorX+dx, g.cursorY+dy
		if nx >= 0 && nx < g.dungeon.Width && ny >= 0 && ny < g.dungeon.Height {
			g.cursorX, g.cursorY = nx, ny
		}
		return modes.Outcome{}
	}

	switch {
	case cmd.Key == "escape":
		return modes.Outcome{SwitchMode: true, NextMode: g.normalMode()}

	case cmd.Key == "enter":
		return g.throwPotion()
	}

	return modes.Outcome{}
}

// throwPotion hurls a potion at the crosshair. Hit or miss, the throw
// consumes the turn and drops back into normal play.
func (g *Game) throwPotion() modes.Outcome {
	if !g.removePotion() {
		return modes.Outcome{SwitchMode: true, NextMode: g.normalMode(), Message: "You have nothing left to throw."}
	}

	outcome := modes.Outcome{TurnConsumed: true, SwitchMode: true, NextMode: g.normalMode()}
	if monster := g.monsterAt(g.cursorX, g.cursorY); monster != nil {
		dealt := monster.TakeDamage(6)
		if monster.IsAlive() {
			outcome.Message = "The potion shatters on the " + monster.Name + "! It takes " + itoa(dealt) + " damage."
		} else {
			outcome.Message = "The potion shatters and the " + monster.Name + " collapses!"
		}
	} else {
		outcome.Message = "The potion shatters harmlessly."
	}
	return outcome
}

// handleInventory browses the pack and quaffs potions. This mode never
// hands control to the enemy phase, even when using an item.
func (g *Game) handleInventory(ctx context.Context, cmd modes.Command) modes.Outcome {
	switch {
	case cmd.Key == "up":
		if g.invSel > 0 {
			g.invSel--
		}
		return modes.Outcome{}

	case cmd.Key == "down":
		if g.invSel < len(g.player.Inventory)-1 {
			g.invSel++
		}
		return modes.Outcome{}

	case cmd.Key == "enter" || cmd.Rune == 'u':
		return g.useInventoryItem()

	case cmd.Key == "escape" || cmd.Rune == 'i' || cmd.Rune == 'q':
		return modes.Outcome{SwitchMode: true, NextMode: g.normalMode()}
	}

	return modes.Outcome{}
}

// useInventoryItem quaffs the selected potion. The amulet cannot be used.
func (g *Game) useInventoryItem() modes.Outcome {
	if g.invSel < 0 || g.invSel >= len(g.player.Inventory) {
		return modes.Outcome{}
	}
	if g.player.Inventory[g.invSel].Kind != entity.ItemPotion {
		return modes.Outcome{Message: "You cannot use that."}
	}

	item, _ := g.player.RemoveItem(g.invSel)
	if g.invSel >= len(g.player.Inventory) && g.invSel > 0 {
		g.invSel--
	}

	healed := g.player.Heal(8)
	g.player.AddStatus(entity.Status{Type: entity.StatusRegen, RemainingTurns: 3, Power: 1})
	return modes.Outcome{
		TurnConsumed: true,
		Message:      "You quaff the " + item.Name + " and recover " + itoa(healed) + " HP.",
	}
}

// handleMenu runs the pause menu.
func (g *Game) handleMenu(ctx context.Context, cmd modes.Command) modes.Outcome {
	switch {
	case cmd.Key == "escape" || cmd.Key == "enter":
		return modes.Outcome{SwitchMode: true, NextMode: g.normalMode()}

	case cmd.Rune == 's':
		if err := g.saveSession(); err != nil {
			g.log.Error(err, "save failed")
			return modes.Outcome{Message: "Save failed."}
		}
		return modes.Outcome{Message: "Game saved."}

	case cmd.Rune == 'q':
		return modes.Outcome{Quit: true}
	}

	return modes.Outcome{}
}

// handleConfront dismisses the confrontation screen.
func (g *Game) handleConfront(ctx context.Context, cmd modes.Command) modes.Outcome {
	if cmd.Key == "enter" || cmd.Key == "escape" {
		return modes.Outcome{
			SwitchMode: true,
			NextMode:   g.normalMode(),
			Message:    "You step toward the plinth.",
		}
	}
	return modes.Outcome{}
}

// handleVictory ends the session from the victory screen.
func (g *Game) handleVictory(ctx context.Context, cmd modes.Command) modes.Outcome {
	if cmd.Key == "enter" || cmd.Key == "escape" || cmd.Rune == 'q' {
		return modes.Outcome{Quit: true}
	}
	return modes.Outcome{}
}

// hasPotion reports whether the player carries at least one potion.
func (g *Game) hasPotion() bool {
	for _, item := range g.player.Inventory {
		if item.Kind == entity.ItemPotion {
			return true
		}
	}
	return false
}

// removePotion drops one potion from the inventory, reporting success.
func (g *Game) removePotion() bool {
	for i, item := range g.player.Inventory {
		if item.Kind == entity.ItemPotion {
			g.player.RemoveItem(i)
			return true
		}
	}
	return false
}

// moveDelta maps movement commands (arrows or hjkl) to a step.
func moveDelta(cmd modes.Command) (dx, dy int, ok bool) {
	switch {
	case cmd.Key == "up" || cmd.Rune == 'k':
		return 0, -1, true
	case cmd.Key == "down" || cmd.Rune == 'j':
		return 0, 1, true
	case cmd.Key == "left" || cmd.Rune == 'h':
		return -1, 0, true
	case cmd.Key == "right" || cmd.Rune == 'l':
		return 1, 0, true
	}
	return 0, 0, false
}

// itoa is a simple int to string helper.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	if i < 0 {
		return "-" + itoa(-i)
	}
	digits := ""
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	return digits
}
