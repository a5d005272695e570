package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/RafeHatfield/yarl-sub006/internal/entity"
	"github.com/RafeHatfield/yarl-sub006/internal/world"
)

// FloorItem is an item lying on the map, ready to draw.
type FloorItem struct {
	X, Y  int
	Glyph rune
	Color tcell.Color
}

// HUD carries the status information drawn under the map.
type HUD struct {
	Turn     int
	ModeName string
	HP       int
	MaxHP    int
	Message  string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderWorld draws the dungeon, floor items, monsters, player and HUD.
func (r *Renderer) RenderWorld(dungeon *world.Dungeon, items []FloorItem,
	monsters []*entity.Monster, player *entity.Player, hud HUD, cursor *Cursor) {

	r.screen.Clear()

	for y := 0; y < dungeon.Height; y++ {
		for x := 0; x < dungeon.Width; x++ {
			tile := dungeon.GetTile(x, y)
			r.screen.SetContent(x, y, tile.Rune(), r.tileStyle(tile))
		}
	}

	itemStyle := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for _, item := range items {
		style := itemStyle
		if item.Color != tcell.ColorDefault {
			style = tcell.StyleDefault.Foreground(item.Color)
		}
		r.screen.SetContent(item.X, item.Y, item.Glyph, style)
	}

	for _, m := range monsters {
		if m.IsAlive() {
			r.screen.SetContent(m.X, m.Y, m.Symbol, tcell.StyleDefault.Foreground(m.Color()))
		}
	}

	playerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	r.screen.SetContent(player.X, player.Y, '@', playerStyle)

	if cursor != nil {
		cursorStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		r.screen.SetContent(cursor.X, cursor.Y, 'X', cursorStyle)
	}

	r.drawHUD(dungeon.Height, hud)
	r.screen.Show()
}

// Cursor is the targeting crosshair position, drawn over the map.
type Cursor struct {
	X, Y int
}

// drawHUD writes the status bar and message line below the map.
func (r *Renderer) drawHUD(mapHeight int, hud HUD) {
	status := fmt.Sprintf("HP %d/%d  Turn %d  [%s]", hud.HP, hud.MaxHP, hud.Turn, hud.ModeName)
	r.drawText(0, mapHeight, status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	if hud.Message != "" {
		r.drawText(0, mapHeight+1, hud.Message, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
}

// RenderPanel draws a full-screen text panel (inventory, menu, endings).
func (r *Renderer) RenderPanel(title string, lines []string) {
	r.screen.Clear()
	r.drawText(2, 1, title, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	for i, line := range lines {
		r.drawText(2, 3+i, line, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
	r.screen.Show()
}

// drawText writes a string starting at the given cell.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		r.screen.SetContent(x+i, y, ch, style)
	}
}

// tileStyle returns the appropriate style for a tile type.
func (r *Renderer) tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	default:
		return tcell.StyleDefault
	}
}
