package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RafeHatfield/yarl-sub006/internal/ai"
	"github.com/RafeHatfield/yarl-sub006/internal/dispatch"
	"github.com/RafeHatfield/yarl-sub006/internal/entity"
	"github.com/RafeHatfield/yarl-sub006/internal/gamedata"
	"github.com/RafeHatfield/yarl-sub006/internal/modes"
	"github.com/RafeHatfield/yarl-sub006/internal/save"
	"github.com/RafeHatfield/yarl-sub006/internal/telemetry"
	"github.com/RafeHatfield/yarl-sub006/internal/turn"
	"github.com/RafeHatfield/yarl-sub006/internal/ui"
	"github.com/RafeHatfield/yarl-sub006/internal/world"
)

// floorItem is an item lying on the dungeon floor.
type floorItem struct {
	X, Y int
	Item entity.Item
}

// Game holds one session: the orchestration core plus the collaborators
// it schedules. All state is owned here and threaded through the
// components explicitly; there are no package-level globals, so multiple
// sessions and deterministic tests are both straightforward.
type Game struct {
	cfg       Config
	log       logr.Logger
	sessionID string
	seed      int64
	rng       *rand.Rand

	screen   *ui.Screen
	renderer *ui.Renderer

	registry   *modes.Registry
	machine    *turn.Machine
	controller *turn.Controller
	dispatcher *dispatch.Dispatcher
	processor  *ai.Processor

	dungeon    *world.Dungeon
	player     *entity.Player
	monsters   []*entity.Monster
	floorItems []floorItem

	modeNames  map[modes.Mode]string
	message    string
	cursorX    int
	cursorY    int
	invSel     int
	confronted bool
	running    bool
}

// New creates a game session. Mode configuration is validated before the
// terminal is touched: a mode without a descriptor is fatal here, never
// mid-session.
func New(cfg Config, log logr.Logger) (*Game, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sessionID := save.NewSessionID()

	var snap save.Snapshot
	if cfg.Resume {
		loaded, err := save.Read(cfg.SavePath)
		if err != nil {
			return nil, fmt.Errorf("cannot resume: %w", err)
		}
		snap = loaded
		seed = snap.Seed
		sessionID = snap.SessionID
	}

	g := &Game{
		cfg:       cfg,
		log:       log,
		sessionID: sessionID,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		running:   true,
	}

	registry, names, err := buildRegistry()
	if err != nil {
		return nil, fmt.Errorf("cannot start: invalid mode configuration: %w", err)
	}
	g.registry = registry
	g.modeNames = names

	g.machine = turn.NewMachine(log)
	g.controller = turn.NewController(registry, g.machine, log)
	g.dispatcher = dispatch.New(registry, g.controller, log)

	if err := g.bindHandlers(); err != nil {
		return nil, fmt.Errorf("cannot start: invalid mode configuration: %w", err)
	}

	if err := g.populate(context.Background()); err != nil {
		return nil, err
	}

	g.processor = ai.NewProcessor(g.machine, g.controller, registry,
		g.dungeon, g.player, g.rng, log)

	if cfg.Resume {
		if err := save.Apply(snap, g.machine, g.controller, g.player); err != nil {
			return nil, fmt.Errorf("cannot resume: %w", err)
		}
		if g.player.HasAmulet {
			g.removeFloorItem(entity.ItemAmulet)
			g.confronted = true
		}
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g.screen = screen
	g.renderer = ui.NewRenderer(screen)

	return g, nil
}

// buildRegistry loads the declarative mode table from embedded data and
// validates that every mode in the enum is covered.
func buildRegistry() (*modes.Registry, map[modes.Mode]string, error) {
	defs, err := gamedata.LoadModes()
	if err != nil {
		return nil, nil, err
	}

	registry := modes.NewRegistry(modes.ModeNormal)
	names := make(map[modes.Mode]string, len(defs))

	for _, def := range defs {
		m, err := modes.Parse(def.ID)
		if err != nil {
			return nil, nil, err
		}
		names[m] = def.Name
		err = registry.Register(m, modes.Descriptor{
			AllowsMovement:          def.AllowsMovement,
			AllowsItemPickup:        def.AllowsItemPickup,
			AllowsInventory:         def.AllowsInventory,
			CausesPhaseTransition:   def.CausesPhaseTransition,
			PreserveAcrossEnemyTurn: def.PreserveAcrossEnemyTurn,
			AIActive:                def.AIActive,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, nil, err
	}
	return registry, names, nil
}

// populate generates the dungeon and places the player, amulet, potions
// and monsters.
func (g *Game) populate(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	g.dungeon = world.NewDungeon(world.DefaultWidth, world.DefaultHeight, g.rng)
	g.dungeon.Generate(ctx)

	start := g.dungeon.StartRoom()
	sx, sy := start.Center()
	g.player = entity.NewPlayer(sx, sy-1)

	amuletRoom := g.dungeon.FarthestRoomIndex()
	if amuletRoom >= 0 {
		ax, ay := g.dungeon.Rooms[amuletRoom].Center()
		g.floorItems = append(g.floorItems, floorItem{
			X: ax, Y: ay,
			Item: entity.Item{Kind: entity.ItemAmulet, Name: "Amulet of Yendor"},
		})
	}

	monsterRegistry, err := gamedata.LoadMonsterRegistry()
	if err != nil {
		return err
	}

	potions := 0
	for i := 1; i < len(g.dungeon.Rooms); i++ {
		if g.rng.Intn(100) < 60 {
			mx, my := g.dungeon.RandomPointInRoom(i)
			if def := monsterRegistry.SpawnRandom(g.rng); def != nil {
				g.monsters = append(g.monsters, entity.NewMonster(def, mx, my, i))
			}
		}
		if potions < 3 && g.rng.Intn(100) < 40 {
			px, py := g.dungeon.RandomPointInRoom(i)
			g.floorItems = append(g.floorItems, floorItem{
				X: px, Y: py,
				Item: entity.Item{Kind: entity.ItemPotion, Name: "Healing Potion"},
			})
			potions++
		}
	}

	span.SetAttributes(
		attribute.String("session.id", g.sessionID),
		attribute.Int64("seed", g.seed),
		attribute.Int("dungeon.rooms", len(g.dungeon.Rooms)),
		attribute.Int("monsters", len(g.monsters)),
	)
	return nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	for g.running {
		g.render()
		g.handleInput(ctx)

		// The dispatcher may have handed control to the enemy phase; the
		// AI collaborator drives it (and the environment phase) to
		// completion synchronously before the next render.
		if g.machine.Is(turn.PhaseEnemy) {
			msgs := g.processor.Run(ctx, g.monsters)
			if len(msgs) > 0 {
				g.message = msgs[len(msgs)-1]
			}
			g.reapMonsters()
		}
	}

	g.screen.Close()
	return nil
}

// handleInput processes a single terminal event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			g.running = false
			return
		}
		cmd, ok := decodeKey(ev)
		if !ok {
			return
		}
		outcome := g.dispatcher.Dispatch(ctx, cmd)
		if outcome.Message != "" {
			g.message = outcome.Message
		}
		if outcome.Quit {
			g.running = false
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// decodeKey translates a tcell key event into a mode-agnostic command.
func decodeKey(ev *tcell.EventKey) (modes.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return modes.Command{Key: "up"}, true
	case tcell.KeyDown:
		return modes.Command{Key: "down"}, true
	case tcell.KeyLeft:
		return modes.Command{Key: "left"}, true
	case tcell.KeyRight:
		return modes.Command{Key: "right"}, true
	case tcell.KeyEnter:
		return modes.Command{Key: "enter"}, true
	case tcell.KeyEscape:
		return modes.Command{Key: "escape"}, true
	case tcell.KeyRune:
		return modes.Command{Rune: ev.Rune()}, true
	default:
		return modes.Command{}, false
	}
}

// render draws the screen for the current mode.
func (g *Game) render() {
	mode := g.controller.CurrentMode()

	switch mode {
	case modes.ModeInventory:
		g.renderer.RenderPanel("Inventory", g.inventoryLines())
	case modes.ModeMenu:
		g.renderer.RenderPanel("Menu", []string{
			"escape - return to the dungeon",
			"s      - save game",
			"q      - quit",
		})
	case modes.ModeConfront:
		g.renderer.RenderPanel("The Amulet Chamber", []string{
			"A hush falls over the chamber.",
			"The Amulet of Yendor rests on a stone plinth.",
			"",
			"Press enter to approach.",
		})
	case modes.ModeDead:
		g.renderer.RenderPanel("You Died", []string{
			fmt.Sprintf("You survived %d turns.", g.machine.Turn()),
			"",
			"Press ctrl-c to exit.",
		})
	case modes.ModeVictory:
		g.renderer.RenderPanel("Victory", []string{
			fmt.Sprintf("You escaped with the Amulet in %d turns!", g.machine.Turn()),
			"",
			"Press enter to exit.",
		})
	default:
		var cursor *ui.Cursor
		if mode == modes.ModeTargeting {
			cursor = &ui.Cursor{X: g.cursorX, Y: g.cursorY}
		}
		g.renderer.RenderWorld(g.dungeon, g.floorItemsForDraw(), g.monsters, g.player,
			ui.HUD{
				Turn:     g.machine.Turn(),
				ModeName: g.modeNames[mode],
				HP:       g.player.HP,
				MaxHP:    g.player.MaxHP,
				Message:  g.message,
			}, cursor)
	}
}

// inventoryLines formats the inventory screen.
func (g *Game) inventoryLines() []string {
	if len(g.player.Inventory) == 0 {
		return []string{"(empty)", "", "escape - close"}
	}
	lines := make([]string, 0, len(g.player.Inventory)+2)
	for i, item := range g.player.Inventory {
		marker := "  "
		if i == g.invSel {
			marker = "> "
		}
		lines = append(lines, marker+item.Name)
	}
	lines = append(lines, "", "enter - use   escape - close")
	return lines
}

// floorItemsForDraw converts floor items into renderer form.
func (g *Game) floorItemsForDraw() []ui.FloorItem {
	out := make([]ui.FloorItem, 0, len(g.floorItems))
	for _, fi := range g.floorItems {
		glyph := '!'
		if fi.Item.Kind == entity.ItemAmulet {
			glyph = '"'
		}
		out = append(out, ui.FloorItem{X: fi.X, Y: fi.Y, Glyph: glyph})
	}
	return out
}

// monsterAt returns the living monster on the given tile, or nil.
func (g *Game) monsterAt(x, y int) *entity.Monster {
	for _, m := range g.monsters {
		if m.IsAlive() && m.X == x && m.Y == y {
			return m
		}
	}
	return nil
}

// floorItemAt returns the index of the item on the given tile, or -1.
func (g *Game) floorItemAt(x, y int) int {
	for i, fi := range g.floorItems {
		if fi.X == x && fi.Y == y {
			return i
		}
	}
	return -1
}

// removeFloorItem drops the first floor item of the given kind.
func (g *Game) removeFloorItem(kind entity.ItemKind) {
	for i, fi := range g.floorItems {
		if fi.Item.Kind == kind {
			g.floorItems = append(g.floorItems[:i], g.floorItems[i+1:]...)
			return
		}
	}
}

// reapMonsters removes dead monsters from the session.
func (g *Game) reapMonsters() {
	alive := g.monsters[:0]
	for _, m := range g.monsters {
		if m.IsAlive() {
			alive = append(alive, m)
		}
	}
	g.monsters = alive
}

// saveSession writes the current session snapshot.
func (g *Game) saveSession() error {
	if g.cfg.SavePath == "" {
		return fmt.Errorf("no save path configured")
	}
	snap := save.Capture(g.sessionID, g.seed, g.machine, g.controller, g.player)
	return save.Write(g.cfg.SavePath, snap)
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
