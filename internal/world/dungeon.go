package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/RafeHatfield/yarl-sub006/internal/telemetry"
)

const (
	// Default dungeon dimensions
	DefaultWidth  = 80
	DefaultHeight = 22

	// BSP parameters
	minRoomSize = 5  // Minimum room dimension
	maxRoomSize = 12 // Maximum room dimension
	minLeafSize = 8  // Minimum BSP leaf size before stopping split
)

// Dungeon represents the game map. Generation is deterministic for a
// given rng seed.
type Dungeon struct {
	Width  int
	Height int
	Tiles  [][]Tile
	Rooms  []Room
	rng    *rand.Rand
}

// NewDungeon creates a new dungeon filled with walls. The rng drives all
// generation decisions; pass a seeded source for reproducible maps.
func NewDungeon(width, height int, rng *rand.Rand) *Dungeon {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}

	return &Dungeon{
		Width:  width,
		Height: height,
		Tiles:  tiles,
		rng:    rng,
	}
}

// Generate creates the dungeon layout using BSP splitting, then places
// the exit stairs in the starting room.
func (d *Dungeon) Generate(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	root := &bspNode{x: 1, y: 1, width: d.Width - 2, height: d.Height - 2}
	d.split(root)
	d.placeRooms(root)
	d.connect(root)

	if len(d.Rooms) > 0 {
		sx, sy := d.Rooms[0].Center()
		d.Tiles[sy][sx] = TileStairs
	}

	span.SetAttributes(
		attribute.Int("dungeon.width", d.Width),
		attribute.Int("dungeon.height", d.Height),
		attribute.Int("dungeon.room_count", len(d.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// IsPassable returns true if the given position can be walked on.
func (d *Dungeon) IsPassable(x, y int) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	return d.Tiles[y][x].IsPassable()
}

// GetTile returns the tile at the given position.
func (d *Dungeon) GetTile(x, y int) Tile {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return TileWall
	}
	return d.Tiles[y][x]
}

// RoomIndexAt returns the index of the room containing the position, or
// -1 if not in a room.
func (d *Dungeon) RoomIndexAt(x, y int) int {
	for i, room := range d.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// StartRoom returns the room the player starts in. The exit stairs sit
// at its center, so escaping means coming back here with the amulet.
func (d *Dungeon) StartRoom() Room {
	if len(d.Rooms) == 0 {
		return Room{X: d.Width / 2, Y: d.Height / 2, Width: 1, Height: 1}
	}
	return d.Rooms[0]
}

// FarthestRoomIndex returns the index of the room whose center is
// farthest from the start room. The amulet goes there.
func (d *Dungeon) FarthestRoomIndex() int {
	if len(d.Rooms) == 0 {
		return -1
	}
	start := d.Rooms[0]
	best, bestDist := 0, -1
	for i, room := range d.Rooms {
		if dist := start.DistanceSq(room); dist > bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// RandomPointInRoom returns a random passable point within the specified
// room, falling back to the room center.
func (d *Dungeon) RandomPointInRoom(roomIndex int) (int, int) {
	if roomIndex < 0 || roomIndex >= len(d.Rooms) {
		return -1, -1
	}
	room := d.Rooms[roomIndex]

	for i := 0; i < 100; i++ {
		x := room.X + d.rng.Intn(room.Width)
		y := room.Y + d.rng.Intn(room.Height)
		if d.IsPassable(x, y) {
			return x, y
		}
	}
	return room.Center()
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// split recursively divides a BSP node until leaves are too small to
// split further.
func (d *Dungeon) split(node *bspNode) {
	canVertical := node.width >= minLeafSize*2
	canHorizontal := node.height >= minLeafSize*2
	if !canVertical && !canHorizontal {
		return
	}

	// Prefer cutting across the longer axis so rooms stay roughly square.
	vertical := canVertical
	if canVertical && canHorizontal {
		vertical = node.width > node.height
	}

	if vertical {
		pos := minLeafSize + d.rng.Intn(node.width-minLeafSize*2+1)
		node.left = &bspNode{x: node.x, y: node.y, width: pos, height: node.height}
		node.right = &bspNode{x: node.x + pos, y: node.y, width: node.width - pos, height: node.height}
	} else {
		pos := minLeafSize + d.rng.Intn(node.height-minLeafSize*2+1)
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: pos}
		node.right = &bspNode{x: node.x, y: node.y + pos, width: node.width, height: node.height - pos}
	}

	d.split(node.left)
	d.split(node.right)
}

// placeRooms carves one room inside each BSP leaf.
func (d *Dungeon) placeRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		d.placeRooms(node.left)
		d.placeRooms(node.right)
		return
	}

	maxW := min(maxRoomSize, node.width-2)
	maxH := min(maxRoomSize, node.height-2)
	if maxW < minRoomSize || maxH < minRoomSize {
		return
	}

	w := minRoomSize + d.rng.Intn(maxW-minRoomSize+1)
	h := minRoomSize + d.rng.Intn(maxH-minRoomSize+1)
	x := node.x + 1 + d.rng.Intn(node.width-w-1)
	y := node.y + 1 + d.rng.Intn(node.height-h-1)

	room := Room{X: x, Y: y, Width: w, Height: h}
	node.room = &room
	d.Rooms = append(d.Rooms, room)

	for ty := room.Y; ty < room.Y+room.Height; ty++ {
		for tx := room.X; tx < room.X+room.Width; tx++ {
			d.carve(tx, ty)
		}
	}
}

// connect joins the rooms of each pair of sibling subtrees with an
// L-shaped corridor.
func (d *Dungeon) connect(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}

	d.connect(node.left)
	d.connect(node.right)

	a := anyRoom(node.left)
	b := anyRoom(node.right)
	if a == nil || b == nil {
		return
	}

	x1, y1 := a.Center()
	x2, y2 := b.Center()
	if d.rng.Intn(2) == 0 {
		d.tunnelH(x1, x2, y1)
		d.tunnelV(y1, y2, x2)
	} else {
		d.tunnelV(y1, y2, x1)
		d.tunnelH(x1, x2, y2)
	}
}

// anyRoom returns some room from a subtree.
func anyRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := anyRoom(node.left); room != nil {
		return room
	}
	return anyRoom(node.right)
}

// carve sets a tile to floor, respecting the outer wall border.
func (d *Dungeon) carve(x, y int) {
	if x > 0 && x < d.Width-1 && y > 0 && y < d.Height-1 {
		d.Tiles[y][x] = TileFloor
	}
}

func (d *Dungeon) tunnelH(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		d.carve(x, y)
	}
}

func (d *Dungeon) tunnelV(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		d.carve(x, y)
	}
}
