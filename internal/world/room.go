package world

// Room represents a rectangular room in the dungeon.
type Room struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the room
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// DistanceSq returns the squared distance between the centers of two rooms.
func (r Room) DistanceSq(other Room) int {
	x1, y1 := r.Center()
	x2, y2 := other.Center()
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
