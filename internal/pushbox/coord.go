package pushbox

import "fmt"

// Coord is a cell position. X grows to the right and Y grows downward.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the sum of two coordinates.
func (c Coord) Add(other Coord) Coord {
	return Coord{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns the difference of two coordinates.
func (c Coord) Sub(other Coord) Coord {
	return Coord{X: c.X - other.X, Y: c.Y - other.Y}
}

// Scale multiplies both components by k.
func (c Coord) Scale(k int) Coord {
	return Coord{X: c.X * k, Y: c.Y * k}
}

// Step returns the neighbouring cell in direction d.
func (c Coord) Step(d Dir) Coord {
	return c.Add(d.Delta())
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Dir is one of the four axis directions.
type Dir uint8

const (
	North Dir = iota
	South
	West
	East
)

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case West:
		return "West"
	case East:
		return "East"
	default:
		return "Unknown"
	}
}

// Delta returns the one-cell offset for d. North decreases Y.
func (d Dir) Delta() Coord {
	switch d {
	case North:
		return Coord{0, -1}
	case South:
		return Coord{0, 1}
	case West:
		return Coord{-1, 0}
	case East:
		return Coord{1, 0}
	default:
		return Coord{}
	}
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	default:
		return d
	}
}

// ParseDir maps a direction name, its initial or an arrow word to a Dir.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "N", "n", "north", "North", "up":
		return North, true
	case "S", "s", "south", "South", "down":
		return South, true
	case "W", "w", "west", "West", "left":
		return West, true
	case "E", "e", "east", "East", "right":
		return East, true
	}
	return 0, false
}
