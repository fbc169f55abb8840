package pushbox

import (
	"fmt"
	"strings"
)

// Tile is the static content of a room cell.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileTarget
)

// entityLayer selects the Zobrist bitstring plane.
type entityLayer int

const (
	layerPlayer entityLayer = iota
	layerBox
)

// Box is a box and the cell it started from.
type Box struct {
	Pos    Coord
	Origin Coord
	Moves  int
}

// Displacement returns the Manhattan distance from the starting cell.
func (b Box) Displacement() int {
	return b.Pos.Manhattan(b.Origin)
}

// Action moves the player by Dir and, when Pull is set, drags the box that
// was on the opposite side of the player into the player's old cell.
type Action struct {
	Dir  Coord
	Pull bool
}

// Room is one search state: a shared topology plus player and boxes.
// Rooms derived from each other share topology and Zobrist bitstrings;
// Clone copies only the mutable entity state.
type Room struct {
	width, height   int
	topology        []Tile
	zobrist         []uint64
	hash            uint64
	player          Coord
	boxes           []Box
	numActions      int
	lastBoxIndex    int
	movedBoxChanges int
	score           float64
}

// NewRoom returns an empty room with the player at the origin. zobrist must
// hold width*height*2 bitstrings.
func NewRoom(width, height int, topology []Tile, zobrist []uint64) *Room {
	if len(topology) != width*height || len(zobrist) != width*height*2 {
		panic(fmt.Sprintf("pushbox: room %dx%d with %d tiles and %d bitstrings", width, height, len(topology), len(zobrist)))
	}
	return &Room{
		width:        width,
		height:       height,
		topology:     topology,
		zobrist:      zobrist,
		hash:         zobrist[0],
		lastBoxIndex: -1,
	}
}

// Clone returns an independent copy of the room entities.
func (r *Room) Clone() *Room {
	c := *r
	c.boxes = append([]Box(nil), r.boxes...)
	return &c
}

// Width returns the room width in cells.
func (r *Room) Width() int { return r.width }

// Height returns the room height in cells.
func (r *Room) Height() int { return r.height }

// Hash returns the Zobrist hash of the player and box positions.
func (r *Room) Hash() uint64 { return r.hash }

// Player returns the player position.
func (r *Room) Player() Coord { return r.player }

// Boxes returns the boxes. The slice must not be modified.
func (r *Room) Boxes() []Box { return r.boxes }

// NumActions returns how many actions led to this room.
func (r *Room) NumActions() int { return r.numActions }

// MovedBoxChanges counts how often consecutive pulls switched boxes.
func (r *Room) MovedBoxChanges() int { return r.movedBoxChanges }

// Score returns the value stored by the last ComputeScore.
func (r *Room) Score() float64 { return r.score }

func (r *Room) index(c Coord) int {
	return c.X + c.Y*r.width
}

// TileAt returns the static tile at c.
func (r *Room) TileAt(c Coord) Tile {
	return r.topology[r.index(c)]
}

// IsWall reports whether c is a wall.
func (r *Room) IsWall(c Coord) bool { return r.TileAt(c) == TileWall }

// IsFloor reports whether c is plain floor. Targets are not floor.
func (r *Room) IsFloor(c Coord) bool { return r.TileAt(c) == TileFloor }

// IsTarget reports whether c is a target.
func (r *Room) IsTarget(c Coord) bool { return r.TileAt(c) == TileTarget }

// ContainsPlayer reports whether the player stands on c.
func (r *Room) ContainsPlayer(c Coord) bool { return r.player == c }

// ContainsBox reports whether a box stands on c.
func (r *Room) ContainsBox(c Coord) bool {
	for _, b := range r.boxes {
		if b.Pos == c {
			return true
		}
	}
	return false
}

// IsEmpty reports whether neither the player nor a box is on c.
func (r *Room) IsEmpty(c Coord) bool {
	return !r.ContainsPlayer(c) && !r.ContainsBox(c)
}

func (r *Room) toggle(c Coord, layer entityLayer) {
	r.hash ^= r.zobrist[r.index(c)+int(layer)*r.width*r.height]
}

// SetPlayer moves the player to c.
func (r *Room) SetPlayer(c Coord) {
	r.toggle(r.player, layerPlayer)
	r.toggle(c, layerPlayer)
	r.player = c
}

// AddBox places a new box on c.
func (r *Room) AddBox(c Coord) {
	r.toggle(c, layerBox)
	r.boxes = append(r.boxes, Box{Pos: c, Origin: c})
}

// ApplyAction moves the player and pulls a box when asked.
func (r *Room) ApplyAction(a Action) {
	from := r.player
	r.SetPlayer(from.Add(a.Dir))
	if a.Pull {
		r.moveBox(from.Sub(a.Dir), a.Dir)
	}
	r.numActions++
}

func (r *Room) moveBox(origin, dir Coord) {
	target := origin.Add(dir)
	for i := range r.boxes {
		if r.boxes[i].Pos != origin {
			continue
		}
		r.boxes[i].Pos = target
		r.boxes[i].Moves++
		if r.lastBoxIndex != i {
			r.lastBoxIndex = i
			r.movedBoxChanges++
		}
		r.toggle(origin, layerBox)
		r.toggle(target, layerBox)
		return
	}
	panic(fmt.Sprintf("pushbox: no box at %v to move", origin))
}

// PlayerOnTarget reports whether the player stands on a target.
func (r *Room) PlayerOnTarget() bool {
	return r.IsTarget(r.player)
}

// BoxOnTarget reports whether any box stands on a target.
func (r *Room) BoxOnTarget() bool {
	for _, b := range r.boxes {
		if r.IsTarget(b.Pos) {
			return true
		}
	}
	return false
}

// ComputeScore stores and returns the room score: zero when the player or
// any box is on a target, otherwise the number of box switches times the
// total box displacement.
func (r *Room) ComputeScore() float64 {
	r.score = 0
	if r.PlayerOnTarget() || r.BoxOnTarget() {
		return r.score
	}
	total := 0
	for _, b := range r.boxes {
		total += b.Displacement()
	}
	r.score = float64(r.movedBoxChanges * total)
	return r.score
}

// String renders the room as level text, rows separated by newlines.
func (r *Room) String() string {
	var sb strings.Builder
	sb.Grow(len(r.topology) + r.height)
	for i, tile := range r.topology {
		if i > 0 && i%r.width == 0 {
			sb.WriteByte('\n')
		}
		c := C(i%r.width, i/r.width)
		sb.WriteByte(tileChar(tile, r.ContainsBox(c), r.ContainsPlayer(c)))
	}
	return sb.String()
}

func tileChar(tile Tile, box, player bool) byte {
	switch {
	case player:
		return PlayerChar
	case box && tile == TileTarget:
		return BoxOnTargetChar
	case box:
		return BoxChar
	}
	switch tile {
	case TileWall:
		return WallChar
	case TileTarget:
		return TargetChar
	default:
		return FloorChar
	}
}
