package pushbox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPlayer is returned by ParseLevel when the text has no player.
	ErrNoPlayer = errors.New("pushbox: level has no player")
	// ErrNoBoxes is returned by ParseLevel when the text has no box.
	ErrNoBoxes = errors.New("pushbox: level has no boxes")
)

// Level is a playable puzzle parsed from level text. The player pushes
// boxes forward; the level is solved when every target holds a box.
type Level struct {
	width, height int
	tiles         []Tile
	boxes         []bool
	player        Coord
	numBoxes      int
	moves         int
	pushes        int
}

// MoveResult describes the outcome of one Move.
type MoveResult struct {
	Moved       bool // the player changed cell
	Pushed      bool // a box moved
	BoxOnTarget bool // the pushed box landed on a target
}

// ParseLevel reads level text produced by GenerateLevel. Rows must have
// equal length; a trailing newline is allowed.
func ParseLevel(text string) (*Level, error) {
	text = strings.TrimRight(text, "\n")
	rows := strings.Split(text, "\n")
	if text == "" || len(rows) == 0 {
		return nil, errors.New("pushbox: empty level")
	}
	width := len(rows[0])
	l := &Level{
		width:  width,
		height: len(rows),
		tiles:  make([]Tile, width*len(rows)),
		boxes:  make([]bool, width*len(rows)),
	}
	players, targets := 0, 0
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("pushbox: row %d has width %d, expected %d", y, len(row), width)
		}
		for x := range width {
			i := y*width + x
			switch row[x] {
			case WallChar:
				l.tiles[i] = TileWall
			case FloorChar:
				l.tiles[i] = TileFloor
			case TargetChar:
				l.tiles[i] = TileTarget
				targets++
			case BoxChar:
				l.tiles[i] = TileFloor
				l.boxes[i] = true
				l.numBoxes++
			case BoxOnTargetChar:
				l.tiles[i] = TileTarget
				l.boxes[i] = true
				l.numBoxes++
				targets++
			case PlayerChar:
				l.tiles[i] = TileFloor
				l.player = C(x, y)
				players++
			case PlayerOnTargetChar:
				l.tiles[i] = TileTarget
				l.player = C(x, y)
				players++
				targets++
			default:
				return nil, fmt.Errorf("pushbox: unknown cell %q at %v", row[x], C(x, y))
			}
		}
	}
	switch {
	case players == 0:
		return nil, ErrNoPlayer
	case players > 1:
		return nil, fmt.Errorf("pushbox: level has %d players", players)
	case l.numBoxes < MinBoxes:
		return nil, ErrNoBoxes
	case targets != l.numBoxes:
		return nil, fmt.Errorf("pushbox: level has %d boxes and %d targets", l.numBoxes, targets)
	}
	return l, nil
}

// Clone returns an independent copy of the level.
func (l *Level) Clone() *Level {
	c := *l
	c.tiles = append([]Tile(nil), l.tiles...)
	c.boxes = append([]bool(nil), l.boxes...)
	return &c
}

// Width returns the level width in cells.
func (l *Level) Width() int { return l.width }

// Height returns the level height in cells.
func (l *Level) Height() int { return l.height }

// Player returns the player position.
func (l *Level) Player() Coord { return l.player }

// NumBoxes returns the number of boxes.
func (l *Level) NumBoxes() int { return l.numBoxes }

// Moves returns the number of successful moves.
func (l *Level) Moves() int { return l.moves }

// Pushes returns the number of moves that pushed a box.
func (l *Level) Pushes() int { return l.pushes }

// InBounds reports whether c is inside the level.
func (l *Level) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < l.width && c.Y >= 0 && c.Y < l.height
}

// TileAt returns the static tile at c. Cells outside the level are walls.
func (l *Level) TileAt(c Coord) Tile {
	if !l.InBounds(c) {
		return TileWall
	}
	return l.tiles[c.X+c.Y*l.width]
}

// HasBox reports whether a box is on c.
func (l *Level) HasBox(c Coord) bool {
	return l.InBounds(c) && l.boxes[c.X+c.Y*l.width]
}

func (l *Level) open(c Coord) bool {
	return l.TileAt(c) != TileWall && !l.HasBox(c)
}

// Move steps the player in d, pushing a single box ahead when the cell
// beyond it is open.
func (l *Level) Move(d Dir) MoveResult {
	next := l.player.Step(d)
	if l.TileAt(next) == TileWall {
		return MoveResult{}
	}
	var res MoveResult
	if l.HasBox(next) {
		beyond := next.Step(d)
		if !l.open(beyond) {
			return MoveResult{}
		}
		l.boxes[next.X+next.Y*l.width] = false
		l.boxes[beyond.X+beyond.Y*l.width] = true
		res.Pushed = true
		res.BoxOnTarget = l.TileAt(beyond) == TileTarget
		l.pushes++
	}
	l.player = next
	l.moves++
	res.Moved = true
	return res
}

// BoxesOnTarget returns how many boxes sit on targets.
func (l *Level) BoxesOnTarget() int {
	n := 0
	for i, box := range l.boxes {
		if box && l.tiles[i] == TileTarget {
			n++
		}
	}
	return n
}

// Solved reports whether every box is on a target.
func (l *Level) Solved() bool {
	return l.BoxesOnTarget() == l.numBoxes
}

// String renders the level in the same text format ParseLevel reads. A
// player standing on a target is written as PlayerOnTargetChar so the
// text parses back to the same level.
func (l *Level) String() string {
	var sb strings.Builder
	sb.Grow(len(l.tiles) + l.height)
	for i, tile := range l.tiles {
		if i > 0 && i%l.width == 0 {
			sb.WriteByte('\n')
		}
		player := C(i%l.width, i/l.width) == l.player
		if player && tile == TileTarget {
			sb.WriteByte(PlayerOnTargetChar)
			continue
		}
		sb.WriteByte(tileChar(tile, l.boxes[i], player))
	}
	return sb.String()
}
