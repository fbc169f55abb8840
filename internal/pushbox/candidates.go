package pushbox

import "math"

// Flood-fill layout markers. Any cell value below the current epoch is
// unvisited open space.
const (
	wallMark  = math.MaxInt64
	boxMark   = math.MaxInt64 - 1
	firstMark = math.MinInt64
)

type actionOffset struct {
	action Action
	offset int
}

// CandidateGenerator expands rooms into their pull-move successors. It keeps
// one flood-fill buffer for all rooms sharing a topology and tags visited
// cells with an increasing epoch instead of clearing the buffer.
type CandidateGenerator struct {
	width, height int
	epoch         int64
	actions       [4]actionOffset
	layout        []int64
	targets       map[int]bool
	frontier      []int
	next          []int
}

// NewCandidateGenerator prepares a generator for rooms with the walls and
// targets of base.
func NewCandidateGenerator(base *Room) *CandidateGenerator {
	w, h := base.Width(), base.Height()
	g := &CandidateGenerator{
		width:  w,
		height: h,
		epoch:  firstMark,
		actions: [4]actionOffset{
			{Action{Dir: C(-1, 0), Pull: true}, -1},
			{Action{Dir: C(1, 0), Pull: true}, 1},
			{Action{Dir: C(0, -1), Pull: true}, -w},
			{Action{Dir: C(0, 1), Pull: true}, w},
		},
		layout:  make([]int64, w*h),
		targets: map[int]bool{},
	}
	for j := range h {
		for i := range w {
			loc := j*w + i
			switch {
			case base.IsWall(C(i, j)):
				g.layout[loc] = wallMark
			case base.IsTarget(C(i, j)):
				g.targets[loc] = true
				g.layout[loc] = firstMark
			default:
				g.layout[loc] = firstMark
			}
		}
	}
	return g
}

// Generate appends to out every room reachable from room by walking to a
// box and pulling it one cell, and returns the extended slice.
func (g *CandidateGenerator) Generate(room *Room, out []*Room) []*Room {
	g.advanceEpoch()
	g.setBoxes(room.Boxes())
	g.floodFill(room.Player())

	for _, box := range room.Boxes() {
		loc := g.location(box.Pos)
		for _, a := range g.actions {
			if g.layout[loc+a.offset] != g.epoch || g.layout[loc+2*a.offset] != g.epoch {
				continue
			}
			player := loc + a.offset
			candidate := room.Clone()
			candidate.SetPlayer(C(player%g.width, player/g.width))
			candidate.ApplyAction(a.action)
			out = append(out, candidate)
		}
	}

	g.clearBoxes(room.Boxes())
	return out
}

// MovePlayerToRandomAccessiblePosition moves the player of room to a random
// non-target cell it can reach without moving boxes. It reports false and
// leaves the room unchanged when no such cell exists.
func (g *CandidateGenerator) MovePlayerToRandomAccessiblePosition(rng *RNG, room *Room) bool {
	g.advanceEpoch()
	g.setBoxes(room.Boxes())
	g.floodFill(room.Player())
	defer g.clearBoxes(room.Boxes())

	var accessible []int
	for loc, v := range g.layout {
		if v == g.epoch && !g.targets[loc] {
			accessible = append(accessible, loc)
		}
	}
	if len(accessible) == 0 {
		return false
	}
	loc := accessible[rng.IntN(len(accessible))]
	room.SetPlayer(C(loc%g.width, loc/g.width))
	return true
}

func (g *CandidateGenerator) location(c Coord) int {
	return c.X + c.Y*g.width
}

// advanceEpoch moves to a fresh visited tag, rewinding the buffer in the
// unlikely case the counter would reach the box marker.
func (g *CandidateGenerator) advanceEpoch() {
	if g.epoch+1 >= boxMark {
		for i, v := range g.layout {
			if v != wallMark {
				g.layout[i] = firstMark
			}
		}
		g.epoch = firstMark
	}
	g.epoch++
}

func (g *CandidateGenerator) setBoxes(boxes []Box) {
	for _, b := range boxes {
		g.layout[g.location(b.Pos)] = boxMark
	}
}

func (g *CandidateGenerator) clearBoxes(boxes []Box) {
	for _, b := range boxes {
		g.layout[g.location(b.Pos)] = g.epoch
	}
}

func (g *CandidateGenerator) floodFill(start Coord) {
	g.frontier = g.frontier[:0]
	g.next = g.next[:0]

	loc := g.location(start)
	g.layout[loc] = g.epoch
	g.frontier = append(g.frontier, loc)

	for len(g.frontier) > 0 {
		for _, loc := range g.frontier {
			for _, a := range g.actions {
				n := loc + a.offset
				if g.layout[n] < g.epoch {
					g.layout[n] = g.epoch
					g.next = append(g.next, n)
				}
			}
		}
		g.frontier, g.next = g.next, g.frontier[:0]
	}
}
