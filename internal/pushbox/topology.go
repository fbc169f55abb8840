package pushbox

var (
	dirN = North.Delta()
	dirS = South.Delta()
	dirW = West.Delta()
	dirE = East.Delta()
)

// floorPatterns are the displacement sets marked as floor around every step
// of the topology walk. Each includes the step cell itself.
var floorPatterns = [][]Coord{
	{{}, dirW, dirE},
	{{}, dirN, dirS},
	{{}, dirE, dirS},
	{{}, dirW, dirS},
	{{}, dirW, dirS, dirS.Add(dirW)},
}

// walkDirections are the moves the topology walk picks from.
var walkDirections = [4]Coord{dirE, dirW, dirS, dirN}

// ZobristBitstrings returns the deterministic hash bitstrings for a
// width x height room with the given number of entity layers.
func ZobristBitstrings(width, height, layers int) []uint64 {
	rng := NewRNG(ZobristSeed)
	bits := make([]uint64, width*height*layers)
	for i := range bits {
		bits[i] = rng.Next()
	}
	return bits
}

// RoomGenerator builds random room topologies and places targets and the
// player on them. Room shape and entity placement draw from separate RNGs.
type RoomGenerator struct {
	width, height    int
	numTargets       int
	genSteps         int
	pChangeDirection float64
	roomRNG          *RNG
	positionsRNG     *RNG
	zobrist          []uint64
}

// NewRoomGenerator returns a generator for width x height rooms with
// numTargets boxes, walking genSteps steps per topology.
func NewRoomGenerator(width, height, numTargets, genSteps int, pChangeDirection float64, roomSeed, positionsSeed uint32) *RoomGenerator {
	return &RoomGenerator{
		width:            width,
		height:           height,
		numTargets:       numTargets,
		genSteps:         genSteps,
		pChangeDirection: pChangeDirection,
		roomRNG:          NewRNG(uint64(roomSeed)),
		positionsRNG:     NewRNG(uint64(positionsSeed)),
		zobrist:          ZobristBitstrings(width, height, 2),
	}
}

// GenerateTopology walks the room from a random interior cell, stamping a
// random floor pattern after every accepted step. It reports false when the
// walk needs more than MaxGenerationStepRetries attempts.
func (g *RoomGenerator) GenerateTopology() ([]Tile, bool) {
	topology := make([]Tile, g.width*g.height)

	pos := g.randomPosition(DefaultWallMargin, g.roomRNG)
	dir := g.randomDirection(g.roomRNG)
	applied, retried := 0, 0
	for applied < g.genSteps {
		if g.roomRNG.Bernoulli(g.pChangeDirection) {
			dir = g.randomDirection(g.roomRNG)
		}
		if next := pos.Add(dir); g.isValidPosition(next) {
			pos = next
			pattern := floorPatterns[g.roomRNG.IntN(len(floorPatterns))]
			g.addFloorPattern(pos, pattern, topology)
			applied++
		}
		retried++
		if retried >= MaxGenerationStepRetries {
			return nil, false
		}
	}
	return topology, true
}

// PlaceEntities resets the targets of topology, then places new targets
// with a box on each and the player. topology is modified in place and
// shared with the returned room.
func (g *RoomGenerator) PlaceEntities(topology []Tile) (*Room, bool) {
	for i, t := range topology {
		if t == TileTarget {
			topology[i] = TileFloor
		}
	}
	room := NewRoom(g.width, g.height, topology, g.zobrist)
	if !g.addRandomTargets(room, topology) {
		return nil, false
	}
	if !g.addPlayer(room) {
		return nil, false
	}
	return room, true
}

func (g *RoomGenerator) isValidPosition(c Coord) bool {
	return c.X >= DefaultWallMargin && c.X < g.width-DefaultWallMargin &&
		c.Y >= DefaultWallMargin && c.Y < g.height-DefaultWallMargin
}

func (g *RoomGenerator) randomDirection(rng *RNG) Coord {
	return walkDirections[rng.IntN(len(walkDirections))]
}

func (g *RoomGenerator) randomPosition(margin int, rng *RNG) Coord {
	x := rng.IntRange(margin, g.width-margin-1)
	y := rng.IntRange(margin, g.height-margin-1)
	return C(x, y)
}

func (g *RoomGenerator) addFloorPattern(pos Coord, pattern []Coord, topology []Tile) {
	for _, d := range pattern {
		if c := pos.Add(d); g.isValidPosition(c) {
			topology[c.X+c.Y*g.width] = TileFloor
		}
	}
}

// canPull reports whether a box at pos has two floor cells beyond it in
// direction dir. Other boxes are ignored.
func canPull(room *Room, pos, dir Coord) bool {
	return room.IsFloor(pos.Add(dir)) && room.IsFloor(pos.Add(dir.Scale(2)))
}

func isValidTargetPosition(room *Room, pos Coord) bool {
	if !room.IsFloor(pos) || !room.IsEmpty(pos) {
		return false
	}
	for _, d := range walkDirections {
		if canPull(room, pos, d) {
			return true
		}
	}
	return false
}

func (g *RoomGenerator) addRandomTargets(room *Room, topology []Tile) bool {
	added, retries := 0, 0
	for added < g.numTargets {
		pos := g.randomPosition(DefaultWallMargin, g.positionsRNG)
		if isValidTargetPosition(room, pos) {
			room.AddBox(pos)
			topology[pos.X+pos.Y*g.width] = TileTarget
			added++
		}
		retries++
		if retries >= MaxTargetPlacementRetries {
			return false
		}
	}
	return true
}

func (g *RoomGenerator) addPlayer(room *Room) bool {
	for range MaxPlayerPlacementRetries {
		pos := g.randomPosition(DefaultWallMargin, g.positionsRNG)
		if room.IsFloor(pos) && room.IsEmpty(pos) {
			room.SetPlayer(pos)
			return true
		}
	}
	return false
}
