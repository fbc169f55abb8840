// Package pushbox generates box-pushing puzzle levels by walking a random
// room topology, placing boxes on their targets and searching backwards
// with pull moves for a start position that takes varied box work to solve.
// Generated levels are plain text and can be parsed back into a playable
// Level.
package pushbox

// Retry limits for room construction.
const (
	MaxGenerationStepRetries  = 500
	MaxTargetPlacementRetries = 100
	MaxPlayerPlacementRetries = 50
)

// DefaultWallMargin is the number of wall cells kept on every side.
const DefaultWallMargin = 1

// ZobristSeed seeds the board-state hash bitstrings.
const ZobristSeed = 4

// Generator bounds.
const (
	MaxAppliedActions     = 300
	MaxRoomTopologies     = 10
	MaxRoomConfigurations = 1000
	MaxPositions          = 10
	DirectionChangeRatio  = 0.35
	MaxRoomSize           = 20
	MinRoomSize           = 3
	MinSteps              = 5
	MinBoxes              = 1
)

// Level text characters. Generated levels never contain
// PlayerOnTargetChar; it appears once a player walks onto a target.
const (
	PlayerChar         = 'P'
	PlayerOnTargetChar = '+'
	BoxChar            = 'B'
	TargetChar         = 'X'
	BoxOnTargetChar    = '&'
	WallChar           = '*'
	FloorChar          = ' '
)
