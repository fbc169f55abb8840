package pushbox

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilelab/internal/settings"
)

// Settings configures GenerateLevel.
type Settings struct {
	// Seed derives every sub-seed that is not set explicitly.
	Seed uint32 `yaml:"seed"`

	// Room size including the outer wall.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	NumBoxes int `yaml:"numBoxes"`

	// RoomSteps is the number of random-walk steps carving the floor.
	RoomSteps int `yaml:"roomSteps"`

	RoomSeed    *uint32 `yaml:"roomSeed,omitempty"`
	TargetsSeed *uint32 `yaml:"targetsSeed,omitempty"`
	ActionsSeed *uint32 `yaml:"actionsSeed,omitempty"`
}

// DefaultSettings returns a 14x14 room with four boxes.
func DefaultSettings(seed uint32) Settings {
	return Settings{
		Seed:      seed,
		Width:     14,
		Height:    14,
		NumBoxes:  4,
		RoomSteps: 20,
	}
}

var (
	// ErrTopology is returned when a room walk cannot finish.
	ErrTopology = errors.New("Max iterations when generating floor topology")
	// ErrRetriesExhausted is returned when no topology yields a level.
	ErrRetriesExhausted = errors.New("Maximum room generation retries reached.")
)

// Validate checks the room bounds.
func (s Settings) Validate() error {
	switch {
	case s.Height > MaxRoomSize:
		return fmt.Errorf("Specified (height=%d) > (kMaxRoomSize=%d) ", s.Height, MaxRoomSize)
	case s.Width > MaxRoomSize:
		return fmt.Errorf("Specified (width=%d) > (kMaxRoomSize=%d) ", s.Width, MaxRoomSize)
	case s.Height < MinRoomSize:
		return fmt.Errorf("Specified (height=%d) < (kMinRoomSize=%d) ", s.Height, MinRoomSize)
	case s.Width < MinRoomSize:
		return fmt.Errorf("Specified (width=%d) < (kMinRoomSize=%d) ", s.Width, MinRoomSize)
	case s.NumBoxes < MinBoxes:
		return fmt.Errorf("Specified (numBoxes=%d) < (kMinBoxes=%d) ", s.NumBoxes, MinBoxes)
	case s.RoomSteps < MinSteps:
		return fmt.Errorf("Specified (roomSteps=%d) < (kMinSteps=%d) ", s.RoomSteps, MinSteps)
	}
	return nil
}

// subSeeds draws the room, targets and actions seeds from Seed, in that
// order, and overrides each with its explicit value when set. All three are
// always drawn so an explicit seed does not shift the others.
func (s Settings) subSeeds() (room, targets, actions uint32) {
	rng := NewRNG(uint64(s.Seed))
	room, targets, actions = rng.Uint32(), rng.Uint32(), rng.Uint32()
	if s.RoomSeed != nil {
		room = *s.RoomSeed
	}
	if s.TargetsSeed != nil {
		targets = *s.TargetsSeed
	}
	if s.ActionsSeed != nil {
		actions = *s.ActionsSeed
	}
	return room, targets, actions
}

// GenerateLevel returns a level string for s. Generation retries up to
// MaxRoomTopologies topologies with MaxPositions placements each.
func GenerateLevel(s Settings) (string, error) {
	room, err := Generate(s)
	if err != nil {
		return "", err
	}
	return room.String(), nil
}

// Generate is GenerateLevel returning the winning room.
func Generate(s Settings) (*Room, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	roomSeed, targetsSeed, actionsSeed := s.subSeeds()
	gen := NewRoomGenerator(s.Width, s.Height, s.NumBoxes, s.RoomSteps, DirectionChangeRatio, roomSeed, targetsSeed)

	for range MaxRoomTopologies {
		topology, ok := gen.GenerateTopology()
		if !ok {
			return nil, ErrTopology
		}

		actions := NewRNG(uint64(actionsSeed))
		for range MaxPositions {
			base, ok := gen.PlaceEntities(topology)
			if !ok {
				break
			}
			if room, ok := ReverseSolveRoom(base, actions, MaxRoomConfigurations, MaxAppliedActions); ok {
				return room, nil
			}
		}
	}
	return nil, ErrRetriesExhausted
}

// ReverseSolveRoom searches pull moves from the solved room base, depth
// first with an explicit stack, for the highest scoring start position.
// The search stops after maxConfigs distinct states; paths are cut at
// maxDepth actions. The winner's player is moved to a random reachable
// cell. It reports false when no state scored above zero or the player
// could not be placed.
func ReverseSolveRoom(base *Room, rng *RNG, maxConfigs, maxDepth int) (*Room, bool) {
	visited := make(map[uint64]struct{}, maxConfigs)
	best := base.Clone()
	bestScore := 0.0

	pending := []*Room{base.Clone()}
	gen := NewCandidateGenerator(base)

	var candidates []*Room
	for len(pending) > 0 && len(visited) < maxConfigs {
		current := pending[len(pending)-1]
		pending[len(pending)-1] = nil
		pending = pending[:len(pending)-1]

		candidates = gen.Generate(current, candidates[:0])
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, next := range candidates {
			if next.NumActions() >= maxDepth {
				continue
			}
			if _, seen := visited[next.Hash()]; seen {
				continue
			}
			visited[next.Hash()] = struct{}{}
			if score := next.ComputeScore(); score > bestScore {
				bestScore = score
				best = next
			}
			pending = append(pending, next)
		}
	}

	placed := gen.MovePlayerToRandomAccessiblePosition(rng, best)
	if best.Score() == 0 || !placed {
		return nil, false
	}
	return best, true
}

// SettingsFromTable reads generation settings from a key/value table. seed,
// width, height and numBoxes are required; roomSteps and the sub-seeds are
// optional.
func SettingsFromTable(t settings.Table) (Settings, error) {
	s := DefaultSettings(0)
	var result settings.LookupResult

	if s.Seed, result = t.LookupUint32("seed"); result != settings.Found {
		return Settings{}, errors.New("Missing kwarg: 'seed'")
	}
	if s.Width, result = t.LookupInt("width"); result != settings.Found {
		return Settings{}, errors.New("Missing kwarg: 'width'")
	}
	if s.Height, result = t.LookupInt("height"); result != settings.Found {
		return Settings{}, errors.New("Missing kwarg: 'height'")
	}
	if s.NumBoxes, result = t.LookupInt("numBoxes"); result != settings.Found {
		return Settings{}, errors.New("Missing kwarg: 'numBoxes'")
	}
	switch steps, result := t.LookupInt("roomSteps"); result {
	case settings.Found:
		s.RoomSteps = steps
	case settings.TypeMismatch:
		return Settings{}, errors.New("kwarg: 'roomSteps' must be an int.")
	}
	for key, dst := range map[string]**uint32{
		"roomSeed":    &s.RoomSeed,
		"targetsSeed": &s.TargetsSeed,
		"actionsSeed": &s.ActionsSeed,
	} {
		if v, result := t.LookupUint32(key); result == settings.Found {
			*dst = &v
		}
	}
	return s, nil
}

// Table returns the settings as a key/value table readable by
// SettingsFromTable.
func (s Settings) Table() settings.Table {
	t := settings.Table{
		"seed":      s.Seed,
		"width":     s.Width,
		"height":    s.Height,
		"numBoxes":  s.NumBoxes,
		"roomSteps": s.RoomSteps,
	}
	if s.RoomSeed != nil {
		t["roomSeed"] = *s.RoomSeed
	}
	if s.TargetsSeed != nil {
		t["targetsSeed"] = *s.TargetsSeed
	}
	if s.ActionsSeed != nil {
		t["actionsSeed"] = *s.ActionsSeed
	}
	return t
}
