// Package env wraps level generation, play and rendering behind an episode
// lifecycle: settings, Init, Start, act, Advance. Observations, events and
// a property tree expose the running level to agents and servers.
package env

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox/sprites"
	"github.com/vovakirdan/tilelab/internal/settings"
	"github.com/vovakirdan/tilelab/internal/tensor"
)

// Observation and action names.
const (
	ObservationRGB      = "RGB"
	ObservationLayout   = "LAYOUT"
	ObservationPosition = "POSITION"

	ActionMove = "MOVE"
)

// Event names.
const (
	EventLevelGenerated = "level_generated"
	EventBoxOnTarget    = "box_on_target"
	EventLevelComplete  = "level_complete"
)

// Rewards paid by Advance.
const (
	RewardStep         = -0.1
	RewardBoxOnTarget  = 1.0
	RewardBoxOffTarget = -1.0
	RewardSolved       = 10.0
)

// DefaultMaxSteps bounds an episode when the maxSteps setting is absent.
const DefaultMaxSteps = 300

// MOVE values.
const (
	MoveNone = iota
	MoveNorth
	MoveSouth
	MoveWest
	MoveEast
)

var moveDirs = [...]pushbox.Dir{
	MoveNorth: pushbox.North,
	MoveSouth: pushbox.South,
	MoveWest:  pushbox.West,
	MoveEast:  pushbox.East,
}

var (
	// ErrNotInitialised is returned by calls that need Init first.
	ErrNotInitialised = errors.New("env: not initialised")
	// ErrInitialised is returned by Setting after Init.
	ErrInitialised = errors.New("env: already initialised")
	// ErrNotStarted is returned by calls that need a running episode.
	ErrNotStarted = errors.New("env: no episode started")
)

// knownSettings are the keys Init accepts.
var knownSettings = []string{
	"width", "height", "numBoxes", "roomSteps",
	"layout", "maxSteps", "spriteSize",
}

type lifecycle int

const (
	created lifecycle = iota
	initialised
	started
	finished
)

// LevelSource produces level layouts, typically through a cache.
type LevelSource interface {
	GenerateLevel(s pushbox.Settings) (layout string, cached bool, err error)
}

// Env is a single pushbox environment. It is not safe for concurrent use.
type Env struct {
	settings settings.Table
	gen      config.GeneratorConfig
	render   config.RenderConfig
	source   LevelSource
	state    lifecycle
	err      error

	// Fixed by Init
	base     pushbox.Settings
	layout   string
	maxSteps int
	sheet    *sprites.Sheet

	// Episode
	episode int
	seed    int64
	level   *pushbox.Level
	view    *sprites.View
	steps   int
	score   float64
	move    int
	events  []Event
	props   []property
}

// New creates an environment with the given generator and render defaults.
func New(gen config.GeneratorConfig, render config.RenderConfig) *Env {
	e := &Env{
		settings: settings.Table{},
		gen:      gen,
		render:   render,
	}
	e.props = e.properties()
	return e
}

// SetLevelSource routes generation through src instead of calling the
// generator directly.
func (e *Env) SetLevelSource(src LevelSource) {
	e.source = src
}

// Setting records a key/value setting. Settings are read by Init.
func (e *Env) Setting(key, value string) error {
	if e.state != created {
		return ErrInitialised
	}
	e.settings.Insert(key, value)
	return nil
}

// Init validates the settings and prepares the sprite sheet.
func (e *Env) Init() error {
	if e.state != created {
		return ErrInitialised
	}
	for _, key := range e.settings.Keys() {
		if !slices.Contains(knownSettings, key) {
			return e.fail(fmt.Errorf("env: unknown setting %q", key))
		}
	}

	base := pushbox.Settings{
		Width:     e.gen.Width,
		Height:    e.gen.Height,
		NumBoxes:  e.gen.NumBoxes,
		RoomSteps: e.gen.RoomSteps,
	}
	for key, dst := range map[string]*int{
		"width":     &base.Width,
		"height":    &base.Height,
		"numBoxes":  &base.NumBoxes,
		"roomSteps": &base.RoomSteps,
	} {
		if err := e.lookupInt(key, dst); err != nil {
			return e.fail(err)
		}
	}

	e.maxSteps = DefaultMaxSteps
	if err := e.lookupInt("maxSteps", &e.maxSteps); err != nil {
		return e.fail(err)
	}
	if err := e.lookupInt("spriteSize", &e.render.SpriteSize); err != nil {
		return e.fail(err)
	}

	if layout, result := e.settings.LookupString("layout"); result == settings.Found {
		if _, err := pushbox.ParseLevel(layout); err != nil {
			return e.fail(fmt.Errorf("env: setting 'layout': %w", err))
		}
		e.layout = layout
	} else if err := base.Validate(); err != nil {
		return e.fail(fmt.Errorf("env: %w", err))
	}

	sheet, err := sprites.NewSheet(e.render)
	if err != nil {
		return e.fail(err)
	}
	e.base = base
	e.sheet = sheet
	e.state = initialised
	return nil
}

func (e *Env) lookupInt(key string, dst *int) error {
	switch v, result := e.settings.LookupInt(key); result {
	case settings.Found:
		*dst = v
	case settings.TypeMismatch:
		return fmt.Errorf("env: setting '%s' must be an int", key)
	}
	return nil
}

func (e *Env) fail(err error) error {
	e.err = err
	return err
}

// Err returns the last error reported by the environment.
func (e *Env) Err() error {
	return e.err
}

// Start begins an episode. Generated levels use the low 32 bits of seed.
func (e *Env) Start(episode int, seed int64) error {
	if e.state == created {
		return e.fail(ErrNotInitialised)
	}

	s := e.base
	s.Seed = uint32(seed)
	layout := e.layout
	if layout == "" {
		var err error
		if layout, err = e.generate(s); err != nil {
			return e.fail(fmt.Errorf("env: episode %d: %w", episode, err))
		}
	}
	level, err := pushbox.ParseLevel(layout)
	if err != nil {
		return e.fail(fmt.Errorf("env: episode %d: %w", episode, err))
	}

	if e.view == nil || e.level == nil || e.level.Width() != level.Width() || e.level.Height() != level.Height() {
		if e.view, err = e.sheet.NewView(level.Width(), level.Height()); err != nil {
			return e.fail(err)
		}
	}

	e.episode = episode
	e.seed = seed
	e.level = level
	e.steps = 0
	e.score = 0
	e.move = MoveNone
	e.events = e.events[:0]
	e.err = nil
	e.state = started

	e.emit(EventLevelGenerated,
		stringObservation(ObservationLayout, layout),
		doublesObservation("SETTINGS", float64(level.Width()), float64(level.Height()), float64(level.NumBoxes()), float64(s.Seed)),
	)
	return nil
}

func (e *Env) generate(s pushbox.Settings) (string, error) {
	if e.source != nil {
		layout, _, err := e.source.GenerateLevel(s)
		return layout, err
	}
	return pushbox.GenerateLevel(s)
}

// ActionSpecs lists the discrete actions.
func (e *Env) ActionSpecs() []ActionSpec {
	return []ActionSpec{{Name: ActionMove, Min: MoveNone, Max: MoveEast}}
}

// ActDiscrete sets the action applied by the following Advance calls.
func (e *Env) ActDiscrete(actions []int) error {
	if len(actions) != len(e.ActionSpecs()) {
		return fmt.Errorf("env: expected %d discrete actions, got %d", len(e.ActionSpecs()), len(actions))
	}
	move := actions[0]
	if move < MoveNone || move > MoveEast {
		return fmt.Errorf("env: %s=%d out of range [%d, %d]", ActionMove, move, MoveNone, MoveEast)
	}
	e.move = move
	return nil
}

// Advance applies the current action for up to steps steps and returns
// the episode status and the reward earned.
func (e *Env) Advance(steps int) (Status, float64) {
	if e.state != started {
		if e.state == finished {
			e.err = errors.New("env: episode has finished")
		} else {
			e.err = ErrNotStarted
		}
		return StatusError, 0
	}

	var reward float64
	for range max(steps, 1) {
		reward += e.step()
		e.steps++
		if e.level.Solved() {
			e.state = finished
			e.score += reward
			e.emit(EventLevelComplete,
				doublesObservation("STATS", float64(e.level.Moves()), float64(e.level.Pushes())),
			)
			return StatusTerminated, reward
		}
		if e.steps >= e.maxSteps {
			e.state = finished
			e.score += reward
			return StatusInterrupted, reward
		}
	}
	e.score += reward
	return StatusRunning, reward
}

// step applies the current move once and returns its reward.
func (e *Env) step() float64 {
	if e.move == MoveNone {
		return 0
	}
	before := e.level.BoxesOnTarget()
	res := e.level.Move(moveDirs[e.move])
	if !res.Moved {
		return RewardStep
	}
	reward := RewardStep
	switch after := e.level.BoxesOnTarget(); {
	case after > before:
		reward += RewardBoxOnTarget
		box := e.level.Player().Step(moveDirs[e.move])
		e.emit(EventBoxOnTarget, int32sObservation(ObservationPosition, int32(box.X), int32(box.Y)))
	case after < before:
		reward += RewardBoxOffTarget
	}
	if e.level.Solved() {
		reward += RewardSolved
	}
	return reward
}

// ObservationSpecs lists the observations. RGB dimensions are filled in
// once a level is running.
func (e *Env) ObservationSpecs() []ObservationSpec {
	h, w := 0, 0
	if e.level != nil && e.sheet != nil {
		size := e.sheet.SpriteSize()
		h, w = e.level.Height()*size, e.level.Width()*size
	}
	return []ObservationSpec{
		{Name: ObservationRGB, Type: ObservationBytes, Shape: []int{h, w, 3}},
		{Name: ObservationLayout, Type: ObservationString, Shape: []int{}},
		{Name: ObservationPosition, Type: ObservationInt32s, Shape: []int{2}},
	}
}

// Observation returns the named observation of the running level. The RGB
// tensor is a copy owned by the caller.
func (e *Env) Observation(name string) (Observation, error) {
	if e.level == nil {
		return Observation{}, ErrNotStarted
	}
	switch name {
	case ObservationRGB:
		pixels, err := e.view.Render(e.level)
		if err != nil {
			return Observation{}, err
		}
		return Observation{
			ObservationSpec: ObservationSpec{Name: name, Type: ObservationBytes, Shape: pixels.Shape()},
			Bytes:           pixels.Clone(),
		}, nil
	case ObservationLayout:
		return stringObservation(name, e.level.String()), nil
	case ObservationPosition:
		p := e.level.Player()
		return int32sObservation(name, int32(p.X), int32(p.Y)), nil
	default:
		return Observation{}, fmt.Errorf("env: unknown observation %q", name)
	}
}

// EventTypes lists the names of the events the world can emit.
func (e *Env) EventTypes() []string {
	return []string{EventLevelGenerated, EventBoxOnTarget, EventLevelComplete}
}

// Events returns and clears the events queued since the last call.
func (e *Env) Events() []Event {
	events := e.events
	e.events = nil
	return events
}

func (e *Env) emit(name string, observations ...Observation) {
	e.events = append(e.events, Event{Name: name, Observations: observations})
}

// Level returns the level being played, or nil before Start.
func (e *Env) Level() *pushbox.Level {
	return e.level
}

func stringObservation(name, text string) Observation {
	return Observation{
		ObservationSpec: ObservationSpec{Name: name, Type: ObservationString, Shape: []int{len(text)}},
		Text:            text,
	}
}

func doublesObservation(name string, values ...float64) Observation {
	return Observation{
		ObservationSpec: ObservationSpec{Name: name, Type: ObservationDoubles, Shape: []int{len(values)}},
		Doubles:         values,
	}
}

func int32sObservation(name string, values ...int32) Observation {
	v, err := tensor.FromSlice(values, len(values))
	if err != nil {
		panic(fmt.Sprintf("env: %v", err))
	}
	return Observation{
		ObservationSpec: ObservationSpec{Name: name, Type: ObservationInt32s, Shape: []int{len(values)}},
		Int32s:          v,
	}
}
