// Package pushbox provides the box-pushing puzzle game on top of the level
// generator.
package pushbox

import (
	"errors"
	"fmt"
	"image"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/core"
	pb "github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox/levels"
	"github.com/vovakirdan/tilelab/internal/pushbox/sprites"
	"github.com/vovakirdan/tilelab/internal/registry"
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Endless generated levels, growing harder
	ModePack                     // Play through a directory of level files
)

// ViewMode selects how the board is drawn.
type ViewMode int

const (
	ViewGlyph  ViewMode = iota // Two characters per tile
	ViewPixels                 // Rendered sprites in half-block pixels
)

// Event names raised in StepResult.Events.
const (
	EventBoxOnTarget    = "box_on_target"
	EventLevelComplete  = "level_complete"
	EventLevelGenerated = "level_generated"
)

const (
	maxHistory        = 1000
	generationRetries = 5
)

// Package-level variables for configuration set via CLI.
var (
	configPath       string
	renderConfigPath string
	difficultyPreset config.DifficultyPreset
	levelsDir        = "levels"
	startLevel       int
)

// SetConfigPath sets the custom generator config path.
func SetConfigPath(path string) {
	configPath = path
}

// SetRenderConfigPath sets the custom render config path.
func SetRenderConfigPath(path string) {
	renderConfigPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetLevelsDir sets the directory read by the level pack mode.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetStartLevel sets the starting pack level (1-indexed). 0 means start from beginning.
func SetStartLevel(level int) {
	startLevel = level
}

func init() {
	registry.Register("pushbox", func() registry.Game {
		return New()
	})
	registry.Register("pushbox_pack", func() registry.Game {
		return NewPack()
	})
}

// SolveInfo describes the most recently solved level.
type SolveInfo struct {
	LevelID string
	Moves   int
	Pushes  int
}

// Game implements the pushbox puzzle.
type Game struct {
	mode GameMode

	// Configuration
	runtime    core.RuntimeConfig
	rng        *pb.RNG
	difficulty *config.DifficultyManager
	palette    config.Palette
	sheet      *sprites.Sheet

	// Current level
	level   *pb.Level
	start   *pb.Level
	history []*pb.Level
	levelID string
	solved  int

	// Pack mode
	pack      []levels.Level
	packIndex int

	// Rendering
	view      ViewMode
	pixelView *sprites.View
	pixels    []core.RGB

	// Status
	score     int
	gameOver  bool
	won       bool
	paused    bool
	message   string
	events    []string
	lastSolve SolveInfo
	hasSolve  bool
}

// New creates a new game in campaign mode.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewPack creates a new game playing the level directory.
func NewPack() *Game {
	return &Game{mode: ModePack}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModePack {
		return "pushbox_pack"
	}
	return "pushbox"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModePack {
		return "Pushbox (Level Pack)"
	}
	return "Pushbox"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = pb.NewRNG(uint64(runtime.Seed))

	cfg, err := config.LoadGenerator(configPath)
	if err != nil {
		cfg = config.DefaultGeneratorConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.difficulty = config.NewDifficultyManager(cfg)

	renderCfg, err := config.LoadRender(renderConfigPath)
	if err != nil {
		renderCfg = config.DefaultRenderConfig()
	}
	g.palette, err = renderCfg.ParsedPalette()
	if err != nil {
		g.palette = config.DefaultPalette()
	}
	g.sheet, err = sprites.NewSheet(renderCfg)
	if err != nil {
		g.sheet = nil
	}

	g.score = 0
	g.solved = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.message = ""
	g.events = nil
	g.hasSolve = false
	g.level = nil
	g.pixelView = nil

	if g.mode == ModePack {
		if !g.loadPack() {
			return
		}
	}
	g.loadLevel()
}

// loadPack reads every playable level of the levels directory.
func (g *Game) loadPack() bool {
	all, err := levels.NewLoader(levelsDir).LoadAll()
	if err != nil || len(all) == 0 {
		g.message = "No levels found in " + levelsDir
		g.gameOver = true
		return false
	}
	g.pack = all

	g.packIndex = 0
	if startLevel > 0 && startLevel <= len(all) {
		g.packIndex = startLevel - 1
		startLevel = 0 // Reset after use
	}
	return true
}

// loadLevel prepares the next level for the current mode.
func (g *Game) loadLevel() {
	var (
		level *pb.Level
		id    string
		err   error
	)
	if g.mode == ModePack {
		level, id, err = g.packLevel()
	} else {
		level, id, err = g.generateLevel()
	}
	if err != nil {
		g.message = err.Error()
		g.gameOver = true
		return
	}

	g.level = level
	g.start = level.Clone()
	g.history = g.history[:0]
	g.levelID = id
	if g.pixelView != nil {
		h, w := g.pixelView.Scene().GridShape()
		if w != level.Width() || h != level.Height() {
			g.pixelView = nil
		}
	}
}

func (g *Game) packLevel() (*pb.Level, string, error) {
	if g.packIndex >= len(g.pack) {
		return nil, "", fmt.Errorf("level %d is out of range", g.packIndex+1)
	}
	lvl := g.pack[g.packIndex]
	level, err := lvl.Playable()
	if err != nil {
		return nil, "", fmt.Errorf("level %s: %w", lvl.ID, err)
	}
	return level, lvl.ID, nil
}

func (g *Game) generateLevel() (*pb.Level, string, error) {
	var lastErr error
	for range generationRetries {
		settings := g.difficulty.Settings(g.rng.Uint32(), g.solved)
		text, err := pb.GenerateLevel(settings)
		if err != nil {
			lastErr = err
			continue
		}
		level, err := pb.ParseLevel(text)
		if err != nil {
			lastErr = err
			continue
		}
		g.events = append(g.events, EventLevelGenerated)
		return level, LevelID(settings), nil
	}
	return nil, "", lastErr
}

// LevelID names a generated level by the settings that reproduce it.
func LevelID(s pb.Settings) string {
	return fmt.Sprintf("gen-%dx%d-b%d-s%d-%d", s.Width, s.Height, s.NumBoxes, s.RoomSteps, s.Seed)
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	// Handle restart
	if input.Has(core.ActionRestart) {
		if g.gameOver {
			g.Reset(core.RuntimeConfig{
				Seed:     int64(g.rng.Next() >> 1),
				ScreenW:  g.runtime.ScreenW,
				ScreenH:  g.runtime.ScreenH,
				TickRate: g.runtime.TickRate,
			})
		} else if g.level != nil {
			g.pushHistory()
			g.level = g.start.Clone()
		}
		return g.result()
	}

	if input.Has(core.ActionToggle) {
		if g.view == ViewGlyph {
			g.view = ViewPixels
		} else {
			g.view = ViewGlyph
		}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.gameOver || g.paused || g.level == nil {
		return g.result()
	}

	if input.Has(core.ActionUndo) {
		g.undo()
		return g.result()
	}

	dir, ok := directionOf(input)
	if !ok {
		return g.result()
	}
	before := g.level.Clone()
	res := g.level.Move(dir)
	if !res.Moved {
		return g.result()
	}
	g.history = append(g.history, before)
	if len(g.history) > maxHistory {
		g.history = g.history[1:]
	}
	if res.BoxOnTarget {
		g.events = append(g.events, EventBoxOnTarget)
	}
	if g.level.Solved() {
		g.completeLevel()
	}
	return g.result()
}

func directionOf(input core.InputFrame) (pb.Dir, bool) {
	switch {
	case input.Has(core.ActionUp):
		return pb.North, true
	case input.Has(core.ActionDown):
		return pb.South, true
	case input.Has(core.ActionLeft):
		return pb.West, true
	case input.Has(core.ActionRight):
		return pb.East, true
	}
	return 0, false
}

func (g *Game) pushHistory() {
	g.history = append(g.history, g.level.Clone())
	if len(g.history) > maxHistory {
		g.history = g.history[1:]
	}
}

func (g *Game) undo() {
	if len(g.history) == 0 {
		return
	}
	g.level = g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
}

// completeLevel scores the solved level and moves on.
func (g *Game) completeLevel() {
	g.events = append(g.events, EventLevelComplete)
	g.lastSolve = SolveInfo{LevelID: g.levelID, Moves: g.level.Moves(), Pushes: g.level.Pushes()}
	g.hasSolve = true
	g.score += LevelScore(g.level.NumBoxes(), g.level.Moves())
	g.solved++

	if g.mode == ModePack {
		g.packIndex++
		if g.packIndex >= len(g.pack) {
			g.won = true
			g.gameOver = true
			return
		}
	}
	g.loadLevel()
}

// LevelScore awards 100 points per box minus one per move, at least 10.
func LevelScore(numBoxes, moves int) int {
	return max(10, 100*numBoxes-moves)
}

func (g *Game) result() core.StepResult {
	events := g.events
	g.events = nil
	return core.StepResult{State: g.State(), Events: events}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	moves := 0
	if g.level != nil {
		moves = g.level.Moves()
	}
	return core.GameState{
		Score:    g.score,
		Moves:    moves,
		GameOver: g.gameOver,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Level returns the level being played, or nil.
func (g *Game) Level() *pb.Level { return g.level }

// LevelID returns the id of the level being played.
func (g *Game) LevelID() string { return g.levelID }

// Solved returns the number of levels solved since Reset.
func (g *Game) Solved() int { return g.solved }

// View returns the current view mode.
func (g *Game) View() ViewMode { return g.view }

// LastSolve returns the most recently solved level.
func (g *Game) LastSolve() (SolveInfo, bool) {
	return g.lastSolve, g.hasSolve
}

// Snapshot renders the current level with the sprite sheet.
func (g *Game) Snapshot() (image.Image, error) {
	if g.level == nil || g.sheet == nil {
		return nil, errors.New("pushbox: no level to render")
	}
	view, err := g.sheet.NewView(g.level.Width(), g.level.Height())
	if err != nil {
		return nil, err
	}
	if _, err := view.Render(g.level); err != nil {
		return nil, err
	}
	return view.Scene().Image(), nil
}
