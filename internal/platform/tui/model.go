package tui

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/core"
	"github.com/vovakirdan/tilelab/internal/games/pushbox"
	"github.com/vovakirdan/tilelab/internal/registry"
	"github.com/vovakirdan/tilelab/internal/storage"
	"github.com/vovakirdan/tilelab/internal/tile"
)

// screenshotScale enlarges PNG screenshots so single sprite pixels are visible.
const screenshotScale = 4

// solveReporter is implemented by games that record solved levels.
type solveReporter interface {
	LastSolve() (pushbox.SolveInfo, bool)
}

// snapshotter is implemented by games that can render themselves as an image.
type snapshotter interface {
	Snapshot() (image.Image, error)
}

// Model is the Bubble Tea model for running games.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	renderer   *ScreenRenderer
	store      *storage.Store
	keys       *KeyMapper
	config     core.RuntimeConfig
	player     string
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	embedded   bool // Run inside a session that owns the menu
	backToMenu bool
	saved      int // Number of solves written to the store
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		renderer:   defaultRenderer,
		store:      store,
		keys:       NewKeyMapper(),
		config:     cfg,
		player:     "local",
		inputFrame: core.NewInputFrame(),
	}
}

// WithPalette renders with p instead of the built-in palette.
func (m Model) WithPalette(p config.Palette) Model {
	m.renderer = NewScreenRenderer(p)
	return m
}

// WithPlayer sets the name solves are recorded under.
func (m Model) WithPlayer(name string) Model {
	if name != "" {
		m.player = name
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back leaves a finished or paused game
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events. Games draw relative to the
// screen size, so the session survives a resize.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if slices.Contains(result.Events, pushbox.EventLevelComplete) {
		m.recordSolve()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordSolve stores the level the game just reported as solved.
func (m *Model) recordSolve() {
	reporter, ok := m.game.(solveReporter)
	if !ok || m.store == nil {
		return
	}
	solve, ok := reporter.LastSolve()
	if !ok {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveSolve(solve.LevelID, m.player, solve.Moves, solve.Pushes)
	m.saved++
}

// saveScreenshot writes the current screen as text and, when the game
// supports it, the current level as a PNG.
func (m *Model) saveScreenshot() error {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".tilelab", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	base := fmt.Sprintf("%s_%s", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, base+".txt"), []byte(m.screen.String()), 0o600); err != nil {
		return err
	}

	snap, ok := m.game.(snapshotter)
	if !ok {
		return nil
	}
	img, err := snap.Snapshot()
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, base+".png"))
	if err != nil {
		return err
	}
	defer f.Close()
	return tile.Encode(f, img, tile.FormatPNG, screenshotScale)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return m.renderer.Render(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, palette config.Palette) error {
	model := NewModel(game, store, cfg).WithPalette(palette)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
