package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/core"
	"github.com/vovakirdan/tilelab/internal/games/pushbox"
	"github.com/vovakirdan/tilelab/internal/platform/tui"
	"github.com/vovakirdan/tilelab/internal/registry"
	"github.com/vovakirdan/tilelab/internal/storage"
)

var (
	flagDifficulty string
	flagLevelsDir  string
	flagStartLevel int
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: pushbox).

Games:
  pushbox       - Endless generated levels that grow harder
  pushbox_pack  - Play through a directory of level files

Controls:
  Arrows/WASD/HJKL  - Move
  U/Backspace       - Undo
  Tab               - Switch between glyph and sprite view
  R                 - Restart level
  P                 - Pause
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Start with small rooms, grows to the configured maximum
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty
  fixed  - No progression, stays at config's initial level

Examples:
  tilelab play
  tilelab play --difficulty hard --seed 42
  tilelab play --levels ./levels
  tilelab play pushbox_pack --levels ./levels --level 3
  tilelab play --config ./my-generator.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom generator config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagLevelsDir, "levels", "", "Directory of level YAML files (implies pushbox_pack)")
	playCmd.Flags().IntVar(&flagStartLevel, "level", 0, "Starting pack level (1-indexed)")
}

// configureGames passes the CLI flags to the game packages before creation.
func configureGames() {
	pushbox.SetConfigPath(flagConfig)
	pushbox.SetRenderConfigPath(flagRenderConfig)
	pushbox.SetDifficultyPreset(flagDifficulty)
	if flagLevelsDir != "" {
		pushbox.SetLevelsDir(flagLevelsDir)
	}
	pushbox.SetStartLevel(flagStartLevel)
}

// runtimeConfig sizes the runtime to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadPalette reads the palette from the render config.
func loadPalette() (config.Palette, error) {
	renderCfg, err := config.LoadRender(flagRenderConfig)
	if err != nil {
		return config.Palette{}, err
	}
	return renderCfg.ParsedPalette()
}

// openStore opens the solves database. Games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open solves database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "pushbox"
	if len(args) > 0 {
		gameID = args[0]
	} else if flagLevelsDir != "" {
		gameID = "pushbox_pack"
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'tilelab list' to see available games)", gameID)
	}

	palette, err := loadPalette()
	if err != nil {
		return err
	}

	configureGames()
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), palette); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
