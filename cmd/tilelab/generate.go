package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilelab/internal/config"
	pushboxgame "github.com/vovakirdan/tilelab/internal/games/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox/levels"
	"github.com/vovakirdan/tilelab/internal/settings"
	"github.com/vovakirdan/tilelab/internal/storage"
)

var (
	flagConfig    string
	flagSettings  string
	flagCount     int
	flagCache     bool
	flagSaveLevel string
)

var generateCmd = &cobra.Command{
	Use:   "generate [key=value...]",
	Short: "Generate a level from settings",
	Long: `Generate a level and print it as text.

Settings start from the generator config, are overridden by --settings
and finally by key=value arguments. Keys: seed, width, height, numBoxes,
roomSteps, roomSeed, targetsSeed, actionsSeed.

Cells:
  *  wall      P  player
  B  box       X  target
  &  box on target

Examples:
  tilelab generate --seed 7
  tilelab generate width=12 height=9 numBoxes=3 seed=42
  tilelab generate --settings level.yaml --count 5
  tilelab generate --seed 7 --save-level levels/`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom generator config YAML")
	generateCmd.Flags().StringVar(&flagSettings, "settings", "", "YAML file with generation settings")
	generateCmd.Flags().IntVar(&flagCount, "count", 1, "Number of levels, using consecutive seeds")
	generateCmd.Flags().BoolVar(&flagCache, "cache", false, "Reuse and store levels in the database")
	generateCmd.Flags().StringVar(&flagSaveLevel, "save-level", "", "Directory to save the level as YAML")
}

// buildSettings merges the generator config, an optional settings file and
// key=value arguments into generation settings.
func buildSettings(configPath, settingsPath string, args []string) (pushbox.Settings, error) {
	gen, err := config.LoadGenerator(configPath)
	if err != nil {
		return pushbox.Settings{}, err
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	table := pushbox.Settings{
		Seed:      uint32(seed),
		Width:     gen.Width,
		Height:    gen.Height,
		NumBoxes:  gen.NumBoxes,
		RoomSteps: gen.RoomSteps,
	}.Table()

	if settingsPath != "" {
		data, err := os.ReadFile(settingsPath)
		if err != nil {
			return pushbox.Settings{}, fmt.Errorf("cannot read settings: %w", err)
		}
		fromFile, err := settings.FromYAML(data)
		if err != nil {
			return pushbox.Settings{}, err
		}
		table.Merge(fromFile)
	}

	fromArgs, err := settings.FromFlags(args)
	if err != nil {
		return pushbox.Settings{}, err
	}
	table.Merge(fromArgs)

	return pushbox.SettingsFromTable(table)
}

// generate produces a layout, through the store when one is given.
func generate(store *storage.Store, s pushbox.Settings) (string, bool, error) {
	if store != nil {
		return store.GenerateLevel(s)
	}
	layout, err := pushbox.GenerateLevel(s)
	return layout, false, err
}

func runGenerate(_ *cobra.Command, args []string) error {
	s, err := buildSettings(flagConfig, flagSettings, args)
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagCache {
		if store, err = storage.Open(flagDBPath); err != nil {
			return err
		}
		defer store.Close()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "generate",
	})

	for i := range max(flagCount, 1) {
		if i > 0 {
			s.Seed++
			fmt.Println()
		}
		start := time.Now()
		layout, cached, err := generate(store, s)
		if err != nil {
			return fmt.Errorf("seed %d: %w", s.Seed, err)
		}
		if flagCount > 1 || flagCache {
			logger.Info("level generated",
				"seed", s.Seed,
				"size", fmt.Sprintf("%dx%d", s.Width, s.Height),
				"boxes", s.NumBoxes,
				"cached", cached,
				"took", time.Since(start).Round(time.Microsecond),
			)
		}
		fmt.Println(layout)

		if flagSaveLevel != "" {
			settingsCopy := s
			path, err := levels.NewLoader(flagSaveLevel).Save(levels.Level{
				ID:       pushboxgame.LevelID(s),
				Layout:   layout,
				Settings: &settingsCopy,
			})
			if err != nil {
				return err
			}
			logger.Info("level saved", "path", path)
		}
	}
	return nil
}
