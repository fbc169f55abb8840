package config

import (
	"math"

	"github.com/vovakirdan/tilelab/internal/pushbox"
)

// DifficultyManager scales generated levels with the number of levels solved.
type DifficultyManager struct {
	base         GeneratorConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg GeneratorConfig) *DifficultyManager {
	return &DifficultyManager{
		base:         cfg,
		initialLevel: clampF(cfg.Difficulty.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.base.Difficulty.Enabled && d.base.Difficulty.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) after solved levels.
func (d *DifficultyManager) Level(solved int) float64 {
	if !d.IsEnabled() || d.base.Difficulty.Progression.Type != "solved" {
		return d.initialLevel
	}

	maxAt := float64(d.base.Difficulty.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(solved)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Settings returns generator settings for the next level. Sizes grow with
// the difficulty level and are capped at pushbox.MaxRoomSize.
func (d *DifficultyManager) Settings(seed uint32, solved int) pushbox.Settings {
	level := d.Level(solved)
	scale := d.base.Difficulty.Scaling
	grow := func(base, extra int) int {
		return base + int(math.Round(level*float64(extra)))
	}

	s := pushbox.DefaultSettings(seed)
	s.Width = min(grow(d.base.Width, scale.ExtraWidth), pushbox.MaxRoomSize)
	s.Height = min(grow(d.base.Height, scale.ExtraHeight), pushbox.MaxRoomSize)
	s.NumBoxes = max(grow(d.base.NumBoxes, scale.ExtraBoxes), pushbox.MinBoxes)
	s.RoomSteps = max(grow(d.base.RoomSteps, scale.ExtraSteps), pushbox.MinSteps)
	return s
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
