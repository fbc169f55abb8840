// Package config provides YAML-based configuration loading for level
// generation and rendering, plus difficulty progression between levels.
package config

// GeneratorConfig contains the base settings for generated levels.
type GeneratorConfig struct {
	Width      int              `yaml:"width"`
	Height     int              `yaml:"height"`
	NumBoxes   int              `yaml:"num_boxes"`
	RoomSteps  int              `yaml:"room_steps"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases between levels.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "solved" or "none"
	MaxAt int    `yaml:"max_at"` // Solved levels at which max difficulty is reached
}

// ScalingConfig defines what is added to the base level at max difficulty.
type ScalingConfig struct {
	ExtraWidth  int `yaml:"extra_width"`
	ExtraHeight int `yaml:"extra_height"`
	ExtraBoxes  int `yaml:"extra_boxes"`
	ExtraSteps  int `yaml:"extra_steps"`
}

// RenderConfig contains sprite and image export settings.
type RenderConfig struct {
	SpriteSize int               `yaml:"sprite_size"`
	Scale      int               `yaml:"scale"`
	Palette    map[string]string `yaml:"palette"` // core.Color name -> hex
	Alpha      map[string]int    `yaml:"alpha"`   // core.Color name -> 0..255, default opaque
}

// AlphaOf returns the sprite alpha configured for a tile colour.
func (c RenderConfig) AlphaOf(name string) uint8 {
	a, ok := c.Alpha[name]
	if !ok {
		return 255
	}
	return uint8(max(0, min(255, a)))
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a flag value to a preset.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the generator config based on a difficulty preset.
func ApplyPreset(cfg *GeneratorConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
