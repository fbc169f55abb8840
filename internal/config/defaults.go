package config

import (
	_ "embed"
)

//go:embed defaults/generator.yaml
var defaultGeneratorYAML []byte

//go:embed defaults/render.yaml
var defaultRenderYAML []byte

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Width:     10,
		Height:    10,
		NumBoxes:  2,
		RoomSteps: 20,
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "solved",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				ExtraWidth:  4,
				ExtraHeight: 4,
				ExtraBoxes:  2,
				ExtraSteps:  10,
			},
		},
	}
}

// DefaultRenderConfig returns the default render configuration.
func DefaultRenderConfig() RenderConfig {
	palette := make(map[string]string, len(defaultPalette))
	for c, hex := range defaultPalette {
		palette[c.String()] = hex
	}
	return RenderConfig{
		SpriteSize: 8,
		Scale:      4,
		Palette:    palette,
		Alpha:      map[string]int{"target": 160},
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "generator":
		return defaultGeneratorYAML
	case "render":
		return defaultRenderYAML
	default:
		return nil
	}
}
