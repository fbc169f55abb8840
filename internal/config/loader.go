package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadGenerator loads the level generator configuration.
// Search order: customPath -> ~/.tilelab/configs/generator.yaml -> ./configs/generator.yaml -> embedded default
func LoadGenerator(customPath string) (GeneratorConfig, error) {
	var cfg GeneratorConfig
	found, err := load("generator.yaml", customPath, defaultGeneratorYAML, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return DefaultGeneratorConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadRender loads the render configuration.
// Search order: customPath -> ~/.tilelab/configs/render.yaml -> ./configs/render.yaml -> embedded default
func LoadRender(customPath string) (RenderConfig, error) {
	var cfg RenderConfig
	found, err := load("render.yaml", customPath, defaultRenderYAML, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return DefaultRenderConfig(), nil
	}
	// Entries missing from a user palette keep their default colour.
	for c, hex := range defaultPalette {
		if _, ok := cfg.Palette[c.String()]; !ok {
			if cfg.Palette == nil {
				cfg.Palette = make(map[string]string)
			}
			cfg.Palette[c.String()] = hex
		}
	}
	if cfg.Alpha == nil {
		cfg.Alpha = DefaultRenderConfig().Alpha
	}
	return cfg, nil
}

// load decodes the first readable source into cfg. It reports false when
// even the embedded default failed to parse.
func load(filename, customPath string, embedded []byte, cfg any) (bool, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return false, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return true, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err == nil {
				return true, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, cfg); err == nil {
			return true, nil
		}
	}

	// Use embedded default YAML
	return yaml.Unmarshal(embedded, cfg) == nil, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilelab", "configs", filename)
}
