// Package formats provides level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilelab/internal/pushbox"
)

// YAMLLevel is the YAML structure of a level file. A file carries either a
// fixed layout, generator settings, or both (the layout wins).
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Layout   string            `yaml:"layout,omitempty"`
	Settings *pushbox.Settings `yaml:"settings,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// Level is a parsed level definition.
type Level struct {
	ID       string
	Name     string
	Layout   string
	Settings *pushbox.Settings
	Metadata map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}
	if yl.Layout == "" && yl.Settings == nil {
		return Level{}, fmt.Errorf("level %s has neither layout nor settings", yl.ID)
	}
	return Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Layout:   yl.Layout,
		Settings: yl.Settings,
		Metadata: yl.Metadata,
	}, nil
}

// EncodeYAML serialises a level definition.
func EncodeYAML(l Level) ([]byte, error) {
	data, err := yaml.Marshal(YAMLLevel{
		ID:       l.ID,
		Name:     l.Name,
		Layout:   l.Layout,
		Settings: l.Settings,
		Metadata: l.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
