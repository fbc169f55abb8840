// Package levels loads pushbox level packs from a directory of level files.
package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox/levels/formats"
)

// Level is a level definition loaded from disk.
type Level struct {
	ID       string
	Name     string
	Layout   string
	Settings *pushbox.Settings
	Metadata map[string]string
	FilePath string
}

// Text returns the level layout, generating it from the settings when the
// file has no fixed layout.
func (l *Level) Text() (string, error) {
	if l.Layout != "" {
		return strings.TrimRight(l.Layout, "\n"), nil
	}
	if l.Settings == nil {
		return "", fmt.Errorf("level %s has neither layout nor settings", l.ID)
	}
	return pushbox.GenerateLevel(*l.Settings)
}

// Playable parses the level text into a fresh playable level.
func (l *Level) Playable() (*pushbox.Level, error) {
	text, err := l.Text()
	if err != nil {
		return nil, err
	}
	return pushbox.ParseLevel(text)
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(formats.FormatExtensions(), strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Layout:   parsed.Layout,
		Settings: parsed.Settings,
		Metadata: parsed.Metadata,
		FilePath: path,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Save writes lvl to <Root>/<id>.yaml and returns the path.
func (l *Loader) Save(lvl Level) (string, error) {
	data, err := formats.EncodeYAML(formats.Level{
		ID:       lvl.ID,
		Name:     lvl.Name,
		Layout:   lvl.Layout,
		Settings: lvl.Settings,
		Metadata: lvl.Metadata,
	})
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Root, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", l.Root, err)
	}
	path := filepath.Join(l.Root, lvl.ID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}
