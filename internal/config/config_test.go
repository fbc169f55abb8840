package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tilelab/internal/core"
	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/tile"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var gen GeneratorConfig
	if err := yaml.Unmarshal(GetDefaultYAML("generator"), &gen); err != nil {
		t.Fatalf("embedded generator.yaml: %v", err)
	}
	if gen != DefaultGeneratorConfig() {
		t.Errorf("generator.yaml = %+v, expected %+v", gen, DefaultGeneratorConfig())
	}

	var render RenderConfig
	if err := yaml.Unmarshal(GetDefaultYAML("render"), &render); err != nil {
		t.Fatalf("embedded render.yaml: %v", err)
	}
	def := DefaultRenderConfig()
	if render.SpriteSize != def.SpriteSize || render.Scale != def.Scale {
		t.Errorf("render.yaml sizes = %d/%d, expected %d/%d", render.SpriteSize, render.Scale, def.SpriteSize, def.Scale)
	}
	for name, hex := range def.Palette {
		if render.Palette[name] != hex {
			t.Errorf("render.yaml palette[%s] = %q, expected %q", name, render.Palette[name], hex)
		}
	}

	if render.AlphaOf("target") != def.AlphaOf("target") {
		t.Errorf("render.yaml target alpha = %d, expected %d", render.AlphaOf("target"), def.AlphaOf("target"))
	}

	if GetDefaultYAML("unknown") != nil {
		t.Error("GetDefaultYAML(unknown) should be nil")
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gen.yaml")
	data := "width: 12\nheight: 9\nnum_boxes: 3\nroom_steps: 15\ndifficulty:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGenerator(path)
	if err != nil {
		t.Fatalf("LoadGenerator() error: %v", err)
	}
	if cfg.Width != 12 || cfg.Height != 9 || cfg.NumBoxes != 3 || cfg.RoomSteps != 15 {
		t.Errorf("LoadGenerator() = %+v", cfg)
	}
	if cfg.Difficulty.Enabled {
		t.Error("difficulty should be disabled")
	}

	if _, err := LoadGenerator(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadGenerator() with a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGenerator(bad); err == nil {
		t.Error("LoadGenerator() with invalid yaml should fail")
	}
}

func TestLoadRenderFillsPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	data := "sprite_size: 4\nscale: 2\npalette:\n  wall: \"#000000\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRender(path)
	if err != nil {
		t.Fatalf("LoadRender() error: %v", err)
	}
	if cfg.Palette["wall"] != "#000000" {
		t.Errorf("wall = %q, expected #000000", cfg.Palette["wall"])
	}
	if cfg.Palette["player"] != defaultPalette[core.ColorPlayer] {
		t.Errorf("player = %q, expected the default", cfg.Palette["player"])
	}
}

func TestPalette(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Palette["wall"] = "#102030"
	p, err := cfg.ParsedPalette()
	if err != nil {
		t.Fatalf("ParsedPalette() error: %v", err)
	}

	if got := p.RGB(core.ColorWall); got != (core.RGB{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("RGB(wall) = %v, expected #102030", got)
	}
	if got := p.Pixel(core.ColorWall); got != (tile.Pixel{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("Pixel(wall) = %v, expected #102030", got)
	}
	if got := p.Hex(core.ColorWall); got != "#102030" {
		t.Errorf("Hex(wall) = %q", got)
	}
	if got := p.Shade(core.ColorWall, 1); got != tile.Black() {
		t.Errorf("Shade(wall, 1) = %v, expected black", got)
	}
	if got := p.Shade(core.ColorWall, 0); got != p.Pixel(core.ColorWall) {
		t.Errorf("Shade(wall, 0) = %v, expected unchanged", got)
	}
	if got := p.Mix(core.ColorWall, core.ColorPlayer, 0); got != p.Pixel(core.ColorWall) {
		t.Errorf("Mix(wall, player, 0) = %v, expected wall", got)
	}

	cfg.Palette["purple"] = "#ff00ff"
	if _, err := cfg.ParsedPalette(); err == nil {
		t.Error("ParsedPalette() should reject unknown entries")
	}
	delete(cfg.Palette, "purple")
	cfg.Palette["box"] = "orange"
	if _, err := cfg.ParsedPalette(); err == nil {
		t.Error("ParsedPalette() should reject invalid hex")
	}
}

func TestAlphaOf(t *testing.T) {
	cfg := RenderConfig{Alpha: map[string]int{"target": 128, "box": 300, "player": -5}}
	tests := []struct {
		name     string
		expected uint8
	}{
		{"target", 128},
		{"box", 255},
		{"player", 0},
		{"wall", 255},
	}
	for _, tt := range tests {
		if got := cfg.AlphaOf(tt.name); got != tt.expected {
			t.Errorf("AlphaOf(%q) = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}

func TestPaletteFallback(t *testing.T) {
	p, err := RenderConfig{Palette: map[string]string{"default": "#ffffff"}}.ParsedPalette()
	if err != nil {
		t.Fatal(err)
	}
	if got := p.RGB(core.ColorBox); got != (core.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("missing entry should use default colour, got %v", got)
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	tests := []struct {
		name     string
		preset   DifficultyPreset
		solved   int
		expected float64
	}{
		{"easy start", DifficultyEasy, 0, 0.0},
		{"easy halfway", DifficultyEasy, 5, 0.5},
		{"easy capped", DifficultyEasy, 50, 1.0},
		{"hard start", DifficultyHard, 0, 0.7},
		{"fixed", DifficultyFixed, 50, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			ApplyPreset(&c, tt.preset)
			d := NewDifficultyManager(c)
			if got := d.Level(tt.solved); got < tt.expected-1e-9 || got > tt.expected+1e-9 {
				t.Errorf("Level(%d) = %v, expected %v", tt.solved, got, tt.expected)
			}
		})
	}
}

func TestDifficultySettings(t *testing.T) {
	d := NewDifficultyManager(DefaultGeneratorConfig())

	first := d.Settings(7, 0)
	if first.Seed != 7 || first.Width != 10 || first.Height != 10 || first.NumBoxes != 2 || first.RoomSteps != 20 {
		t.Errorf("Settings(7, 0) = %+v", first)
	}
	last := d.Settings(7, 100)
	if last.Width != 14 || last.Height != 14 || last.NumBoxes != 4 || last.RoomSteps != 30 {
		t.Errorf("Settings(7, 100) = %+v", last)
	}
	if err := last.Validate(); err != nil {
		t.Errorf("Settings() should be valid, got %v", err)
	}

	big := DefaultGeneratorConfig()
	big.Width, big.Height = 19, 19
	s := NewDifficultyManager(big).Settings(1, 100)
	if s.Width != pushbox.MaxRoomSize || s.Height != pushbox.MaxRoomSize {
		t.Errorf("Settings() should cap at %d, got %dx%d", pushbox.MaxRoomSize, s.Width, s.Height)
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		if p, ok := ParsePreset(name); !ok || string(p) != name {
			t.Errorf("ParsePreset(%q) = %q, %v", name, p, ok)
		}
	}
	if _, ok := ParsePreset("insane"); ok {
		t.Error("ParsePreset should reject unknown presets")
	}
}
