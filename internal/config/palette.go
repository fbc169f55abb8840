package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/vovakirdan/tilelab/internal/core"
	"github.com/vovakirdan/tilelab/internal/tile"
)

var defaultPalette = map[core.Color]string{
	core.ColorDefault:     "#c0c0c0",
	core.ColorWall:        "#6b5440",
	core.ColorFloor:       "#1e1e24",
	core.ColorTarget:      "#c83c3c",
	core.ColorBox:         "#c8a050",
	core.ColorBoxOnTarget: "#50c878",
	core.ColorPlayer:      "#4a90e2",
	core.ColorText:        "#e0e0e0",
	core.ColorHighlight:   "#ffd700",
	core.ColorDim:         "#606060",
}

// Palette maps named screen colours to concrete colours.
type Palette struct {
	colors map[core.Color]colorful.Color
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	p, err := parsePalette(defaultPalette)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsedPalette parses the hex colours of the config.
func (c RenderConfig) ParsedPalette() (Palette, error) {
	entries := make(map[core.Color]string, len(c.Palette))
	for name, hex := range c.Palette {
		color, ok := core.ParseColor(name)
		if !ok || color == core.ColorRGB {
			return Palette{}, fmt.Errorf("config: unknown palette entry %q", name)
		}
		entries[color] = hex
	}
	return parsePalette(entries)
}

func parsePalette(entries map[core.Color]string) (Palette, error) {
	p := Palette{colors: make(map[core.Color]colorful.Color, len(entries))}
	for color, hex := range entries {
		parsed, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("config: palette entry %q: %w", color, err)
		}
		p.colors[color] = parsed
	}
	return p, nil
}

// Color returns the colour of c, falling back to the default entry.
func (p Palette) Color(c core.Color) colorful.Color {
	if col, ok := p.colors[c]; ok {
		return col
	}
	if col, ok := p.colors[core.ColorDefault]; ok {
		return col
	}
	return colorful.Color{R: 0.75, G: 0.75, B: 0.75}
}

// Hex returns the colour of c as #rrggbb.
func (p Palette) Hex(c core.Color) string {
	return p.Color(c).Hex()
}

// RGB returns the colour of c as a terminal colour.
func (p Palette) RGB(c core.Color) core.RGB {
	r, g, b := p.Color(c).Clamped().RGB255()
	return core.RGB{R: r, G: g, B: b}
}

// Pixel returns the colour of c as a sprite pixel.
func (p Palette) Pixel(c core.Color) tile.Pixel {
	r, g, b := p.Color(c).Clamped().RGB255()
	return tile.Pixel{R: r, G: g, B: b}
}

// Shade returns the colour of c blended towards black by amount in [0, 1].
func (p Palette) Shade(c core.Color, amount float64) tile.Pixel {
	shaded := p.Color(c).BlendLab(colorful.Color{}, clampF(amount, 0, 1))
	r, g, b := shaded.Clamped().RGB255()
	return tile.Pixel{R: r, G: g, B: b}
}

// Mix returns the Lab blend of two palette colours.
func (p Palette) Mix(a, b core.Color, t float64) tile.Pixel {
	mixed := p.Color(a).BlendLab(p.Color(b), clampF(t, 0, 1))
	r, g, bb := mixed.Clamped().RGB255()
	return tile.Pixel{R: r, G: g, B: bb}
}
