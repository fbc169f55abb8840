// Package sprites draws pushbox levels with the tile renderer.
package sprites

import (
	"fmt"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/core"
	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/tensor"
	"github.com/vovakirdan/tilelab/internal/tile"
)

// Layers is the depth of a level grid: ground, target, object.
const Layers = 3

// Kind is a sprite of the sheet.
type Kind int

const (
	Floor Kind = iota
	Wall
	Target
	Box
	BoxOnTarget
	Player
	numKinds
)

var kindColors = [numKinds]core.Color{
	Floor:       core.ColorFloor,
	Wall:        core.ColorWall,
	Target:      core.ColorTarget,
	Box:         core.ColorBox,
	BoxOnTarget: core.ColorBoxOnTarget,
	Player:      core.ColorPlayer,
}

// String returns the sprite name, which is also its palette key.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindColors[k].String()
}

// Names lists the sprite names in tile set order.
func Names() []string {
	names := make([]string, numKinds)
	for k := range numKinds {
		names[k] = k.String()
	}
	return names
}

// Sheet is the tile set of level sprites.
type Sheet struct {
	set  *tile.Set
	size int
	ids  [numKinds]int32
}

// NewSheet draws every sprite from the palette and alpha settings of cfg.
func NewSheet(cfg config.RenderConfig) (*Sheet, error) {
	if cfg.SpriteSize < 1 {
		return nil, fmt.Errorf("sprites: sprite size must be positive, got %d", cfg.SpriteSize)
	}
	palette, err := cfg.ParsedPalette()
	if err != nil {
		return nil, err
	}
	set, err := tile.NewSet(Names(), tile.SpriteShape{Height: cfg.SpriteSize, Width: cfg.SpriteSize})
	if err != nil {
		return nil, err
	}

	s := &Sheet{set: set, size: cfg.SpriteSize}
	for k := range numKinds {
		img := draw(k, cfg.SpriteSize, palette, cfg.AlphaOf(k.String()))
		if _, err := set.SetSprite(k.String(), img); err != nil {
			return nil, err
		}
		id, _ := set.Index(k.String())
		s.ids[k] = int32(id)
	}
	return s, nil
}

// Set returns the underlying named tile set.
func (s *Sheet) Set() *tile.Set { return s.set }

// SpriteSize returns the sprite edge in pixels.
func (s *Sheet) SpriteSize() int { return s.size }

// ID returns the tile id of a sprite.
func (s *Sheet) ID(k Kind) int32 { return s.ids[k] }

// Fill writes the sprite ids of level into grid, a row-major
// [height, width, Layers] buffer. Unused layers hold -1.
func (s *Sheet) Fill(level *pushbox.Level, grid []int32) {
	w, h := level.Width(), level.Height()
	if len(grid) < w*h*Layers {
		panic(fmt.Sprintf("sprites: grid has %d ids, level %dx%d needs %d", len(grid), w, h, w*h*Layers))
	}
	for y := range h {
		for x := range w {
			c := pushbox.C(x, y)
			cell := grid[(y*w+x)*Layers:][:Layers]
			cell[0], cell[1], cell[2] = s.ids[Floor], -1, -1

			switch level.TileAt(c) {
			case pushbox.TileWall:
				cell[0] = s.ids[Wall]
				continue
			case pushbox.TileTarget:
				cell[1] = s.ids[Target]
			}

			switch {
			case level.HasBox(c) && level.TileAt(c) == pushbox.TileTarget:
				cell[2] = s.ids[BoxOnTarget]
			case level.HasBox(c):
				cell[2] = s.ids[Box]
			case level.Player() == c:
				cell[2] = s.ids[Player]
			}
		}
	}
}

// View renders levels of one size into a reusable scene.
type View struct {
	sheet *Sheet
	scene *tile.Scene
	grid  *tensor.Int32View
}

// NewView allocates a scene for width x height levels.
func (s *Sheet) NewView(width, height int) (*View, error) {
	scene, err := tile.NewScene(height, width, s.set.TileSet())
	if err != nil {
		return nil, err
	}
	return &View{
		sheet: s,
		scene: scene,
		grid:  tensor.New[int32](height, width, Layers),
	}, nil
}

// Scene returns the scene the view draws into.
func (v *View) Scene() *tile.Scene { return v.scene }

// Render draws level and returns the [H, W, 3] scene pixels.
func (v *View) Render(level *pushbox.Level) (*tensor.ByteView, error) {
	h, w := v.scene.GridShape()
	if level.Width() != w || level.Height() != h {
		return nil, fmt.Errorf("sprites: level is %dx%d, view is %dx%d", level.Width(), level.Height(), w, h)
	}
	v.sheet.Fill(level, v.grid.Data())
	return v.scene.Render(v.grid)
}

// TerminalPixels copies the scene pixels into dst, growing it if needed.
func (v *View) TerminalPixels(dst []core.RGB) []core.RGB {
	pixels := v.scene.Pixels()
	if cap(dst) < len(pixels) {
		dst = make([]core.RGB, len(pixels))
	}
	dst = dst[:len(pixels)]
	for i, p := range pixels {
		dst[i] = core.RGB{R: p.R, G: p.G, B: p.B}
	}
	return dst
}
