package tile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tilelab/internal/tensor"
)

// Set is a TileSet whose sprites are addressed by name.
type Set struct {
	names []string
	tiles *TileSet
}

// NewSet returns a set with one invisible sprite per name.
func NewSet(names []string, shape SpriteShape) (*Set, error) {
	if shape.Height < 0 || shape.Width < 0 {
		return nil, fmt.Errorf("tile: sprite shape must be non-negative, got %dx%d", shape.Height, shape.Width)
	}
	return &Set{
		names: append([]string(nil), names...),
		tiles: NewTileSet(len(names), shape),
	}, nil
}

// Names returns the sprite names in id order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// TileSet returns the underlying sprites.
func (s *Set) TileSet() *TileSet {
	return s.tiles
}

// Index returns the id of the sprite called name.
func (s *Set) Index(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// SetSprite assigns image to every sprite called name or name followed by a
// '.' suffix (for example "Player.N", "Player.E"). A [count, h, w, c] image
// supplies one sprite per match in id order and count must equal the number
// of matches. It returns the number of sprites set.
func (s *Set) SetSprite(name string, image *tensor.ByteView) (int, error) {
	set := 0
	for id, full := range s.names {
		suffix, ok := strings.CutPrefix(full, name)
		if !ok || (suffix != "" && suffix[0] != '.') {
			continue
		}
		facing := *image
		if facing.Rank() == 4 {
			facing.Select(0, set)
		}
		if !s.tiles.SetSprite(id, &facing) {
			return set, fmt.Errorf("tile: cannot set sprite '%s%s' to %v", name, suffix, facing.Shape())
		}
		set++
	}
	if image.Rank() == 4 && set != image.Dim(0) {
		return set, fmt.Errorf("tile: mismatched count of sprites with prefix '%s'; required: %d, actual: %d", name, image.Dim(0), set)
	}
	return set, nil
}

var (
	// ErrGridNotContiguous is returned when a grid view has gaps or is reordered.
	ErrGridNotContiguous = errors.New("tile: grid must be contiguous")
	// ErrSceneNotContiguous is returned when a scene view has gaps or is reordered.
	ErrSceneNotContiguous = errors.New("tile: scene must be contiguous")
)

// Scene is a renderable pixel buffer for a fixed grid size. Its pixels are
// shared with a [height*spriteH, width*spriteW, 3] byte view.
type Scene struct {
	gridHeight int
	gridWidth  int
	renderer   *Renderer
	view       *tensor.ByteView
	pixels     []Pixel
}

// NewScene allocates a scene for a gridHeight x gridWidth grid of tiles.
func NewScene(gridHeight, gridWidth int, tiles *TileSet) (*Scene, error) {
	if gridHeight < 0 || gridWidth < 0 {
		return nil, fmt.Errorf("tile: grid shape must be non-negative, got %dx%d", gridHeight, gridWidth)
	}
	shape := tiles.SpriteShape()
	view := tensor.New[uint8](gridHeight*shape.Height, gridWidth*shape.Width, 3)
	return &Scene{
		gridHeight: gridHeight,
		gridWidth:  gridWidth,
		renderer:   NewRenderer(tiles),
		view:       view,
		pixels:     pixelsOf(view.Data()),
	}, nil
}

// GridShape returns the grid height and width the scene renders.
func (s *Scene) GridShape() (height, width int) {
	return s.gridHeight, s.gridWidth
}

// View returns the scene as a [H, W, 3] byte view.
func (s *Scene) View() *tensor.ByteView {
	return s.view
}

// Pixels returns the scene pixels in row-major order.
func (s *Scene) Pixels() []Pixel {
	return s.pixels
}

// Render draws grid, a contiguous [height[, width[, layers]]] view of sprite
// ids, and returns the scene view.
func (s *Scene) Render(grid *tensor.Int32View) (*tensor.ByteView, error) {
	if !grid.IsContiguous() {
		return nil, ErrGridNotContiguous
	}
	in := grid.Shape()
	if len(in) > 3 {
		return nil, fmt.Errorf("tile: grid shape must be {%d[, %d[, layers]]}, got %v", s.gridHeight, s.gridWidth, in)
	}
	shape := []int{1, 1, 1}
	copy(shape, in)
	if shape[0] != s.gridHeight || shape[1] != s.gridWidth {
		return nil, fmt.Errorf("tile: grid shape must be {%d[, %d[, layers]]}, got %v", s.gridHeight, s.gridWidth, in)
	}
	n := grid.NumElements()
	ids := grid.Data()[grid.Offset() : grid.Offset()+n]
	s.renderer.Render(ids, shape, s.pixels)
	return s.view, nil
}
