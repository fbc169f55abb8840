package tile

import (
	"fmt"

	"github.com/vovakirdan/tilelab/internal/tensor"
)

// Renderer composes grid cells of layered sprite ids into a scene.
// It keeps scratch buffers between calls and is not safe for concurrent use.
type Renderer struct {
	tiles   *TileSet
	empty   []Pixel
	pixels  []Pixel
	indices []int32
}

// NewRenderer returns a renderer drawing sprites from tiles.
func NewRenderer(tiles *TileSet) *Renderer {
	n := tiles.SpriteShape().Size()
	return &Renderer{
		tiles:  tiles,
		empty:  make([]Pixel, n),
		pixels: make([]Pixel, n),
	}
}

// TileSet returns the sprites the renderer draws from.
func (r *Renderer) TileSet() *TileSet {
	return r.tiles
}

// MakeSprite composes the sprite stack ids, bottom first, into one sprite.
// Ids outside the tile set and invisible sprites are ignored, and everything
// below the topmost opaque sprite is skipped. The result may alias tile set
// storage or scratch space and is only valid until the next call.
func (r *Renderer) MakeSprite(ids []int32) []Pixel {
	if len(ids) == 0 {
		return r.empty
	}
	ts := r.tiles
	r.indices = r.indices[:0]
	for _, id := range ids {
		if id >= 0 && int(id) < ts.NumSprites() && ts.MetaData(int(id)) != Invisible {
			r.indices = append(r.indices, id)
		}
	}
	for i := len(r.indices) - 1; i >= 0; i-- {
		if ts.MetaData(int(r.indices[i])).IsOpaque() {
			r.indices = r.indices[i:]
			break
		}
	}
	if len(r.indices) == 0 {
		return r.empty
	}

	out := r.pixels
	first := int(r.indices[0])
	rgb, alpha := ts.RGB(first), ts.Alpha(first)
	switch ts.MetaData(first) {
	case Opaque:
		if len(r.indices) == 1 {
			return rgb
		}
		BlendBlackOpaque(rgb, out)
	case OpaqueConstRgb:
		if len(r.indices) == 1 {
			return rgb
		}
		BlendBlackOpaqueConstRgb(rgb[0], out)
	case SemiTransparent:
		BlendBlack(rgb, alpha, out)
	case SemiTransparentConstRgbAlpha:
		BlendBlackConstRgbAlpha(rgb[0], alpha[0], out)
	case SemiTransparentConstRgb:
		BlendBlackConstRgb(rgb[0], alpha, out)
	case SemiTransparentConstAlpha:
		BlendBlackConstAlpha(rgb, alpha[0], out)
	case OneBitAlphaConstRgb:
		BlendBlackOneBitConstRgb(rgb[0], alpha, out)
	case OneBitAlpha:
		BlendBlackOneBit(rgb, alpha, out)
	default:
		panic(fmt.Sprintf("tile: sprite %d is %v after filtering", first, ts.MetaData(first)))
	}

	for _, id := range r.indices[1:] {
		rgb, alpha := ts.RGB(int(id)), ts.Alpha(int(id))
		switch meta := ts.MetaData(int(id)); meta {
		case SemiTransparent:
			Blend(rgb, alpha, out)
		case SemiTransparentConstRgbAlpha:
			BlendConstRgbAlpha(rgb[0], alpha[0], out)
		case SemiTransparentConstRgb:
			BlendConstRgb(rgb[0], alpha, out)
		case SemiTransparentConstAlpha:
			BlendConstAlpha(rgb, alpha[0], out)
		case OneBitAlphaConstRgb:
			BlendOneBitConstRgb(rgb[0], alpha, out)
		case OneBitAlpha:
			BlendOneBit(rgb, alpha, out)
		default:
			panic(fmt.Sprintf("tile: sprite %d is %v above the bottom layer", id, meta))
		}
	}
	return out
}

// Render draws grid into scene. gridShape is [height, width, layers] and grid
// holds height*width*layers sprite ids in row-major order. scene must hold
// exactly the pixels of the grid in sprites; a mismatch panics.
func (r *Renderer) Render(grid []int32, gridShape []int, scene []Pixel) {
	if len(gridShape) != 3 {
		panic(fmt.Sprintf("tile: invalid grid shape %v", gridShape))
	}
	height, width, layers := gridShape[0], gridShape[1], gridShape[2]
	sh, sw := r.tiles.SpriteShape().Height, r.tiles.SpriteShape().Width
	if len(scene) != height*sh*width*sw {
		panic(fmt.Sprintf("tile: scene has %d pixels, grid %v needs %d", len(scene), gridShape, height*sh*width*sw))
	}
	if len(grid) < height*width*layers {
		panic(fmt.Sprintf("tile: grid has %d ids, shape %v needs %d", len(grid), gridShape, height*width*layers))
	}

	gridWidth := width * layers
	sceneWidth := width * sw
	for i := range height {
		row := grid[i*gridWidth : (i+1)*gridWidth]
		for j := range width {
			sprite := r.MakeSprite(row[j*layers : (j+1)*layers])
			cell := scene[i*sh*sceneWidth+j*sw:]
			for y := range sh {
				copy(cell[y*sceneWidth:y*sceneWidth+sw], sprite[y*sw:(y+1)*sw])
			}
		}
	}
}

// RenderView draws grid, a contiguous [height, width, layers] view of sprite
// ids, into scene, a contiguous [height*spriteHeight, width*spriteWidth, 3]
// view of bytes.
func (r *Renderer) RenderView(grid *tensor.Int32View, scene *tensor.ByteView) error {
	if !grid.IsContiguous() {
		return ErrGridNotContiguous
	}
	if !scene.IsContiguous() {
		return ErrSceneNotContiguous
	}
	gridShape, sceneShape := grid.Shape(), scene.Shape()
	if len(gridShape) != 3 {
		return fmt.Errorf("tile: grid shape must be {height, width, layers}, got %v", gridShape)
	}
	sprite := r.tiles.SpriteShape()
	expected := []int{gridShape[0] * sprite.Height, gridShape[1] * sprite.Width, 3}
	if len(sceneShape) != 3 || sceneShape[0] != expected[0] || sceneShape[1] != expected[1] || sceneShape[2] != 3 {
		return fmt.Errorf("tile: scene shape must be %v for grid %v, got %v", expected, gridShape, sceneShape)
	}

	ids := grid.Data()[grid.Offset() : grid.Offset()+grid.NumElements()]
	bytes := scene.Data()[scene.Offset() : scene.Offset()+scene.NumElements()]
	r.Render(ids, gridShape, pixelsOf(bytes))
	return nil
}
