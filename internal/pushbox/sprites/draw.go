package sprites

import (
	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/tensor"
	"github.com/vovakirdan/tilelab/internal/tile"
)

// canvas is a square RGBA sprite image.
type canvas struct {
	size int
	img  *tensor.ByteView
	data []uint8
}

func newCanvas(size int) *canvas {
	img := tensor.New[uint8](size, size, 4)
	return &canvas{size: size, img: img, data: img.Data()}
}

func (c *canvas) set(x, y int, p tile.Pixel, alpha uint8) {
	i := (y*c.size + x) * 4
	c.data[i], c.data[i+1], c.data[i+2], c.data[i+3] = p.R, p.G, p.B, alpha
}

func (c *canvas) fill(p tile.Pixel, alpha uint8) {
	for y := range c.size {
		for x := range c.size {
			c.set(x, y, p, alpha)
		}
	}
}

func draw(k Kind, size int, palette config.Palette, alpha uint8) *tensor.ByteView {
	c := newCanvas(size)
	color := kindColors[k]
	base := palette.Pixel(color)

	switch k {
	case Floor:
		c.fill(base, 255)
	case Wall:
		c.fill(base, 255)
		mortar := palette.Shade(color, 0.4)
		half := max(size/2, 1)
		for y := range size {
			offset := 0
			if (y/half)%2 == 1 {
				offset = half / 2
			}
			for x := range size {
				if y%half == half-1 || (x+offset)%size == 0 {
					c.set(x, y, mortar, 255)
				}
			}
		}
	case Target:
		// Diamond outline over a transparent cell.
		c.fill(base, 0)
		r := size / 2
		for y := range size {
			for x := range size {
				d := abs(2*x+1-size) + abs(2*y+1-size)
				if d <= size && d >= size-2*max(r/2, 1) {
					c.set(x, y, base, alpha)
				}
			}
		}
	case Box, BoxOnTarget:
		c.fill(base, 255)
		edge := palette.Shade(color, 0.45)
		for i := range size {
			c.set(i, 0, edge, 255)
			c.set(i, size-1, edge, 255)
			c.set(0, i, edge, 255)
			c.set(size-1, i, edge, 255)
			c.set(i, i, edge, 255)
			c.set(size-1-i, i, edge, 255)
		}
	case Player:
		// Filled disc, one-bit alpha.
		c.fill(base, 0)
		for y := range size {
			for x := range size {
				dx, dy := 2*x+1-size, 2*y+1-size
				if dx*dx+dy*dy <= size*size {
					c.set(x, y, base, alpha)
				}
			}
		}
	}
	return c.img
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
