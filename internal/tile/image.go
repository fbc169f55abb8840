package tile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ToImage copies width*height row-major pixels into an RGBA image.
func ToImage(pixels []Pixel, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			p := pixels[y*width+x]
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: MaxByte})
		}
	}
	return img
}

// Image returns a copy of the scene as an RGBA image.
func (s *Scene) Image() *image.RGBA {
	return ToImage(s.pixels, s.view.Dim(1), s.view.Dim(0))
}

// Format is an image encoding supported by Encode.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// FormatFromPath picks the encoding from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return FormatBMP
	}
	return FormatPNG
}

// Encode writes img in format, enlarged by scale with nearest-neighbour
// sampling so tile edges stay sharp.
func Encode(w io.Writer, img image.Image, format Format, scale int) error {
	if scale > 1 {
		b := img.Bounds()
		big := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, b, draw.Src, nil)
		img = big
	}
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("tile: unknown image format %q", format)
	}
}
