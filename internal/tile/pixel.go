// Package tile composes layered sprites into RGB scenes.
// Sprites live in a TileSet, classified once by their alpha and colour
// uniformity; a Renderer uses that classification to pick the cheapest
// blend for every grid cell.
package tile

import "unsafe"

// Byte bounds of a pixel channel.
const (
	MinByte = 0
	MaxByte = 255
)

// Pixel is an 8-bit RGB colour. Alpha is never stored in a Pixel.
type Pixel struct {
	R, G, B uint8
}

// Pixel must stay exactly three bytes so scene buffers can be shared with
// byte tensors.
var _ [3]byte = [unsafe.Sizeof(Pixel{})]byte{}

// Black returns the all-zero pixel.
func Black() Pixel { return Pixel{} }

// White returns the all-max pixel.
func White() Pixel { return Pixel{MaxByte, MaxByte, MaxByte} }

// Interp blends from towards to by alpha/255, rounding half up.
func Interp(from, to Pixel, alpha uint8) Pixel {
	const half = (MaxByte - MinByte) / 2
	w1 := uint32(alpha)
	w0 := MaxByte - w1
	mix := func(a, b uint8) uint8 {
		return uint8((w0*uint32(a) + w1*uint32(b) + half) / MaxByte)
	}
	return Pixel{
		R: mix(from.R, to.R),
		G: mix(from.G, to.G),
		B: mix(from.B, to.B),
	}
}

// InterpOneBit selects to when alpha is non-zero and from otherwise.
// alpha must be MinByte or MaxByte.
func InterpOneBit(from, to Pixel, alpha uint8) Pixel {
	if alpha != MinByte {
		return to
	}
	return from
}

// pixelsOf reinterprets a byte buffer of length 3n as n pixels sharing the
// same memory.
func pixelsOf(b []byte) []Pixel {
	if len(b) < 3 {
		return nil
	}
	return unsafe.Slice((*Pixel)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/3)
}
