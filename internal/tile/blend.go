package tile

// Kernels that composite a sprite onto pixels already in out.

// BlendConstRgbAlpha blends a single colour at a single alpha.
func BlendConstRgbAlpha(rgb Pixel, alpha uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(out[i], rgb, alpha)
	}
}

// BlendConstRgb blends a single colour with per-pixel alpha.
func BlendConstRgb(rgb Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(out[i], rgb, alpha[i])
	}
}

// BlendConstAlpha blends per-pixel colour at a single alpha.
func BlendConstAlpha(rgb []Pixel, alpha uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(out[i], rgb[i], alpha)
	}
}

// Blend blends per-pixel colour with per-pixel alpha.
func Blend(rgb []Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(out[i], rgb[i], alpha[i])
	}
}

// BlendOneBitConstRgb overwrites with a single colour where alpha is set.
func BlendOneBitConstRgb(rgb Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = InterpOneBit(out[i], rgb, alpha[i])
	}
}

// BlendOneBit overwrites with per-pixel colour where alpha is set.
func BlendOneBit(rgb []Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = InterpOneBit(out[i], rgb[i], alpha[i])
	}
}

// Kernels that composite a sprite onto an implicit black background,
// ignoring the previous contents of out.

// BlendBlackConstRgbAlpha fills out with rgb at alpha over black.
func BlendBlackConstRgbAlpha(rgb Pixel, alpha uint8, out []Pixel) {
	p := Interp(Black(), rgb, alpha)
	for i := range out {
		out[i] = p
	}
}

// BlendBlackConstRgb writes rgb at per-pixel alpha over black.
func BlendBlackConstRgb(rgb Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(Black(), rgb, alpha[i])
	}
}

// BlendBlackConstAlpha writes per-pixel colour at a single alpha over black.
func BlendBlackConstAlpha(rgb []Pixel, alpha uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(Black(), rgb[i], alpha)
	}
}

// BlendBlack writes per-pixel colour at per-pixel alpha over black.
func BlendBlack(rgb []Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = Interp(Black(), rgb[i], alpha[i])
	}
}

// BlendBlackOneBitConstRgb writes rgb where alpha is set and black elsewhere.
func BlendBlackOneBitConstRgb(rgb Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = InterpOneBit(Black(), rgb, alpha[i])
	}
}

// BlendBlackOneBit writes per-pixel colour where alpha is set and black
// elsewhere.
func BlendBlackOneBit(rgb []Pixel, alpha []uint8, out []Pixel) {
	for i := range out {
		out[i] = InterpOneBit(Black(), rgb[i], alpha[i])
	}
}

// BlendBlackOpaque copies rgb.
func BlendBlackOpaque(rgb []Pixel, out []Pixel) {
	copy(out, rgb)
}

// BlendBlackOpaqueConstRgb fills out with rgb.
func BlendBlackOpaqueConstRgb(rgb Pixel, out []Pixel) {
	for i := range out {
		out[i] = rgb
	}
}
