package tile

import "github.com/vovakirdan/tilelab/internal/tensor"

// SpriteShape is the size in pixels shared by every sprite of a TileSet.
type SpriteShape struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// Size returns the number of pixels in a sprite.
func (s SpriteShape) Size() int {
	return s.Height * s.Width
}

// SpriteMetaData classifies a sprite by what its pixel data allows the
// renderer to skip. Values are ordered from cheapest to most expensive.
type SpriteMetaData int

const (
	Invisible                    SpriteMetaData = iota // alpha is zero everywhere
	OpaqueConstRgb                                     // alpha max, one colour
	Opaque                                             // alpha max
	SemiTransparentConstRgbAlpha                       // one colour, one alpha
	SemiTransparentConstRgb                            // one colour
	SemiTransparentConstAlpha                          // one alpha
	SemiTransparent
	OneBitAlphaConstRgb // alpha is zero or max, one colour
	OneBitAlpha         // alpha is zero or max
)

// String returns the classification name.
func (m SpriteMetaData) String() string {
	switch m {
	case Invisible:
		return "Invisible"
	case OpaqueConstRgb:
		return "OpaqueConstRgb"
	case Opaque:
		return "Opaque"
	case SemiTransparentConstRgbAlpha:
		return "SemiTransparentConstRgbAlpha"
	case SemiTransparentConstRgb:
		return "SemiTransparentConstRgb"
	case SemiTransparentConstAlpha:
		return "SemiTransparentConstAlpha"
	case SemiTransparent:
		return "SemiTransparent"
	case OneBitAlphaConstRgb:
		return "OneBitAlphaConstRgb"
	case OneBitAlpha:
		return "OneBitAlpha"
	default:
		return "Unknown"
	}
}

// IsOpaque reports whether the sprite hides everything below it.
func (m SpriteMetaData) IsOpaque() bool {
	return m == Opaque || m == OpaqueConstRgb
}

// TileSet stores sprites as planar RGB and alpha data plus a classification
// per sprite.
type TileSet struct {
	shape SpriteShape
	rgb   []Pixel
	alpha []uint8
	meta  []SpriteMetaData
}

// NewTileSet returns numSprites invisible sprites of the given shape. Their
// colour starts black and their alpha starts at max.
func NewTileSet(numSprites int, shape SpriteShape) *TileSet {
	n := numSprites * shape.Size()
	alpha := make([]uint8, n)
	for i := range alpha {
		alpha[i] = MaxByte
	}
	return &TileSet{
		shape: shape,
		rgb:   make([]Pixel, n),
		alpha: alpha,
		meta:  make([]SpriteMetaData, numSprites),
	}
}

// SpriteShape returns the shape shared by all sprites.
func (ts *TileSet) SpriteShape() SpriteShape {
	return ts.shape
}

// NumSprites returns the number of sprite slots.
func (ts *TileSet) NumSprites() int {
	return len(ts.meta)
}

// MetaData returns the classification of sprite index.
func (ts *TileSet) MetaData(index int) SpriteMetaData {
	return ts.meta[index]
}

// RGB returns the colour plane of sprite index.
func (ts *TileSet) RGB(index int) []Pixel {
	n := ts.shape.Size()
	return ts.rgb[index*n : (index+1)*n : (index+1)*n]
}

// Alpha returns the alpha plane of sprite index.
func (ts *TileSet) Alpha(index int) []uint8 {
	n := ts.shape.Size()
	return ts.alpha[index*n : (index+1)*n : (index+1)*n]
}

// SetSprite replaces sprite index with image, a [height, width, 3|4] byte
// view. Three-channel images are fully opaque. It returns false without
// changing anything when the index or the image shape is wrong.
func (ts *TileSet) SetSprite(index int, image *tensor.ByteView) bool {
	if index < 0 || index >= len(ts.meta) || image.Rank() != 3 ||
		image.Dim(0) != ts.shape.Height || image.Dim(1) != ts.shape.Width {
		return false
	}
	channels := image.Dim(2)
	if channels != 3 && channels != 4 {
		return false
	}

	ts.meta[index] = classify(image)

	rgb, alpha := ts.RGB(index), ts.Alpha(index)
	i := 0
	image.ForEach(func(v uint8) {
		p := i / channels
		switch i % channels {
		case 0:
			rgb[p].R = v
		case 1:
			rgb[p].G = v
		case 2:
			rgb[p].B = v
		case 3:
			alpha[p] = v
		}
		i++
	})
	if channels == 3 {
		for j := range alpha {
			alpha[j] = MaxByte
		}
	}
	return true
}

// channelInfo records uniformity and extremes of one image channel.
type channelInfo struct {
	allSame, allMin, allMax, allMinOrMax bool
}

func classify(image *tensor.ByteView) SpriteMetaData {
	var infos [4]channelInfo
	channels := image.Dim(2)
	for c := range infos {
		infos[c] = channelInfo{allSame: true, allMin: true, allMax: true, allMinOrMax: true}
	}
	for c := 0; c < channels; c++ {
		plane := *image
		plane.Select(2, c)
		info := &infos[c]
		first, seen := uint8(0), false
		plane.ForEach(func(v uint8) {
			if !seen {
				first, seen = v, true
			}
			if v != first {
				info.allSame = false
			}
			switch v {
			case MinByte:
				info.allMax = false
			case MaxByte:
				info.allMin = false
			default:
				info.allMinOrMax = false
			}
		})
		if !info.allMinOrMax {
			info.allMin = false
			info.allMax = false
		}
	}
	if channels < 4 {
		infos[3].allMin = false
	}
	return classifyChannels(infos)
}

func classifyChannels(infos [4]channelInfo) SpriteMetaData {
	alpha := infos[3]
	if alpha.allMin {
		return Invisible
	}
	constRgb := infos[0].allSame && infos[1].allSame && infos[2].allSame
	switch {
	case alpha.allMax && constRgb:
		return OpaqueConstRgb
	case alpha.allMax:
		return Opaque
	case alpha.allMinOrMax && constRgb:
		return OneBitAlphaConstRgb
	case alpha.allMinOrMax:
		return OneBitAlpha
	}
	switch constAlpha := alpha.allSame; {
	case constRgb && constAlpha:
		return SemiTransparentConstRgbAlpha
	case constRgb:
		return SemiTransparentConstRgb
	case constAlpha:
		return SemiTransparentConstAlpha
	default:
		return SemiTransparent
	}
}
