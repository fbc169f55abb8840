package tile

import (
	"testing"

	"github.com/vovakirdan/tilelab/internal/tensor"
)

// image2x1 builds a [1, 2, channels] sprite from interleaved bytes.
func image2x1(t *testing.T, data ...uint8) *tensor.ByteView {
	t.Helper()
	v, err := tensor.FromSlice(data, 1, 2, len(data)/2)
	if err != nil {
		t.Fatalf("FromSlice() failed: %v", err)
	}
	return v
}

func TestSpriteClassification(t *testing.T) {
	tests := []struct {
		name     string
		data     []uint8
		expected SpriteMetaData
	}{
		{"invisible", []uint8{1, 2, 3, 0, 4, 5, 6, 0}, Invisible},
		{"opaque const rgb", []uint8{1, 2, 3, 255, 1, 2, 3, 255}, OpaqueConstRgb},
		{"opaque", []uint8{1, 2, 3, 255, 4, 5, 6, 255}, Opaque},
		{"rgb without alpha", []uint8{1, 2, 3, 4, 5, 6}, Opaque},
		{"rgb without alpha const", []uint8{7, 7, 7, 7, 7, 7}, OpaqueConstRgb},
		{"one bit const rgb", []uint8{1, 2, 3, 0, 1, 2, 3, 255}, OneBitAlphaConstRgb},
		{"one bit", []uint8{1, 2, 3, 0, 4, 5, 6, 255}, OneBitAlpha},
		{"const rgb alpha", []uint8{2, 4, 6, 0x7f, 2, 4, 6, 0x7f}, SemiTransparentConstRgbAlpha},
		{"const rgb", []uint8{2, 4, 6, 0x7f, 2, 4, 6, 0x80}, SemiTransparentConstRgb},
		{"const alpha", []uint8{2, 4, 6, 0x7f, 1, 4, 6, 0x7f}, SemiTransparentConstAlpha},
		{"semi transparent", []uint8{2, 4, 6, 0x7f, 1, 4, 6, 0}, SemiTransparent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTileSet(1, SpriteShape{Height: 1, Width: 2})
			if !ts.SetSprite(0, image2x1(t, tt.data...)) {
				t.Fatal("SetSprite() failed")
			}
			if got := ts.MetaData(0); got != tt.expected {
				t.Errorf("MetaData() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSetSpriteStoresPlanes(t *testing.T) {
	ts := NewTileSet(2, SpriteShape{Height: 1, Width: 2})
	if !ts.SetSprite(1, image2x1(t, 1, 2, 3, 4, 5, 6, 7, 8)) {
		t.Fatal("SetSprite() failed")
	}
	if got := ts.RGB(1); got[0] != (Pixel{1, 2, 3}) || got[1] != (Pixel{5, 6, 7}) {
		t.Errorf("RGB(1) = %v, expected [{1 2 3} {5 6 7}]", got)
	}
	if got := ts.Alpha(1); got[0] != 4 || got[1] != 8 {
		t.Errorf("Alpha(1) = %v, expected [4 8]", got)
	}
	if got := ts.MetaData(0); got != Invisible {
		t.Errorf("untouched sprite MetaData() = %v, expected Invisible", got)
	}
	if got := ts.Alpha(0); got[0] != MaxByte {
		t.Errorf("untouched sprite alpha = %d, expected %d", got[0], MaxByte)
	}
}

func TestSetSpriteFromStridedImage(t *testing.T) {
	// A [2, 1, 3] image read through a transposed [2, 1] grid of pixels.
	v, err := tensor.FromSlice([]uint8{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	if err != nil {
		t.Fatalf("FromSlice() failed: %v", err)
	}
	v.Transpose(0, 1)

	ts := NewTileSet(1, SpriteShape{Height: 2, Width: 1})
	if !ts.SetSprite(0, v) {
		t.Fatal("SetSprite() failed")
	}
	if got := ts.RGB(0); got[0] != (Pixel{1, 2, 3}) || got[1] != (Pixel{4, 5, 6}) {
		t.Errorf("RGB(0) = %v", got)
	}
}

func TestSetSpriteRejectsBadInput(t *testing.T) {
	ts := NewTileSet(1, SpriteShape{Height: 1, Width: 2})
	tests := []struct {
		name  string
		index int
		shape []int
	}{
		{"negative index", -1, []int{1, 2, 3}},
		{"index out of range", 1, []int{1, 2, 3}},
		{"wrong height", 0, []int{2, 2, 3}},
		{"wrong width", 0, []int{1, 1, 3}},
		{"two channels", 0, []int{1, 2, 2}},
		{"five channels", 0, []int{1, 2, 5}},
		{"rank two", 0, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ts.SetSprite(tt.index, tensor.New[uint8](tt.shape...)) {
				t.Error("SetSprite() should fail")
			}
		})
	}
}
