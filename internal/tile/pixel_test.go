package tile

import (
	"math"
	"testing"
)

func TestInterp(t *testing.T) {
	tests := []struct {
		name     string
		from, to Pixel
		alpha    uint8
		expected Pixel
	}{
		{"transparent keeps from", Pixel{10, 20, 30}, Pixel{200, 100, 50}, 0, Pixel{10, 20, 30}},
		{"opaque takes to", Pixel{10, 20, 30}, Pixel{200, 100, 50}, 255, Pixel{200, 100, 50}},
		{"half over black", Black(), Pixel{2, 4, 6}, 0x7f, Pixel{1, 2, 3}},
		{"half over colour", Pixel{10, 20, 30}, Pixel{2, 4, 6}, 0x7f, Pixel{6, 12, 18}},
		{"black over grey", Pixel{0x80, 0x80, 0x80}, Black(), 0x7f, Pixel{0x40, 0x40, 0x40}},
		{"white over black", Black(), White(), 0x80, Pixel{0x80, 0x80, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interp(tt.from, tt.to, tt.alpha); got != tt.expected {
				t.Errorf("Interp() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestInterpRoundsToNearest(t *testing.T) {
	for alpha := range 256 {
		for v := range 256 {
			got := Interp(Black(), Pixel{uint8(v), 0, 0}, uint8(alpha)).R
			expected := uint8(math.Round(float64(v*alpha) / 255))
			if got != expected {
				t.Fatalf("Interp(0, %d, %d) = %d, expected %d", v, alpha, got, expected)
			}
		}
	}
}

func TestInterpOneBit(t *testing.T) {
	from, to := Pixel{1, 2, 3}, Pixel{4, 5, 6}
	if got := InterpOneBit(from, to, MinByte); got != from {
		t.Errorf("InterpOneBit(alpha=0) = %v, expected %v", got, from)
	}
	if got := InterpOneBit(from, to, MaxByte); got != to {
		t.Errorf("InterpOneBit(alpha=255) = %v, expected %v", got, to)
	}
}

func TestPixelsOfSharesMemory(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6}
	px := pixelsOf(b)
	if len(px) != 2 {
		t.Fatalf("pixelsOf() has %d pixels, expected 2", len(px))
	}
	px[1] = White()
	if b[3] != 255 || b[4] != 255 || b[5] != 255 {
		t.Errorf("pixelsOf() did not share memory, bytes = %v", b)
	}
	if pixelsOf(nil) != nil {
		t.Error("pixelsOf(nil) should be nil")
	}
}

func TestBlendBlackKernelsIgnoreOutput(t *testing.T) {
	rgb := []Pixel{{2, 4, 6}, {10, 20, 30}}
	alpha := []uint8{0x7f, 0}
	out := []Pixel{White(), White()}

	BlendBlack(rgb, alpha, out)
	if out[0] != (Pixel{1, 2, 3}) || out[1] != Black() {
		t.Errorf("BlendBlack() = %v", out)
	}

	out = []Pixel{White(), White()}
	BlendBlackOneBit(rgb, []uint8{0, 255}, out)
	if out[0] != Black() || out[1] != rgb[1] {
		t.Errorf("BlendBlackOneBit() = %v", out)
	}

	out = []Pixel{White(), White()}
	BlendBlackOpaqueConstRgb(rgb[1], out)
	if out[0] != rgb[1] || out[1] != rgb[1] {
		t.Errorf("BlendBlackOpaqueConstRgb() = %v", out)
	}
}

func TestBlendKernelsUseOutput(t *testing.T) {
	out := []Pixel{{10, 20, 30}, {10, 20, 30}}
	BlendConstRgbAlpha(Pixel{2, 4, 6}, 0x7f, out)
	for i, p := range out {
		if p != (Pixel{6, 12, 18}) {
			t.Errorf("BlendConstRgbAlpha()[%d] = %v, expected {6 12 18}", i, p)
		}
	}

	out = []Pixel{{1, 1, 1}, {1, 1, 1}}
	BlendOneBitConstRgb(White(), []uint8{255, 0}, out)
	if out[0] != White() || out[1] != (Pixel{1, 1, 1}) {
		t.Errorf("BlendOneBitConstRgb() = %v", out)
	}
}
