package core

import "fmt"

// Color selects how a screen cell is styled. Named colours are looked up in
// the render palette; ColorRGB cells carry their own foreground and
// background.
type Color uint8

// Palette entries for level elements and interface text.
const (
	ColorDefault Color = iota
	ColorWall
	ColorFloor
	ColorTarget
	ColorBox
	ColorBoxOnTarget
	ColorPlayer
	ColorText
	ColorHighlight
	ColorDim
	ColorRGB
)

var colorNames = [...]string{
	ColorDefault:     "default",
	ColorWall:        "wall",
	ColorFloor:       "floor",
	ColorTarget:      "target",
	ColorBox:         "box",
	ColorBoxOnTarget: "boxOnTarget",
	ColorPlayer:      "player",
	ColorText:        "text",
	ColorHighlight:   "highlight",
	ColorDim:         "dim",
	ColorRGB:         "rgb",
}

// String returns the palette key of the colour.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// ParseColor maps a palette key back to its Color.
func ParseColor(name string) (Color, bool) {
	for c, n := range colorNames {
		if n == name {
			return Color(c), true
		}
	}
	return ColorDefault, false
}

// RGB is a 24-bit terminal colour.
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
