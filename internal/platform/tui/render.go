package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/core"
)

// ScreenRenderer converts Screen buffers to styled strings.
type ScreenRenderer struct {
	palette config.Palette
	styles  map[core.Color]lipgloss.Style
}

// NewScreenRenderer builds one foreground style per palette colour.
func NewScreenRenderer(p config.Palette) *ScreenRenderer {
	r := &ScreenRenderer{
		palette: p,
		styles:  make(map[core.Color]lipgloss.Style),
	}
	for c := core.ColorDefault; c < core.ColorRGB; c++ {
		r.styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Hex(c)))
	}
	return r
}

var defaultRenderer = NewScreenRenderer(config.DefaultPalette())

// RenderScreen renders s with the built-in palette.
func RenderScreen(s *core.Screen) string {
	return defaultRenderer.Render(s)
}

// style returns the style of a cell. Pixel cells carry their own colours.
func (r *ScreenRenderer) style(c core.Cell) lipgloss.Style {
	if c.Color == core.ColorRGB {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.FG.Hex())).
			Background(lipgloss.Color(c.BG.Hex()))
	}
	if st, ok := r.styles[c.Color]; ok {
		return st
	}
	return r.styles[core.ColorDefault]
}

func sameStyle(a, b core.Cell) bool {
	if a.Color != b.Color {
		return false
	}
	return a.Color != core.ColorRGB || (a.FG == b.FG && a.BG == b.BG)
}

// Render converts a Screen buffer to a styled string for display.
// Adjacent cells with the same style are written as one run.
func (r *ScreenRenderer) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if !sameStyle(cell, start) {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(r.style(start).Render(run.String()))
		}
	}
	return sb.String()
}
