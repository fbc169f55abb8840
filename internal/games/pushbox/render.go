package pushbox

import (
	"fmt"

	"github.com/vovakirdan/tilelab/internal/core"
	pb "github.com/vovakirdan/tilelab/internal/pushbox"
)

const (
	hudHeight    = 2 // Status line and separator
	footerHeight = 1 // Controls hint
	cellWidth    = 2 // Terminal columns per tile in glyph view
)

// glyph is the two-column drawing of one tile.
type glyph struct {
	text  string
	color core.Color
}

var (
	glyphWall        = glyph{"██", core.ColorWall}
	glyphFloor       = glyph{"  ", core.ColorFloor}
	glyphTarget      = glyph{"()", core.ColorTarget}
	glyphBox         = glyph{"[]", core.ColorBox}
	glyphBoxOnTarget = glyph{"[]", core.ColorBoxOnTarget}
	glyphPlayer      = glyph{"@ ", core.ColorPlayer}
	glyphPlayerOnTgt = glyph{"@)", core.ColorPlayer}
)

// glyphAt returns the glyph of the cell at c.
func glyphAt(level *pb.Level, c pb.Coord) glyph {
	tile := level.TileAt(c)
	switch {
	case tile == pb.TileWall:
		return glyphWall
	case level.HasBox(c) && tile == pb.TileTarget:
		return glyphBoxOnTarget
	case level.HasBox(c):
		return glyphBox
	case level.Player() == c && tile == pb.TileTarget:
		return glyphPlayerOnTgt
	case level.Player() == c:
		return glyphPlayer
	case tile == pb.TileTarget:
		return glyphTarget
	default:
		return glyphFloor
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)
	g.renderFooter(dst)

	if g.level == nil {
		msg := g.message
		if msg == "" {
			msg = "No level loaded"
		}
		g.renderOverlay(dst, "Cannot start", msg)
		return
	}

	area := core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight-footerHeight)
	drawn := false
	if g.view == ViewPixels {
		drawn = g.renderPixels(dst, area)
	}
	if !drawn && !g.renderGlyphs(dst, area) {
		g.renderOverlay(dst, "Window too small", "Please resize terminal")
		return
	}

	switch {
	case g.won:
		g.renderOverlay(dst, "You Win!", "All levels cleared! Press R to restart")
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", g.message)
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " " + g.Title()
	if g.level != nil {
		hud += fmt.Sprintf(" | %s | Moves: %d | Pushes: %d | Boxes: %d/%d | Score: %d",
			g.levelID, g.level.Moves(), g.level.Pushes(),
			g.level.BoxesOnTarget(), g.level.NumBoxes(), g.score)
		if g.mode == ModePack {
			hud += fmt.Sprintf(" | Level %d/%d", g.packIndex+1, len(g.pack))
		}
	}
	dst.DrawTextWithColor(0, 0, hud, core.ColorText)

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 1, '─', core.ColorDim)
	}
}

// renderFooter draws the controls hint on the last row.
func (g *Game) renderFooter(dst *core.Screen) {
	controls := " Arrows/WASD: Move | U: Undo | R: Restart | Tab: View | P: Pause | Q: Quit"
	dst.DrawTextWithColor(0, dst.Height()-1, controls, core.ColorDim)
}

// renderGlyphs draws the level as coloured text centered in area.
func (g *Game) renderGlyphs(dst *core.Screen, area core.Rect) bool {
	w, h := g.level.Width()*cellWidth, g.level.Height()
	if w > area.W || h > area.H {
		return false
	}
	x0 := area.X + (area.W-w)/2
	y0 := area.Y + (area.H-h)/2
	for y := range g.level.Height() {
		for x := range g.level.Width() {
			gl := glyphAt(g.level, pb.C(x, y))
			dst.DrawTextWithColor(x0+x*cellWidth, y0+y, gl.text, gl.color)
		}
	}
	return true
}

// renderPixels draws the level with the sprite renderer. It returns false
// when sprites are unavailable or do not fit.
func (g *Game) renderPixels(dst *core.Screen, area core.Rect) bool {
	if g.sheet == nil {
		return false
	}
	size := g.sheet.SpriteSize()
	pw, ph := g.level.Width()*size, g.level.Height()*size
	rows := (ph + 1) / 2
	if pw > area.W || rows > area.H {
		return false
	}

	if g.pixelView == nil {
		view, err := g.sheet.NewView(g.level.Width(), g.level.Height())
		if err != nil {
			return false
		}
		g.pixelView = view
	}
	if _, err := g.pixelView.Render(g.level); err != nil {
		return false
	}
	g.pixels = g.pixelView.TerminalPixels(g.pixels)

	x0 := area.X + (area.W-pw)/2
	y0 := area.Y + (area.H-rows)/2
	dst.BlitPixels(x0, y0, g.pixels, pw, ph)
	return true
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCenteredWithColor(box.Y+1, line1, core.ColorHighlight)
	dst.DrawTextCenteredWithColor(box.Y+3, line2, core.ColorText)
}
