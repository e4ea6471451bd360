package diggy

import (
	"fmt"
	"strings"

	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

const (
	hudHeight = 2
	cellW     = 2 // Terminal columns per grid cell
)

type glyph struct {
	r rune
	c platformcore.Color
}

var cellGlyphs = map[core.Cell]glyph{
	core.Decoration: {'▓', platformcore.ColorDarkBrown},
	core.Hole:       {' ', platformcore.ColorDefault},
	core.Dirt:       {'░', platformcore.ColorBrown},
	core.Gold:       {'$', platformcore.ColorBrightYellow},
	core.Sky:        {'"', platformcore.ColorBrightGreen},
	core.Diamond:    {'◆', platformcore.ColorBrightCyan},
	core.Hazard:     {'!', platformcore.ColorBrightRed},
	core.PowerUp:    {'+', platformcore.ColorGreen},
}

// Glyph returns the terminal rune and color used for a cell.
func Glyph(c core.Cell) (rune, platformcore.Color) {
	g, ok := cellGlyphs[c]
	if !ok {
		g = cellGlyphs[core.Dirt]
	}
	return g.r, g.c
}

// Render draws the HUD and the playfield into dst.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderOverlay(dst, "Configuration error", truncate(g.err.Error(), dst.Width()-6))
		return
	}
	if g.ctrl == nil {
		return
	}

	g.renderHUD(dst)

	cfg := g.ctrl.Config()
	fieldW := (cfg.Width + 2*cfg.DecoWidth) * cellW
	fieldH := cfg.Height
	if dst.Width() < fieldW || dst.Height() < fieldH+hudHeight {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderField(dst, (dst.Width()-fieldW)/2, hudHeight)

	switch {
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score %d  Press R to restart", g.scorer.Score()))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hp, maxHP := g.Health()
	hearts := strings.Repeat("♥", hp) + strings.Repeat("·", max(0, maxHP-hp))
	if g.mode == ModeZen {
		hearts = "∞"
	}
	hud := fmt.Sprintf(" %s  Score: %d  Depth: %d  HP: %s", g.Title(), g.scorer.Score(), g.ctrl.Cursor().Depth, hearts)
	dst.DrawText(0, 0, hud)

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderField draws border columns, the grid window and the player.
func (g *Game) renderField(dst *platformcore.Screen, ox, oy int) {
	cfg := g.ctrl.Config()
	surface := g.surface.Visible()

	put := func(col, row int, c core.Cell) {
		r, color := Glyph(c)
		x := ox + (col+cfg.DecoWidth)*cellW
		for i := range cellW {
			dst.SetColored(x+i, oy+row, r, color)
		}
	}

	for row := 0; row < cfg.Height; row++ {
		border := core.Decoration
		if row == 0 && surface {
			border = core.Sky
		}
		for i := 1; i <= cfg.DecoWidth; i++ {
			put(-i, row, border)
			put(cfg.Width-1+i, row, border)
		}
		for col := 0; col < cfg.Width; col++ {
			put(col, row, g.ctrl.CellAt(row, col))
		}
	}

	if pr := g.ctrl.PlayerRow(); pr >= 0 && pr < cfg.Height {
		x := ox + (cfg.Width/2+cfg.DecoWidth)*cellW
		dst.SetColored(x, oy+pr, '@', platformcore.ColorBrightWhite)
		dst.SetColored(x+1, oy+pr, ' ', platformcore.ColorDefault)
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	boxW := maxLen + 4
	boxH := 5
	box := platformcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
