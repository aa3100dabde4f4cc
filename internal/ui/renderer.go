package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/world"
)

// Canvas is the drawing surface the renderer needs. *Screen implements it.
type Canvas interface {
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
}

// HUD glyphs.
const (
	glyphFullHeart  = '♥'
	glyphEmptyHeart = '♡'
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	canvas Canvas
}

// NewRenderer creates a new renderer for the given canvas.
func NewRenderer(canvas Canvas) *Renderer {
	return &Renderer{canvas: canvas}
}

// Render draws the field of view and, below it, the status line.
func (r *Renderer) Render(v world.View, message string) {
	r.canvas.Clear()

	for y, row := range v.Cells {
		for x, cell := range row {
			r.canvas.SetContent(x, y, cell.Glyph, cellStyle(cell))
		}
	}

	hud := len(v.Cells)
	r.drawHUD(v, hud)
	if message != "" {
		r.RenderMessage(message, hud+1)
	}

	r.canvas.Show()
}

// drawHUD writes the health hearts, the level and the engaged enemy on row y.
func (r *Renderer) drawHUD(v world.View, y int) {
	x := 0
	heartStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for i := 0; i < v.MaxHealth; i++ {
		glyph := glyphEmptyHeart
		if i < v.Health {
			glyph = glyphFullHeart
		}
		r.canvas.SetContent(x, y, glyph, heartStyle)
		x++
	}

	x = r.drawText(x+1, y, fmt.Sprintf("%d/%d  Level %d", max(v.Health, 0), v.MaxHealth, v.Level+1),
		tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if e := v.Enemy; e != nil {
		x = r.drawText(x+2, y, "Enemy ", tcell.StyleDefault.Foreground(tcell.ColorWhite))
		r.canvas.SetContent(x, y, e.Glyph, mobStyle(e.Color))
		r.drawText(x+2, y, fmt.Sprintf("%s %d/%d", e.Name, max(e.Health, 0), e.MaxHealth),
			tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
}

// drawText writes s starting at x and returns the column after it.
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.canvas.SetContent(x, y, ch, style)
		x++
	}
	return x
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	r.drawText(0, y, strings.TrimSpace(msg), style)
}

// cellStyle returns the style for a rendered cell.
func cellStyle(c world.Cell) tcell.Style {
	switch c.Kind {
	case world.KindWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.KindFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.KindDoor:
		return tcell.StyleDefault.Foreground(tcell.ColorOlive).Bold(true)
	case world.KindHeart:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case world.KindPlayer:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case world.KindWeapon:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	case world.KindMob:
		return mobStyle(c.Color)
	default:
		return tcell.StyleDefault
	}
}

func mobStyle(hex string) tcell.Style {
	return tcell.StyleDefault.Foreground(gamedata.ColorOr(hex, tcell.ColorMaroon)).Bold(true)
}
