// Package render draws the game state onto a tcell screen. Strictly a
// read-only consumer: it never mutates entities or effects.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/avolkmar/blockfall/constants"
	"github.com/avolkmar/blockfall/game"
	"github.com/avolkmar/blockfall/powerup"
)

// hudRows is the screen space reserved above the playfield
const hudRows = 1

var colorNames = map[string]tcell.Color{
	"cyan":    tcell.ColorDarkCyan,
	"green":   tcell.ColorGreen,
	"yellow":  tcell.ColorYellow,
	"red":     tcell.ColorRed,
	"magenta": tcell.ColorDarkMagenta,
}

var blockStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorGray),
	tcell.StyleDefault.Foreground(tcell.ColorBlue),
	tcell.StyleDefault.Foreground(tcell.ColorTeal),
	tcell.StyleDefault.Foreground(tcell.ColorOlive),
}

// Renderer draws one frame at a time
type Renderer struct {
	screen tcell.Screen
}

// New creates a renderer on the given screen
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// cell converts field units to a screen cell, offset below the HUD
func cell(x, y float64) (int, int) {
	return int(x / constants.UnitsPerCell), hudRows + int(y/constants.UnitsPerCell)
}

// Draw renders the full frame: HUD, playfield, active-effect bar
func (r *Renderer) Draw(s *game.State, effects []powerup.EffectStatus, best int, paused bool) {
	r.screen.Clear()

	r.drawHUD(s, best, paused)
	r.drawBlocks(s)
	r.drawDrops(s)
	r.drawPaddle(s)
	r.drawBalls(s)
	r.drawParticles(s)
	r.drawEffectBar(effects)

	if s.GameOver {
		r.centerText("GAME OVER - q to quit", tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	} else if paused {
		r.centerText("PAUSED", tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}

	r.screen.Show()
}

func (r *Renderer) drawHUD(s *game.State, best int, paused bool) {
	hud := fmt.Sprintf(" score %d  best %d  lives %d  level %d", s.Score, best, s.Lives, s.Level)
	r.text(0, 0, hud, tcell.StyleDefault.Bold(true))
}

func (r *Renderer) drawBlocks(s *game.State) {
	for _, blk := range s.Blocks {
		if !blk.Active {
			continue
		}
		style := blockStyles[min(blk.HP, len(blockStyles)-1)]
		cx, cy := cell(blk.X, blk.Y)
		cols := int(blk.Width / constants.UnitsPerCell)
		for i := 0; i < cols; i++ {
			r.screen.SetContent(cx+i, cy, '▒', nil, style)
		}
	}
}

func (r *Renderer) drawPaddle(s *game.State) {
	p := s.Paddle
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	if p.Magnet {
		style = style.Foreground(tcell.ColorDarkMagenta)
	}
	cx, cy := cell(p.X, p.Y)
	cols := int(p.Width / constants.UnitsPerCell)
	if cols < 1 {
		cols = 1
	}
	for i := 0; i < cols; i++ {
		r.screen.SetContent(cx+i, cy, '═', nil, style)
	}
}

func (r *Renderer) drawBalls(s *game.State) {
	for _, b := range s.Balls {
		if !b.Active {
			continue
		}
		ch := 'o'
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if b.Penetrating {
			ch = '*'
			style = style.Foreground(tcell.ColorRed)
		}
		cx, cy := cell(b.X, b.Y)
		r.screen.SetContent(cx, cy, ch, nil, style)
	}
}

func (r *Renderer) drawDrops(s *game.State) {
	for _, d := range s.Drops {
		if !d.Active {
			continue
		}
		style := tcell.StyleDefault.Foreground(colorFor(d.Color)).Bold(true)
		cx, cy := cell(d.X, d.Y)
		r.screen.SetContent(cx, cy, d.Icon, nil, style)
	}
}

func (r *Renderer) drawParticles(s *game.State) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, p := range s.Particles {
		if !p.Active {
			continue
		}
		cx, cy := cell(p.X, p.Y)
		r.screen.SetContent(cx, cy, p.Char, nil, style)
	}
}

// drawEffectBar lists active effects with remaining seconds along the
// bottom row
func (r *Renderer) drawEffectBar(effects []powerup.EffectStatus) {
	_, h := r.screen.Size()
	x := 0
	for _, e := range effects {
		label := fmt.Sprintf("%c %ds  ", e.Icon, int(e.Remaining.Seconds())+1)
		style := tcell.StyleDefault.Foreground(colorFor(e.Color)).Bold(true)
		for _, ch := range label {
			r.screen.SetContent(x, h-1, ch, nil, style)
			x++
		}
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *Renderer) centerText(s string, style tcell.Style) {
	w, h := r.screen.Size()
	r.text((w-len(s))/2, h/2, s, style)
}

func colorFor(name string) tcell.Color {
	if c, ok := colorNames[name]; ok {
		return c
	}
	return tcell.ColorWhite
}
