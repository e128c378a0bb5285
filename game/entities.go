// Package game is the playable shell around the power-up engine:
// entities, pooled allocation, the entity view handed to plugins,
// levels, simple physics, and the frame loop.
package game

import (
	"math"

	"github.com/avolkmar/blockfall/constants"
	"github.com/avolkmar/blockfall/powerup"
)

// Ball is a pooled entity. Identity must not be trusted after release;
// callers re-acquire or drop references.
type Ball struct {
	ID          string
	X, Y        float64 // center
	VX, VY      float64
	Radius      float64
	Penetrating bool
	Stuck       bool    // held by a magnet paddle
	StuckOffset float64 // offset from paddle left edge while stuck
	Active      bool
}

// Reset returns a ball to canonical defaults
func (b *Ball) Reset() {
	*b = Ball{Radius: constants.BallRadius}
}

// Speed returns the velocity magnitude
func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// SetSpeed rescales velocity to the given magnitude preserving
// direction. A motionless ball is aimed straight up.
func (b *Ball) SetSpeed(v float64) {
	cur := b.Speed()
	if cur == 0 {
		b.VX, b.VY = 0, -v
		return
	}
	scale := v / cur
	b.VX *= scale
	b.VY *= scale
}

// Paddle is the player entity. X is the left edge.
type Paddle struct {
	X, Y          float64
	Width, Height float64
	Magnet        bool
	FieldWidth    float64
}

// CenterX returns the paddle center
func (p *Paddle) CenterX() float64 {
	return p.X + p.Width/2
}

// ClampX keeps the paddle fully on-screen
func (p *Paddle) ClampX() {
	if p.X < 0 {
		p.X = 0
	}
	if p.X+p.Width > p.FieldWidth {
		p.X = p.FieldWidth - p.Width
	}
}

// Resize sets the paddle size around its current center and re-clamps
// the position on-screen
func (p *Paddle) Resize(w, h float64) {
	center := p.CenterX()
	p.Width = w
	p.Height = h
	p.X = center - w/2
	p.ClampX()
}

// Block is a destructible brick
type Block struct {
	X, Y          float64 // top-left
	Width, Height float64
	HP            int
	MaxHP         int
	Active        bool
}

// Drop is a pooled falling power-up item
type Drop struct {
	ID      string
	Type    powerup.Type
	Variant powerup.Variant
	Icon    rune
	Color   string
	X, Y    float64 // center
	VY      float64
	Size    float64
	Active  bool
}

// Reset returns a drop to canonical defaults
func (d *Drop) Reset() {
	*d = Drop{Size: constants.DropSize}
}

// Particle is a pooled cosmetic fragment from block destruction
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // seconds remaining
	Char   rune
	Active bool
}

// Reset returns a particle to canonical defaults
func (p *Particle) Reset() {
	*p = Particle{}
}
