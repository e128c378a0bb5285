package game

// View adapts State to the powerup.Entities contract. Handles alias
// the live entities; mutations land directly in the frame loop's
// state, never in a copy.

import (
	"github.com/avolkmar/blockfall/powerup"
)

// clone headings alternate around the source ball's direction
var cloneAngles = []float64{0.45, -0.45, 0.9, -0.9}

// View is the zero-copy entity view handed to the effect engine
type View struct {
	s          *State
	cloneCount int
}

// View returns the powerup-facing view of this state
func (s *State) View() *View {
	return &View{s: s}
}

// Balls implements powerup.Entities
func (v *View) Balls() []powerup.BallHandle {
	out := make([]powerup.BallHandle, 0, len(v.s.Balls))
	for _, b := range v.s.Balls {
		if b.Active {
			out = append(out, ballHandle{b})
		}
	}
	return out
}

// Paddle implements powerup.Entities
func (v *View) Paddle() (powerup.PaddleHandle, bool) {
	if v.s.Paddle == nil {
		return nil, false
	}
	return paddleHandle{v.s.Paddle}, true
}

// SpawnBallFrom implements powerup.Entities
func (v *View) SpawnBallFrom(src powerup.BallHandle) (powerup.BallHandle, bool) {
	var source *Ball
	for _, b := range v.s.Balls {
		if b.ID == src.ID() {
			source = b
			break
		}
	}
	if source == nil {
		return nil, false
	}
	angle := cloneAngles[v.cloneCount%len(cloneAngles)]
	v.cloneCount++
	clone := v.s.CloneBall(source, angle)
	if clone == nil {
		return nil, false
	}
	return ballHandle{clone}, true
}

// DespawnBall implements powerup.Entities
func (v *View) DespawnBall(id string) bool {
	return v.s.RemoveBall(id)
}

type ballHandle struct {
	b *Ball
}

func (h ballHandle) ID() string             { return h.b.ID }
func (h ballHandle) Speed() float64         { return h.b.Speed() }
func (h ballHandle) SetSpeed(v float64)     { h.b.SetSpeed(v) }
func (h ballHandle) Penetrating() bool      { return h.b.Penetrating }
func (h ballHandle) SetPenetrating(on bool) { h.b.Penetrating = on }

type paddleHandle struct {
	p *Paddle
}

func (h paddleHandle) ID() string { return "paddle" }

func (h paddleHandle) Size() (w, h2 float64) {
	return h.p.Width, h.p.Height
}

func (h paddleHandle) SetSize(w, h2 float64) {
	h.p.Resize(w, h2)
}

func (h paddleHandle) Magnet() bool      { return h.p.Magnet }
func (h paddleHandle) SetMagnet(on bool) { h.p.Magnet = on }
