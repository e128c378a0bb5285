package game

// Deliberately simple arcade physics: axis-aligned reflection with a
// paddle-offset serve angle. This is shell plumbing, not a simulation.

import (
	"math"
	"time"

	"github.com/avolkmar/blockfall/constants"
)

// Event flags something the shell reacts to (sound, HUD flash)
type Event int

const (
	EventWallBounce Event = iota
	EventPaddleBounce
	EventBlockHit
	EventBlockDestroyed
	EventBallLost
	EventLifeLost
	EventLevelCleared
	EventGameOver
)

// StepResult reports what one physics step changed
type StepResult struct {
	Destroyed []*Block
	Events    []Event
}

func rotateVec(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}

// Step advances balls, drops-independent collisions, and particles by
// dt. Drop movement lives in the Spawner so collection stays next to
// the effect-apply call.
func (s *State) Step(dt time.Duration) StepResult {
	var res StepResult
	secs := dt.Seconds()

	balls := make([]*Ball, len(s.Balls))
	copy(balls, s.Balls)
	for _, b := range balls {
		if !b.Active || b.Stuck {
			continue
		}
		b.X += b.VX * secs
		b.Y += b.VY * secs

		s.bounceWalls(b, &res)
		s.bouncePaddle(b, &res)
		s.hitBlocks(b, &res)

		if b.Y-b.Radius > s.Height {
			s.loseBall(b, &res)
		}
	}

	s.stepParticles(secs)

	if s.BlocksRemaining() == 0 && !s.GameOver {
		s.NextLevel()
		res.Events = append(res.Events, EventLevelCleared)
	}
	return res
}

func (s *State) bounceWalls(b *Ball, res *StepResult) {
	bounced := false
	if b.X-b.Radius < 0 {
		b.X = b.Radius
		b.VX = -b.VX
		bounced = true
	}
	if b.X+b.Radius > s.Width {
		b.X = s.Width - b.Radius
		b.VX = -b.VX
		bounced = true
	}
	if b.Y-b.Radius < 0 {
		b.Y = b.Radius
		b.VY = -b.VY
		bounced = true
	}
	if bounced {
		res.Events = append(res.Events, EventWallBounce)
	}
}

func (s *State) bouncePaddle(b *Ball, res *StepResult) {
	p := s.Paddle
	if b.VY <= 0 {
		return
	}
	if b.Y+b.Radius < p.Y || b.Y-b.Radius > p.Y+p.Height {
		return
	}
	if b.X+b.Radius < p.X || b.X-b.Radius > p.X+p.Width {
		return
	}

	if p.Magnet {
		b.Stuck = true
		b.StuckOffset = clamp(b.X-p.X, 0, p.Width)
		b.X = p.X + b.StuckOffset
		b.Y = p.Y - b.Radius
		b.VX, b.VY = 0, 0
		res.Events = append(res.Events, EventPaddleBounce)
		return
	}

	// serve angle follows where the ball struck the paddle
	speed := b.Speed()
	offset := clamp((b.X-p.CenterX())/(p.Width/2), -1, 1)
	angle := offset * 1.05 // radians off vertical
	b.VX, b.VY = rotateVec(0, -speed, angle)
	b.Y = p.Y - b.Radius
	res.Events = append(res.Events, EventPaddleBounce)
}

func (s *State) hitBlocks(b *Ball, res *StepResult) {
	for _, blk := range s.Blocks {
		if !blk.Active {
			continue
		}
		if b.X+b.Radius < blk.X || b.X-b.Radius > blk.X+blk.Width {
			continue
		}
		if b.Y+b.Radius < blk.Y || b.Y-b.Radius > blk.Y+blk.Height {
			continue
		}

		blk.HP--
		if blk.HP <= 0 {
			blk.Active = false
			s.Score += constants.BlockScore * blk.MaxHP
			s.burstParticles(blk)
			res.Destroyed = append(res.Destroyed, blk)
			res.Events = append(res.Events, EventBlockDestroyed)
		} else {
			res.Events = append(res.Events, EventBlockHit)
		}

		if !b.Penetrating {
			// reflect along the axis of least penetration
			overlapX := math.Min(b.X+b.Radius-blk.X, blk.X+blk.Width-(b.X-b.Radius))
			overlapY := math.Min(b.Y+b.Radius-blk.Y, blk.Y+blk.Height-(b.Y-b.Radius))
			if overlapX < overlapY {
				b.VX = -b.VX
			} else {
				b.VY = -b.VY
			}
			return // one block per step when bouncing
		}
	}
}

func (s *State) loseBall(b *Ball, res *StepResult) {
	s.RemoveBall(b.ID)
	res.Events = append(res.Events, EventBallLost)
	if len(s.Balls) > 0 {
		return
	}

	s.Lives--
	res.Events = append(res.Events, EventLifeLost)
	if s.Lives <= 0 {
		s.GameOver = true
		res.Events = append(res.Events, EventGameOver)
		return
	}
	s.spawnServeBall()
}

func (s *State) burstParticles(blk *Block) {
	for i := 0; i < 6; i++ {
		p, ok := s.particlePool.Acquire()
		if !ok {
			return
		}
		angle := float64(i) * (math.Pi / 3)
		p.X = blk.X + blk.Width/2
		p.Y = blk.Y + blk.Height/2
		p.VX, p.VY = rotateVec(0, -60, angle)
		p.Life = 0.4
		p.Char = '*'
		p.Active = true
		s.Particles = append(s.Particles, p)
	}
}

func (s *State) stepParticles(secs float64) {
	alive := s.Particles[:0]
	for _, p := range s.Particles {
		p.Life -= secs
		if p.Life <= 0 {
			p.Active = false
			s.particlePool.Release(p)
			continue
		}
		p.X += p.VX * secs
		p.Y += p.VY * secs
		alive = append(alive, p)
	}
	s.Particles = alive
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
