package game

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/avolkmar/blockfall/constants"
	"github.com/avolkmar/blockfall/pool"
)

// State is the authoritative, mutable game state owned by the frame
// loop. Entity slices are the single source the power-up view aliases;
// nothing copies them.
type State struct {
	Width, Height float64

	Balls     []*Ball
	Paddle    *Paddle
	Blocks    []*Block
	Drops     []*Drop
	Particles []*Particle

	Score    int
	Lives    int
	Level    int
	GameOver bool

	log *slog.Logger

	ballPool     *pool.Pool[Ball]
	dropPool     *pool.Pool[Drop]
	particlePool *pool.Pool[Particle]
}

// NewState builds a fresh session: pools, paddle, level 1 blocks, and
// one ball stuck to the paddle waiting for launch.
func NewState(log *slog.Logger) *State {
	if log == nil {
		log = slog.Default()
	}
	s := &State{
		Width:  constants.FieldWidth,
		Height: constants.FieldHeight,
		Lives:  constants.StartLives,
		Level:  1,
		log:    log,
	}

	s.ballPool = pool.New(pool.Config{
		Name:        "balls",
		InitialSize: constants.BallPoolSize,
		MaxSize:     constants.BallPoolSize,
	}, log, func() *Ball { return &Ball{} }, func(b *Ball) { b.Reset() })

	s.dropPool = pool.New(pool.Config{
		Name:        "drops",
		InitialSize: constants.DropPoolSize,
		MaxSize:     constants.DropPoolSize,
	}, log, func() *Drop { return &Drop{} }, func(d *Drop) { d.Reset() })

	s.particlePool = pool.New(pool.Config{
		Name:        "particles",
		InitialSize: constants.ParticlePoolSize / 4,
		MaxSize:     constants.ParticlePoolSize,
		Growable:    true,
	}, log, func() *Particle { return &Particle{} }, func(p *Particle) { p.Reset() })

	s.Paddle = &Paddle{
		X:          (s.Width - constants.PaddleWidth) / 2,
		Y:          constants.PaddleY,
		Width:      constants.PaddleWidth,
		Height:     constants.PaddleHeight,
		FieldWidth: s.Width,
	}

	s.Blocks = BuildLevel(s.Level)
	s.spawnServeBall()
	return s
}

// spawnServeBall puts a fresh ball on the paddle, stuck until launch
func (s *State) spawnServeBall() {
	b, ok := s.ballPool.Acquire()
	if !ok {
		s.log.Error("ball pool exhausted on serve")
		return
	}
	b.ID = uuid.NewString()
	b.Active = true
	b.Stuck = true
	b.StuckOffset = s.Paddle.Width / 2
	b.X = s.Paddle.X + b.StuckOffset
	b.Y = s.Paddle.Y - b.Radius
	b.VX, b.VY = 0, 0
	s.Balls = append(s.Balls, b)
}

// CloneBall acquires a new ball copying src's position and speed, with
// the heading rotated so the pair separates. Returns nil when the pool
// is capped out.
func (s *State) CloneBall(src *Ball, rotate float64) *Ball {
	b, ok := s.ballPool.Acquire()
	if !ok {
		return nil
	}
	b.ID = uuid.NewString()
	b.Active = true
	b.X, b.Y = src.X, src.Y
	b.VX, b.VY = rotateVec(src.VX, src.VY, rotate)
	if src.Stuck {
		// launch clones of a held ball straight away
		b.VX, b.VY = rotateVec(0, -constants.BallSpeed, rotate)
	}
	s.Balls = append(s.Balls, b)
	return b
}

// RemoveBall despawns the ball with the given id and returns it to the
// pool
func (s *State) RemoveBall(id string) bool {
	for i, b := range s.Balls {
		if b.ID == id {
			b.Active = false
			s.Balls = append(s.Balls[:i], s.Balls[i+1:]...)
			s.ballPool.Release(b)
			return true
		}
	}
	return false
}

// MovePaddle nudges the paddle horizontally, clamped on-screen. Held
// balls ride along.
func (s *State) MovePaddle(dx float64) {
	s.Paddle.X += dx
	s.Paddle.ClampX()
	for _, b := range s.Balls {
		if b.Stuck {
			b.X = s.Paddle.X + b.StuckOffset
		}
	}
}

// LaunchBalls releases every held ball
func (s *State) LaunchBalls() {
	for _, b := range s.Balls {
		if b.Stuck {
			b.Stuck = false
			b.VX, b.VY = rotateVec(0, -constants.BallSpeed, (b.StuckOffset/s.Paddle.Width-0.5)*0.8)
		}
	}
}

// BlocksRemaining counts live blocks
func (s *State) BlocksRemaining() int {
	n := 0
	for _, blk := range s.Blocks {
		if blk.Active {
			n++
		}
	}
	return n
}

// NextLevel advances the level, rebuilding blocks and re-serving
func (s *State) NextLevel() {
	s.Level++
	s.Blocks = BuildLevel(s.Level)
	for _, d := range s.Drops {
		d.Active = false
		s.dropPool.Release(d)
	}
	s.Drops = s.Drops[:0]
}

// PoolStats reports utilization of every entity pool
func (s *State) PoolStats() []pool.Stats {
	return []pool.Stats{
		s.ballPool.Stats(),
		s.dropPool.Stats(),
		s.particlePool.Stats(),
	}
}

// PoolHealth aggregates pool health warnings
func (s *State) PoolHealth() []string {
	var out []string
	for _, w := range s.ballPool.Health() {
		out = append(out, "balls: "+w)
	}
	for _, w := range s.dropPool.Health() {
		out = append(out, "drops: "+w)
	}
	for _, w := range s.particlePool.Health() {
		out = append(out, "particles: "+w)
	}
	return out
}
