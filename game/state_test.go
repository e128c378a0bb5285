package game

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/avolkmar/blockfall/constants"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStateServesStuckBall(t *testing.T) {
	s := NewState(quietLogger())

	if len(s.Balls) != 1 {
		t.Fatalf("balls = %d, want 1", len(s.Balls))
	}
	b := s.Balls[0]
	if !b.Stuck {
		t.Error("serve ball should start held on the paddle")
	}
	if b.VX != 0 || b.VY != 0 {
		t.Error("held ball should be motionless")
	}
	if s.Lives != constants.StartLives {
		t.Errorf("lives = %d, want %d", s.Lives, constants.StartLives)
	}
	if s.BlocksRemaining() == 0 {
		t.Error("level 1 should have blocks")
	}
}

func TestLaunchBalls(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()

	b := s.Balls[0]
	if b.Stuck {
		t.Error("launch did not release the held ball")
	}
	if got := b.Speed(); math.Abs(got-constants.BallSpeed) > 1e-9 {
		t.Errorf("launch speed = %v, want %v", got, constants.BallSpeed)
	}
	if b.VY >= 0 {
		t.Error("launched ball should travel upward")
	}
}

func TestMovePaddleClampsAndCarriesBall(t *testing.T) {
	s := NewState(quietLogger())

	s.MovePaddle(-2 * s.Width)
	if s.Paddle.X != 0 {
		t.Errorf("paddle x = %v, want clamp at 0", s.Paddle.X)
	}
	if b := s.Balls[0]; b.X != s.Paddle.X+b.StuckOffset {
		t.Error("held ball did not ride the paddle")
	}

	s.MovePaddle(2 * s.Width)
	if want := s.Width - s.Paddle.Width; s.Paddle.X != want {
		t.Errorf("paddle x = %v, want clamp at %v", s.Paddle.X, want)
	}
}

func TestCloneBallPreservesSpeed(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()
	src := s.Balls[0]

	clone := s.CloneBall(src, 0.45)
	if clone == nil {
		t.Fatal("clone failed with pool capacity available")
	}
	if clone.ID == src.ID {
		t.Error("clone must get its own identity")
	}
	if clone.X != src.X || clone.Y != src.Y {
		t.Error("clone should start at the source position")
	}
	if math.Abs(clone.Speed()-src.Speed()) > 1e-9 {
		t.Errorf("clone speed = %v, want %v", clone.Speed(), src.Speed())
	}
	if clone.VX == src.VX && clone.VY == src.VY {
		t.Error("clone heading should be rotated off the source")
	}
}

func TestCloneBallPoolCap(t *testing.T) {
	s := NewState(quietLogger())
	src := s.Balls[0]

	spawned := 0
	for i := 0; i < constants.BallPoolSize+2; i++ {
		if s.CloneBall(src, 0.1) != nil {
			spawned++
		}
	}
	if spawned != constants.BallPoolSize-1 {
		t.Errorf("spawned %d clones, want pool cap %d minus the serve ball", spawned, constants.BallPoolSize)
	}
}

func TestRemoveBallReturnsToPool(t *testing.T) {
	s := NewState(quietLogger())
	id := s.Balls[0].ID

	if !s.RemoveBall(id) {
		t.Fatal("remove of live ball failed")
	}
	if len(s.Balls) != 0 {
		t.Error("ball still in state after removal")
	}
	if s.RemoveBall(id) {
		t.Error("second removal should report not found")
	}

	for _, st := range s.PoolStats() {
		if st.Name == "balls" && st.InUse != 0 {
			t.Errorf("ball pool in-use = %d after removal, want 0", st.InUse)
		}
	}
}

func TestNextLevelRebuildsAndClearsDrops(t *testing.T) {
	s := NewState(quietLogger())
	d, _ := s.dropPool.Acquire()
	d.Active = true
	s.Drops = append(s.Drops, d)

	s.NextLevel()
	if s.Level != 2 {
		t.Errorf("level = %d, want 2", s.Level)
	}
	if len(s.Drops) != 0 {
		t.Error("drops should not survive a level change")
	}
	if s.BlocksRemaining() == 0 {
		t.Error("new level should have blocks")
	}
}

func TestMemoryScores(t *testing.T) {
	m := NewMemoryScores()
	m.Submit(100)
	m.Submit(50)
	if m.Best() != 100 {
		t.Errorf("best = %d, want 100", m.Best())
	}
	m.Submit(250)
	if m.Best() != 250 {
		t.Errorf("best = %d, want 250", m.Best())
	}
}
