package game

import (
	"math"
	"testing"
)

func TestViewAliasesLiveState(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()
	view := s.View()

	balls := view.Balls()
	if len(balls) != 1 {
		t.Fatalf("view balls = %d, want 1", len(balls))
	}

	balls[0].SetSpeed(450)
	if got := s.Balls[0].Speed(); math.Abs(got-450) > 1e-9 {
		t.Errorf("state ball speed = %v after handle mutation, want 450", got)
	}

	balls[0].SetPenetrating(true)
	if !s.Balls[0].Penetrating {
		t.Error("penetration flag did not reach the live ball")
	}
}

func TestViewPaddleResizeAroundCenter(t *testing.T) {
	s := NewState(quietLogger())
	view := s.View()

	paddle, ok := view.Paddle()
	if !ok {
		t.Fatal("paddle missing from view")
	}

	center := s.Paddle.CenterX()
	w, h := paddle.Size()
	paddle.SetSize(w*1.5, h)

	if got := s.Paddle.CenterX(); math.Abs(got-center) > 1e-9 {
		t.Errorf("center moved from %v to %v on resize", center, got)
	}
	if s.Paddle.Width != w*1.5 {
		t.Errorf("width = %v, want %v", s.Paddle.Width, w*1.5)
	}

	paddle.SetMagnet(true)
	if !s.Paddle.Magnet {
		t.Error("magnet flag did not reach the live paddle")
	}
}

func TestViewSpawnAndDespawn(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()
	view := s.View()
	src := view.Balls()[0]

	clone, ok := view.SpawnBallFrom(src)
	if !ok {
		t.Fatal("spawn failed with pool capacity available")
	}
	if len(s.Balls) != 2 {
		t.Errorf("state balls = %d, want 2", len(s.Balls))
	}
	if math.Abs(clone.Speed()-src.Speed()) > 1e-9 {
		t.Errorf("clone speed = %v, want source %v", clone.Speed(), src.Speed())
	}

	if !view.DespawnBall(clone.ID()) {
		t.Fatal("despawn of spawned ball failed")
	}
	if len(s.Balls) != 1 {
		t.Errorf("state balls = %d after despawn, want 1", len(s.Balls))
	}
	if view.DespawnBall("no-such-ball") {
		t.Error("despawn of unknown id should fail")
	}
}

func TestViewSpawnHeadingsAlternate(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()
	view := s.View()
	src := view.Balls()[0]

	a, ok1 := view.SpawnBallFrom(src)
	b, ok2 := view.SpawnBallFrom(src)
	if !ok1 || !ok2 {
		t.Fatal("spawns failed")
	}

	ba := s.Balls[1]
	bb := s.Balls[2]
	if ba.ID != a.ID() || bb.ID != b.ID() {
		t.Fatal("spawn order mismatch")
	}
	// successive clones fan out on opposite sides of the source
	if (ba.VX > 0) == (bb.VX > 0) {
		t.Errorf("clone headings did not alternate: %v and %v", ba.VX, bb.VX)
	}
}

func TestViewSkipsInactiveBalls(t *testing.T) {
	s := NewState(quietLogger())
	s.LaunchBalls()
	s.Balls[0].Active = false

	if got := len(s.View().Balls()); got != 0 {
		t.Errorf("view balls = %d, want inactive balls hidden", got)
	}
}

func TestViewSpawnFromUnknownSource(t *testing.T) {
	s := NewState(quietLogger())
	view := s.View()

	ghost := ballHandle{&Ball{ID: "ghost"}}
	if _, ok := view.SpawnBallFrom(ghost); ok {
		t.Error("spawn from a ball the state does not own should fail")
	}
}
