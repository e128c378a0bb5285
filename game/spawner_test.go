package game

import (
	"testing"
	"time"

	"github.com/avolkmar/blockfall/engine"
	"github.com/avolkmar/blockfall/powerup"
)

func newTestEffectSystem(t *testing.T) *powerup.System {
	t.Helper()
	log := quietLogger()
	clock := engine.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	registry := powerup.NewRegistry(log, 0)
	sys := powerup.NewSystem(powerup.DefaultConfig(), clock, log, registry)
	for _, p := range []powerup.Plugin{
		powerup.NewMultiBall(),
		powerup.NewPaddleSize(),
		powerup.NewBallSpeed(),
		powerup.NewPenetration(),
		powerup.NewMagnet(),
	} {
		if err := registry.Register(p); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return sys
}

func TestSpawnerBuildsWeightedTable(t *testing.T) {
	sys := newTestEffectSystem(t)
	sp := NewSpawner(quietLogger(), sys, 1)

	// five types, two of which carry two variants each
	if len(sp.table) != 7 {
		t.Errorf("table entries = %d, want 7", len(sp.table))
	}
	if sp.total <= 0 {
		t.Error("total weight should be positive")
	}
	for _, e := range sp.table {
		if e.weight <= 0 {
			t.Errorf("entry %s/%s has weight %d", e.typ, e.variant, e.weight)
		}
	}
}

func TestOnBlockDestroyedSpawnsDrop(t *testing.T) {
	sys := newTestEffectSystem(t)
	sp := NewSpawner(quietLogger(), sys, 1)
	sp.dropChance = 1 // force the roll

	s := NewState(quietLogger())
	blk := &Block{X: 100, Y: 50, Width: 50, Height: 10, Active: true}
	sp.OnBlockDestroyed(s, blk)

	if len(s.Drops) != 1 {
		t.Fatalf("drops = %d, want 1", len(s.Drops))
	}
	d := s.Drops[0]
	if d.X != 125 || d.Y != 55 {
		t.Errorf("drop at (%v, %v), want block center (125, 55)", d.X, d.Y)
	}
	if d.Type == "" || d.ID == "" {
		t.Error("drop missing type or id")
	}
	if d.VY <= 0 {
		t.Error("drop should fall")
	}
}

func TestOnBlockDestroyedRespectsChance(t *testing.T) {
	sys := newTestEffectSystem(t)
	sp := NewSpawner(quietLogger(), sys, 1)
	sp.dropChance = 0 // never drop

	s := NewState(quietLogger())
	for i := 0; i < 20; i++ {
		sp.OnBlockDestroyed(s, &Block{X: 100, Y: 50, Width: 50, Height: 10})
	}
	if len(s.Drops) != 0 {
		t.Errorf("drops = %d with zero chance, want 0", len(s.Drops))
	}
}

func TestCaughtDropAppliesEffect(t *testing.T) {
	sys := newTestEffectSystem(t)
	sp := NewSpawner(quietLogger(), sys, 1)
	s := NewState(quietLogger())
	view := s.View()

	d, _ := s.dropPool.Acquire()
	d.ID = "drop-1"
	d.Type = powerup.TypePenetration
	d.X = s.Paddle.CenterX()
	d.Y = s.Paddle.Y - d.Size // one tick above the paddle
	d.VY = 150
	d.Active = true
	s.Drops = append(s.Drops, d)

	collected := sp.Update(100*time.Millisecond, s, view)
	if collected != 1 {
		t.Fatalf("collected = %d, want 1", collected)
	}
	if len(s.Drops) != 0 {
		t.Error("caught drop still falling")
	}
	if n := len(sys.ActiveEffectsByType(powerup.TypePenetration)); n != 1 {
		t.Errorf("active penetration effects = %d, want 1", n)
	}
	if !s.Balls[0].Penetrating {
		t.Error("effect did not reach the ball")
	}
}

func TestMissedDropFallsOut(t *testing.T) {
	sys := newTestEffectSystem(t)
	sp := NewSpawner(quietLogger(), sys, 1)
	s := NewState(quietLogger())
	view := s.View()

	d, _ := s.dropPool.Acquire()
	d.ID = "drop-1"
	d.Type = powerup.TypeMagnet
	d.X = 0 // far from the paddle
	d.Y = s.Height - 1
	d.VY = 150
	d.Active = true
	s.Drops = append(s.Drops, d)

	collected := sp.Update(100*time.Millisecond, s, view)
	if collected != 0 {
		t.Errorf("collected = %d, want 0", collected)
	}
	if len(s.Drops) != 0 {
		t.Error("fallen drop not reclaimed")
	}
	if sys.ActiveCount() != 0 {
		t.Error("missed drop should not apply an effect")
	}
}
