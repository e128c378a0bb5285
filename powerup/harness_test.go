package powerup

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/avolkmar/blockfall/engine"
)

// Test doubles for the entity view. Mutations land in the harness
// structs directly, mirroring the zero-copy contract.

type testBall struct {
	id     string
	vx, vy float64
	pen    bool
}

func (b *testBall) ID() string     { return b.id }
func (b *testBall) Speed() float64 { return math.Hypot(b.vx, b.vy) }

func (b *testBall) SetSpeed(v float64) {
	cur := b.Speed()
	if cur == 0 {
		b.vx, b.vy = 0, -v
		return
	}
	scale := v / cur
	b.vx *= scale
	b.vy *= scale
}

func (b *testBall) Penetrating() bool      { return b.pen }
func (b *testBall) SetPenetrating(on bool) { b.pen = on }

type testPaddle struct {
	w, h   float64
	magnet bool
}

func (p *testPaddle) ID() string               { return "paddle" }
func (p *testPaddle) Size() (float64, float64) { return p.w, p.h }
func (p *testPaddle) SetSize(w, h float64)     { p.w, p.h = w, h }
func (p *testPaddle) Magnet() bool             { return p.magnet }
func (p *testPaddle) SetMagnet(on bool)        { p.magnet = on }

type testView struct {
	balls   []*testBall
	paddle  *testPaddle
	nextID  int
	poolCap int // 0 = unlimited
}

func newTestView(ballSpeeds ...float64) *testView {
	v := &testView{paddle: &testPaddle{w: 90, h: 10}}
	for _, s := range ballSpeeds {
		v.nextID++
		v.balls = append(v.balls, &testBall{id: fmt.Sprintf("ball-%d", v.nextID), vy: -s})
	}
	return v
}

func (v *testView) Balls() []BallHandle {
	out := make([]BallHandle, len(v.balls))
	for i, b := range v.balls {
		out[i] = b
	}
	return out
}

func (v *testView) Paddle() (PaddleHandle, bool) {
	if v.paddle == nil {
		return nil, false
	}
	return v.paddle, true
}

func (v *testView) SpawnBallFrom(src BallHandle) (BallHandle, bool) {
	if v.poolCap > 0 && len(v.balls) >= v.poolCap {
		return nil, false
	}
	v.nextID++
	b := &testBall{id: fmt.Sprintf("ball-%d", v.nextID)}
	b.SetSpeed(src.Speed())
	v.balls = append(v.balls, b)
	return b, true
}

func (v *testView) DespawnBall(id string) bool {
	for i, b := range v.balls {
		if b.id == id {
			v.balls = append(v.balls[:i], v.balls[i+1:]...)
			return true
		}
	}
	return false
}

func (v *testView) ballByID(id string) *testBall {
	for _, b := range v.balls {
		if b.id == id {
			return b
		}
	}
	return nil
}

// faultyPlugin applies cleanly but panics on every update. It exists
// to exercise the force-expiry path for broken effects.
const faultyType = Type("faulty")

type faultyPlugin struct {
	base
}

func newFaultyPlugin() *faultyPlugin {
	return &faultyPlugin{base: newBase(Descriptor{
		Type:     faultyType,
		Priority: 1,
		Duration: 5 * time.Second,
		Rarity:   RarityCommon,
	})}
}

func (p *faultyPlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, false, func(ctx *Context) Result {
		return Result{Success: true}
	})
}

func (p *faultyPlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, false, func(ctx *Context) Result {
		return Result{Success: true}
	})
}

func (p *faultyPlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, func(ctx *Context) Result {
		panic("wedged")
	})
}

func (p *faultyPlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSystem builds a system with all built-in plugins registered
// and a mock clock starting at testEpoch
func newTestSystem(cfg Config) (*System, *engine.MockClock) {
	clock := engine.NewMockClock(testEpoch)
	log := quietLogger()
	registry := NewRegistry(log, 0)
	sys := NewSystem(cfg, clock, log, registry)
	for _, p := range []Plugin{
		NewMultiBall(),
		NewPaddleSize(),
		NewBallSpeed(),
		NewPenetration(),
		NewMagnet(),
	} {
		if err := registry.Register(p); err != nil {
			panic(err)
		}
	}
	return sys, clock
}
