package powerup

import (
	"fmt"
	"math"
	"time"
)

const (
	ballSpeedDuration = 15 * time.Second
	ballSpeedPriority = 3

	speedFastFactor = 1.5
	speedSlowFactor = 0.5

	// Safe speed band in field units per second. A ball that a factor
	// would push outside the band is skipped, not clamped.
	MinBallSpeed = 50.0
	MaxBallSpeed = 800.0

	// drift beyond this is re-normalized on update
	speedDriftTolerance = 0.5
)

// ballSpeedState captures per-ball original speeds at apply time.
// Balls skipped by the band check are absent from the map.
type ballSpeedState struct {
	Factor   float64
	Original map[string]float64
}

// BallSpeedPlugin rescales ball velocity magnitude while preserving
// direction. Non-stackable; conflicts with itself and with Magnet.
type BallSpeedPlugin struct {
	base
}

// NewBallSpeed creates the ball-speed plugin
func NewBallSpeed() *BallSpeedPlugin {
	return &BallSpeedPlugin{base: newBase(Descriptor{
		ID:            "ball_speed",
		Type:          TypeBallSpeed,
		Priority:      ballSpeedPriority,
		Stackable:     false,
		ConflictsWith: []Type{TypeBallSpeed, TypeMagnet},
		Duration:      ballSpeedDuration,
		Icon:          'S',
		Color:         "yellow",
		Rarity:        RarityCommon,
	})}
}

func (p *BallSpeedPlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, false, p.apply)
}

func (p *BallSpeedPlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, false, p.remove)
}

func (p *BallSpeedPlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, p.update)
}

func (p *BallSpeedPlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

func speedFactorFor(v Variant) (float64, bool) {
	switch v {
	case VariantSpeedFast:
		return speedFastFactor, true
	case VariantSpeedSlow:
		return speedSlowFactor, true
	default:
		return 0, false
	}
}

func (p *BallSpeedPlugin) apply(ctx *Context) Result {
	factor, ok := speedFactorFor(ctx.Variant)
	if !ok {
		return failure(fmt.Errorf("%s apply: unknown variant %q", TypeBallSpeed, ctx.Variant))
	}

	balls := ctx.Entities.Balls()
	if len(balls) == 0 {
		return failure(fmt.Errorf("%s apply: %w", TypeBallSpeed, errNoBalls))
	}

	state := &ballSpeedState{Factor: factor, Original: make(map[string]float64)}
	for _, b := range balls {
		speed := b.Speed()
		target := speed * factor
		if target < MinBallSpeed || target > MaxBallSpeed {
			// would leave the safe band: skip this ball, others proceed
			continue
		}
		state.Original[b.ID()] = speed
		b.SetSpeed(target)
	}

	return Result{
		Success:  true,
		Modified: len(state.Original) > 0,
		Data:     state,
	}
}

// update re-normalizes velocity magnitude if physics integration has
// drifted it away from the target speed
func (p *BallSpeedPlugin) update(ctx *Context) Result {
	state, ok := ctx.Data.(*ballSpeedState)
	if !ok {
		return failure(fmt.Errorf("%s update: missing apply-time state", TypeBallSpeed))
	}

	modified := false
	for _, b := range ctx.Entities.Balls() {
		orig, tracked := state.Original[b.ID()]
		if !tracked {
			continue
		}
		target := orig * state.Factor
		if math.Abs(b.Speed()-target) > speedDriftTolerance {
			b.SetSpeed(target)
			modified = true
		}
	}
	return Result{Success: true, Modified: modified}
}

func (p *BallSpeedPlugin) remove(ctx *Context) Result {
	state, ok := ctx.Data.(*ballSpeedState)
	if !ok {
		return failure(fmt.Errorf("%s remove: missing apply-time state", TypeBallSpeed))
	}

	modified := false
	for _, b := range ctx.Entities.Balls() {
		if orig, tracked := state.Original[b.ID()]; tracked {
			b.SetSpeed(orig)
			modified = true
		}
	}
	return Result{Success: true, Modified: modified}
}
