package powerup

import (
	"fmt"
	"time"
)

const (
	paddleSizeDuration = 20 * time.Second
	paddleSizePriority = 4

	paddleLargeFactor = 1.5
	paddleSmallFactor = 0.75

	// MinPaddleWidth is the smallest usable paddle width in field units
	MinPaddleWidth = 30.0
)

// paddleSizeState captures the exact pre-apply size for bit-exact
// restoration
type paddleSizeState struct {
	OrigW, OrigH float64
}

// PaddleSizePlugin resizes the paddle. Non-stackable and conflicting
// with itself: a second activation replaces the first in place, so the
// new factor always applies to the original size.
type PaddleSizePlugin struct {
	base
}

// NewPaddleSize creates the paddle-size plugin
func NewPaddleSize() *PaddleSizePlugin {
	return &PaddleSizePlugin{base: newBase(Descriptor{
		ID:            "paddle_size",
		Type:          TypePaddleSize,
		Priority:      paddleSizePriority,
		Stackable:     false,
		ConflictsWith: []Type{TypePaddleSize},
		Duration:      paddleSizeDuration,
		Icon:          'P',
		Color:         "green",
		Rarity:        RarityCommon,
	})}
}

func (p *PaddleSizePlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, true, p.apply)
}

func (p *PaddleSizePlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, true, p.remove)
}

func (p *PaddleSizePlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, func(*Context) Result {
		return Result{Success: true}
	})
}

func (p *PaddleSizePlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

func sizeFactor(v Variant) (float64, bool) {
	switch v {
	case VariantPaddleLarge:
		return paddleLargeFactor, true
	case VariantPaddleSmall:
		return paddleSmallFactor, true
	default:
		return 0, false
	}
}

func (p *PaddleSizePlugin) apply(ctx *Context) Result {
	factor, ok := sizeFactor(ctx.Variant)
	if !ok {
		return failure(fmt.Errorf("%s apply: unknown variant %q", TypePaddleSize, ctx.Variant))
	}

	paddle, _ := ctx.Entities.Paddle()
	w, h := paddle.Size()

	target := w * factor
	if target < MinPaddleWidth {
		target = MinPaddleWidth
	}
	// SetSize re-clamps the paddle position on-screen
	paddle.SetSize(target, h)

	return Result{
		Success:  true,
		Modified: true,
		Data:     &paddleSizeState{OrigW: w, OrigH: h},
	}
}

func (p *PaddleSizePlugin) remove(ctx *Context) Result {
	state, ok := ctx.Data.(*paddleSizeState)
	if !ok {
		return failure(fmt.Errorf("%s remove: missing apply-time state", TypePaddleSize))
	}
	paddle, _ := ctx.Entities.Paddle()
	paddle.SetSize(state.OrigW, state.OrigH)
	return Result{Success: true, Modified: true}
}
