package powerup

import (
	"fmt"
	"time"
)

const (
	magnetDuration = 12 * time.Second
	magnetPriority = 7
)

// magnetState captures the prior flag so Remove restores it instead of
// blindly clearing
type magnetState struct {
	Prior bool
}

// MagnetPlugin makes the paddle catch balls on contact. Conflicts with
// BallSpeed: a caught ball has no meaningful speed to rescale.
type MagnetPlugin struct {
	base
}

// NewMagnet creates the magnet plugin
func NewMagnet() *MagnetPlugin {
	return &MagnetPlugin{base: newBase(Descriptor{
		ID:            "magnet",
		Type:          TypeMagnet,
		Priority:      magnetPriority,
		ConflictsWith: []Type{TypeBallSpeed},
		Duration:      magnetDuration,
		Icon:          'G',
		Color:         "magenta",
		Rarity:        RarityUncommon,
	})}
}

func (p *MagnetPlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, true, p.apply)
}

func (p *MagnetPlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, true, p.remove)
}

func (p *MagnetPlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, func(*Context) Result {
		return Result{Success: true}
	})
}

func (p *MagnetPlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

func (p *MagnetPlugin) apply(ctx *Context) Result {
	paddle, _ := ctx.Entities.Paddle()
	state := &magnetState{Prior: paddle.Magnet()}
	paddle.SetMagnet(true)
	return Result{Success: true, Modified: !state.Prior, Data: state}
}

func (p *MagnetPlugin) remove(ctx *Context) Result {
	state, ok := ctx.Data.(*magnetState)
	if !ok {
		return failure(fmt.Errorf("%s remove: missing apply-time state", TypeMagnet))
	}
	paddle, _ := ctx.Entities.Paddle()
	before := paddle.Magnet()
	paddle.SetMagnet(state.Prior)
	return Result{Success: true, Modified: before != state.Prior}
}
