package powerup

import (
	"fmt"
	"time"
)

const (
	multiBallDuration = 30 * time.Second
	multiBallPriority = 5

	// MaxConcurrentBalls is the hard cap on live balls regardless of
	// how many activations stack
	MaxConcurrentBalls = 3

	// clones added per activation, capacity permitting
	multiBallClones = 2
)

// multiBallState is the apply-time payload: the ids of the balls this
// activation added, so Remove despawns exactly those
type multiBallState struct {
	AddedIDs []string
}

// MultiBallPlugin clones the lead ball. Stackable, no conflicts.
type MultiBallPlugin struct {
	base
}

// NewMultiBall creates the multi-ball plugin
func NewMultiBall() *MultiBallPlugin {
	return &MultiBallPlugin{base: newBase(Descriptor{
		ID:           "multi_ball",
		Type:         TypeMultiBall,
		Priority:     multiBallPriority,
		Stackable:    true,
		Duration:     multiBallDuration,
		MaxInstances: MaxConcurrentBalls,
		Icon:         'M',
		Color:        "cyan",
		Rarity:       RarityUncommon,
	})}
}

func (p *MultiBallPlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, false, p.apply)
}

func (p *MultiBallPlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, false, p.remove)
}

func (p *MultiBallPlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, func(*Context) Result {
		return Result{Success: true}
	})
}

func (p *MultiBallPlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

func (p *MultiBallPlugin) apply(ctx *Context) Result {
	balls := ctx.Entities.Balls()
	if len(balls) == 0 {
		return failure(fmt.Errorf("%s apply: %w", TypeMultiBall, errNoBalls))
	}

	state := &multiBallState{}
	src := balls[0]
	for i := 0; i < multiBallClones; i++ {
		if len(balls)+len(state.AddedIDs) >= MaxConcurrentBalls {
			break
		}
		clone, ok := ctx.Entities.SpawnBallFrom(src)
		if !ok {
			// ball pool exhausted, keep what we got
			p.log.Warn("multi-ball spawn failed, pool exhausted", "added", len(state.AddedIDs))
			break
		}
		state.AddedIDs = append(state.AddedIDs, clone.ID())
	}

	return Result{
		Success:  true,
		Modified: len(state.AddedIDs) > 0,
		Data:     state,
	}
}

func (p *MultiBallPlugin) remove(ctx *Context) Result {
	state, ok := ctx.Data.(*multiBallState)
	if !ok {
		return failure(fmt.Errorf("%s remove: missing apply-time state", TypeMultiBall))
	}

	// keep at least one ball alive even if this activation spawned it
	modified := false
	for _, id := range state.AddedIDs {
		if len(ctx.Entities.Balls()) <= 1 {
			break
		}
		if ctx.Entities.DespawnBall(id) {
			modified = true
		}
	}
	return Result{Success: true, Modified: modified}
}
