package powerup

import (
	"fmt"
	"time"
)

const (
	penetrationDuration = 10 * time.Second
	penetrationPriority = 6
)

// penetrationState records which balls this activation flagged, so
// Remove clears exactly those
type penetrationState struct {
	FlaggedIDs []string
}

// PenetrationPlugin lets balls pass through blocks instead of
// bouncing. Non-stackable, no conflicts.
type PenetrationPlugin struct {
	base
}

// NewPenetration creates the penetration plugin
func NewPenetration() *PenetrationPlugin {
	return &PenetrationPlugin{base: newBase(Descriptor{
		ID:       "penetration",
		Type:     TypePenetration,
		Priority: penetrationPriority,
		Duration: penetrationDuration,
		Icon:     'X',
		Color:    "red",
		Rarity:   RarityRare,
	})}
}

func (p *PenetrationPlugin) Apply(ctx *Context) Result {
	return p.guard("apply", ctx, false, p.apply)
}

func (p *PenetrationPlugin) Remove(ctx *Context) Result {
	return p.guard("remove", ctx, false, p.remove)
}

func (p *PenetrationPlugin) Update(ctx *Context) Result {
	return p.guard("update", ctx, false, func(*Context) Result {
		return Result{Success: true}
	})
}

func (p *PenetrationPlugin) HandleConflict(incoming Type, ctx *Context) Result {
	return p.Remove(ctx)
}

func (p *PenetrationPlugin) apply(ctx *Context) Result {
	balls := ctx.Entities.Balls()
	if len(balls) == 0 {
		return failure(fmt.Errorf("%s apply: %w", TypePenetration, errNoBalls))
	}

	state := &penetrationState{}
	for _, b := range balls {
		if b.Penetrating() {
			continue
		}
		b.SetPenetrating(true)
		state.FlaggedIDs = append(state.FlaggedIDs, b.ID())
	}

	return Result{
		Success:  true,
		Modified: len(state.FlaggedIDs) > 0,
		Data:     state,
	}
}

func (p *PenetrationPlugin) remove(ctx *Context) Result {
	state, ok := ctx.Data.(*penetrationState)
	if !ok {
		return failure(fmt.Errorf("%s remove: missing apply-time state", TypePenetration))
	}

	flagged := make(map[string]bool, len(state.FlaggedIDs))
	for _, id := range state.FlaggedIDs {
		flagged[id] = true
	}

	modified := false
	for _, b := range ctx.Entities.Balls() {
		if flagged[b.ID()] {
			b.SetPenetrating(false)
			modified = true
		}
	}
	return Result{Success: true, Modified: modified}
}
