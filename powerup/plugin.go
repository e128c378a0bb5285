package powerup

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultCallBudget is the advisory per-call execution budget used
// when the engine does not supply one in the context
const DefaultCallBudget = 2 * time.Millisecond

// Plugin is the behavioral unit bound to one power-up type. All entry
// points return structured Results; no error or panic crosses the
// plugin boundary.
type Plugin interface {
	Type() Type
	Metadata() Descriptor

	Init(log *slog.Logger) error
	Destroy() error

	// Apply realizes the effect against ctx.Entities. On failure no
	// partial mutation remains. On success Result.Data carries the
	// captured prior state and Result.Undo the exact revert.
	Apply(ctx *Context) Result

	// Remove restores the prior observable state captured in the
	// apply-time payload, never a best-effort cleanup
	Remove(ctx *Context) Result

	// Update runs every tick while active; most plugins only
	// drift-correct here
	Update(ctx *Context) Result

	// HandleConflict runs when a higher-priority incoming effect
	// evicts this one. Default policy is remove-self.
	HandleConflict(incoming Type, ctx *Context) Result
}

// base carries the shared guard every concrete plugin wraps its
// protected implementation with: context validation, panic recovery,
// and execution-time measurement against the advisory budget.
type base struct {
	desc Descriptor
	log  *slog.Logger
}

func newBase(desc Descriptor) base {
	return base{desc: desc, log: slog.Default()}
}

func (b *base) Type() Type           { return b.desc.Type }
func (b *base) Metadata() Descriptor { return b.desc }

func (b *base) Init(log *slog.Logger) error {
	if log != nil {
		b.log = log
	}
	return nil
}

func (b *base) Destroy() error { return nil }

var (
	errNilContext  = errors.New("nil context")
	errNilEntities = errors.New("nil entity view")
	errNoPaddle    = errors.New("no paddle present")
	errNoBalls     = errors.New("no active ball")
)

// guard wraps a protected implementation with context validation,
// panic-to-result conversion, and budget measurement. A slow call is
// logged, never aborted.
func (b *base) guard(op string, ctx *Context, needPaddle bool, fn func(*Context) Result) (res Result) {
	if ctx == nil {
		return failure(fmt.Errorf("%s %s: %w", b.desc.Type, op, errNilContext))
	}
	if ctx.Entities == nil {
		return failure(fmt.Errorf("%s %s: %w", b.desc.Type, op, errNilEntities))
	}
	if needPaddle {
		if _, ok := ctx.Entities.Paddle(); !ok {
			return failure(fmt.Errorf("%s %s: %w", b.desc.Type, op, errNoPaddle))
		}
	}

	budget := ctx.Budget.Max
	if budget <= 0 {
		budget = DefaultCallBudget
	}
	ctx.Budget = Budget{Start: time.Now(), Max: budget}

	defer func() {
		elapsed := time.Since(ctx.Budget.Start)
		switch {
		case elapsed > budget:
			b.log.Error("plugin call over budget",
				"type", b.desc.Type, "op", op, "elapsed", elapsed, "budget", budget)
		case elapsed > budget/2:
			b.log.Warn("plugin call slow",
				"type", b.desc.Type, "op", op, "elapsed", elapsed, "budget", budget)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("plugin panic recovered", "type", b.desc.Type, "op", op, "panic", r)
			res = Result{Success: false, Broken: true, Err: fmt.Errorf("%s %s: panic: %v", b.desc.Type, op, r)}
		}
	}()

	return fn(ctx)
}
