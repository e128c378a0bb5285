package powerup

import (
	"errors"
	"time"
)

// Sentinel errors callers branch on with errors.Is
var (
	// ErrNoPlugin means no plugin is registered for the requested type
	ErrNoPlugin = errors.New("no plugin for type")
	// ErrRejected means the effect was refused at admission (limits,
	// duplicate, losing conflict, validation failure)
	ErrRejected = errors.New("effect rejected")
)

// Result is the structured outcome of every plugin and engine entry
// point. Nothing escapes the engine boundary as a panic; failures are
// carried here.
type Result struct {
	Success  bool
	Modified bool // whether any entity state changed
	Broken   bool // set when a panic was recovered; the effect is force-expired
	Err      error
	Data     any   // opaque per-plugin payload captured at apply time
	Undo     *Undo // how to exactly revert this call, when applicable
}

func failure(err error) Result {
	return Result{Success: false, Err: err}
}

// UndoKind tags how an Undo descriptor is interpreted
type UndoKind int

const (
	UndoNone UndoKind = iota
	// UndoRemoveEffect reverts an apply by removing the named effect
	UndoRemoveEffect
)

// Undo describes how to exactly revert a successful mutation. It is a
// data descriptor interpreted by System.Undo rather than a captured
// closure, so it can be stored, logged, and replayed.
type Undo struct {
	Kind     UndoKind
	EffectID string
}

// Budget is the advisory per-call execution budget. Exceeding it is
// logged, never enforced; timing is observational.
type Budget struct {
	Start time.Time
	Max   time.Duration
}
