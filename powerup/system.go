package powerup

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avolkmar/blockfall/engine"
)

// Config tunes the effect engine
type Config struct {
	MaxActiveEffects int           // global ceiling, default 8
	StackingAllowed  bool          // global stacking toggle
	SweepInterval    time.Duration // background expiry sweep, default 1s
	CallBudget       time.Duration // advisory per-plugin-call budget, default 2ms
	Debug            bool
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		MaxActiveEffects: 8,
		StackingAllowed:  true,
		SweepInterval:    time.Second,
		CallBudget:       DefaultCallBudget,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxActiveEffects <= 0 {
		c.MaxActiveEffects = 8
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Second
	}
	if c.CallBudget <= 0 {
		c.CallBudget = DefaultCallBudget
	}
	return c
}

// EffectRequest carries the optional parameters of an apply call
type EffectRequest struct {
	Variant         Variant
	Duration        time.Duration // 0 = descriptor default
	X, Y            float64       // drop position at collection
	ScoreMultiplier float64
	Data            any // per-plugin request payload
}

// ActiveEffect is one currently-running effect instance. Owned
// exclusively by the System; plugins only ever see the opaque Data
// payload through a per-call Context.
type ActiveEffect struct {
	ID            string
	Type          Type
	Variant       Variant
	StartTime     time.Time
	Duration      time.Duration
	Priority      int
	Stackable     bool
	ConflictsWith []Type
	Data          any

	plugin Plugin
}

// EffectStatus is the read-only view handed to renderers
type EffectStatus struct {
	ID        string
	Type      Type
	Variant   Variant
	Icon      rune
	Color     string
	StartTime time.Time
	Duration  time.Duration
	Remaining time.Duration
}

// Metrics is a snapshot of the engine counters
type Metrics struct {
	Processed         uint64
	Applied           uint64
	Rejected          uint64
	ConflictsResolved uint64
	RejectionRate     float64
}

// System is the effect engine: it admits apply requests through the
// validator and conflict rules, delegates to the matching plugin,
// tracks active-effect lifetime, and retires expired effects.
//
// The frame path is single-threaded; the mutex exists only because
// the background sweeper is a second, infrequent writer. The sweeper
// touches engine bookkeeping exclusively: entity restoration for
// swept effects is deferred to the next frame-path call, so plugins
// never mutate game state off the frame goroutine.
type System struct {
	cfg       Config
	clock     engine.Clock
	log       *slog.Logger
	registry  *Registry
	validator *Validator
	resolver  *StackResolver

	mu      sync.Mutex
	active  map[string]*ActiveEffect
	order   []string        // activation order, drives deterministic iteration
	pending []*ActiveEffect // expired by the sweeper, restoration deferred
	view    Entities        // last view seen on the frame path, used by Undo

	// player snapshot exposed to validation rules
	playerLives, playerScore, playerLevel int

	processed         atomic.Uint64
	applied           atomic.Uint64
	rejected          atomic.Uint64
	conflictsResolved atomic.Uint64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewSystem creates an effect engine. clock must not be nil; tests
// inject engine.MockClock for deterministic expiry.
func NewSystem(cfg Config, clock engine.Clock, log *slog.Logger, registry *Registry) *System {
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()
	if registry == nil {
		registry = NewRegistry(log, cfg.CallBudget)
	}
	return &System{
		cfg:       cfg,
		clock:     clock,
		log:       log,
		registry:  registry,
		validator: NewValidator(log),
		resolver:  NewStackResolver(log),
		active:    make(map[string]*ActiveEffect),
		stopCh:    make(chan struct{}),
	}
}

// Registry exposes the plugin registry for installation and stats
func (s *System) Registry() *Registry { return s.registry }

// Validator exposes the rule engine so callers can add domain rules
func (s *System) Validator() *Validator { return s.validator }

// ApplyEffect admits, conflict-resolves, and applies one effect.
// id is the caller-supplied activation id, unique per activation.
// The result is structured; nothing escapes as a panic.
func (s *System) ApplyEffect(t Type, id string, view Entities, req EffectRequest) Result {
	s.processed.Add(1)

	if id == "" || view == nil {
		s.rejected.Add(1)
		return failure(fmt.Errorf("apply %q: missing id or entity view: %w", t, ErrRejected))
	}

	plugin, ok := s.registry.Lookup(t)
	if !ok {
		s.rejected.Add(1)
		return failure(fmt.Errorf("apply %q: %w", t, ErrNoPlugin))
	}
	desc := plugin.Metadata()

	duration := req.Duration
	if duration == 0 {
		duration = desc.Duration
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.reapLocked(view)

	if _, dup := s.active[id]; dup {
		s.rejected.Add(1)
		return failure(fmt.Errorf("apply %q: activation id %q already active: %w", t, id, ErrRejected))
	}

	// validation gate
	cand := Candidate{
		Type:            t,
		ID:              id,
		Duration:        duration,
		X:               req.X,
		Y:               req.Y,
		ScoreMultiplier: req.ScoreMultiplier,
	}
	vctx := s.validationContextLocked()
	cand = s.validator.AutoFix(cand, vctx)
	report := s.validator.Validate(cand, vctx)
	for _, w := range report.Warnings {
		s.log.Warn("effect validation warning", "type", t, "id", id, "warning", w)
	}
	if !report.IsValid {
		s.rejected.Add(1)
		return failure(fmt.Errorf("apply %q: %s: %w", t, strings.Join(report.Errors, "; "), ErrRejected))
	}
	duration = cand.Duration

	now := s.clock.Now()

	// same-type conflict: replace in place within this call, so the
	// entity never sits at its default state between old and new
	if desc.SelfConflicting() {
		for _, ae := range s.activeOfTypeLocked(t) {
			s.removeLocked(ae.ID, view, "replaced")
			s.conflictsResolved.Add(1)
		}
	}

	// cross-type conflicts: a strictly higher priority evicts every
	// conflicting active effect; ties favor the incumbent
	var conflicting []*ActiveEffect
	for _, aeID := range s.order {
		ae := s.active[aeID]
		if ae.Type != t && desc.ConflictsWithType(ae.Type) {
			conflicting = append(conflicting, ae)
		}
	}
	if len(conflicting) > 0 {
		maxPriority := conflicting[0].Priority
		for _, ae := range conflicting[1:] {
			if ae.Priority > maxPriority {
				maxPriority = ae.Priority
			}
		}
		if desc.Priority <= maxPriority {
			s.rejected.Add(1)
			return failure(fmt.Errorf("apply %q: conflicts with active effect of equal or higher priority: %w", t, ErrRejected))
		}
		for _, victim := range conflicting {
			vctx := s.contextFor(victim, view, now)
			start := time.Now()
			res := victim.plugin.HandleConflict(t, vctx)
			s.registry.Record(victim.Type, time.Since(start))
			if !res.Success {
				s.log.Warn("conflict handler failed", "victim", victim.Type, "incoming", t, "err", res.Err)
			}
			s.dropLocked(victim.ID)
			s.conflictsResolved.Add(1)
		}
	}

	// stackable types have a per-type instance cap; the oldest
	// instances give way to the incoming one
	if desc.Stackable {
		evict := s.resolver.EvictOldest(s.activeOfTypeLocked(t), desc.MaxInstances)
		for _, victimID := range evict {
			s.removeLocked(victimID, view, "stack cap")
			s.conflictsResolved.Add(1)
		}
	}

	ctx := &Context{
		Type:     t,
		Variant:  req.Variant,
		EffectID: id,
		Data:     req.Data,
		Entities: view,
		Now:      now,
		Budget:   Budget{Max: s.cfg.CallBudget},
	}
	start := time.Now()
	res := plugin.Apply(ctx)
	s.registry.Record(t, time.Since(start))
	if !res.Success {
		s.rejected.Add(1)
		return res
	}

	s.active[id] = &ActiveEffect{
		ID:            id,
		Type:          t,
		Variant:       req.Variant,
		StartTime:     now,
		Duration:      duration,
		Priority:      desc.Priority,
		Stackable:     desc.Stackable,
		ConflictsWith: desc.ConflictsWith,
		Data:          res.Data,
		plugin:        plugin,
	}
	s.order = append(s.order, id)
	s.applied.Add(1)

	res.Undo = &Undo{Kind: UndoRemoveEffect, EffectID: id}
	return res
}

// Update advances every active effect against one consistent "now".
// Expired effects are collected during the scan and removed after it,
// so the active collection is never mutated mid-iteration. A plugin
// panicking during update marks that effect broken and force-expires
// it without touching the others.
func (s *System) Update(dt time.Duration, view Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.reapLocked(view)

	now := s.clock.Now()
	var retire []string

	for _, id := range s.order {
		ae := s.active[id]
		if now.Sub(ae.StartTime) >= ae.Duration {
			retire = append(retire, id)
			continue
		}
		ctx := s.contextFor(ae, view, now)
		ctx.Delta = dt
		start := time.Now()
		res := ae.plugin.Update(ctx)
		s.registry.Record(ae.Type, time.Since(start))
		if res.Broken {
			s.log.Error("effect broken during update, force-expiring", "type", ae.Type, "id", id, "err", res.Err)
			retire = append(retire, id)
		} else if !res.Success {
			s.log.Warn("effect update failed", "type", ae.Type, "id", id, "err", res.Err)
		}
	}

	for _, id := range retire {
		s.removeLocked(id, view, "expired")
	}
}

// RemoveEffect cancels an effect ahead of natural expiry. Restoration
// runs through the plugin; bookkeeping is deleted regardless of the
// plugin's own success, so no zombie records remain. Removing an id
// that already expired is a quiet no-op.
func (s *System) RemoveEffect(id string, view Entities) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view != nil {
		s.view = view
	}
	s.reapLocked(s.view)
	return s.removeLocked(id, s.view, "removed")
}

// Undo interprets an undo descriptor returned from ApplyEffect
func (s *System) Undo(u *Undo) Result {
	if u == nil || u.Kind == UndoNone {
		return Result{Success: true}
	}
	switch u.Kind {
	case UndoRemoveEffect:
		return s.RemoveEffect(u.EffectID, nil)
	default:
		return failure(fmt.Errorf("undo: unknown kind %d", u.Kind))
	}
}

// ActiveEffects returns read-only statuses in activation order
func (s *System) ActiveEffects() []EffectStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	out := make([]EffectStatus, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.statusLocked(s.active[id], now))
	}
	return out
}

// ActiveEffectsByType returns statuses for one type only
func (s *System) ActiveEffectsByType(t Type) []EffectStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var out []EffectStatus
	for _, id := range s.order {
		if ae := s.active[id]; ae.Type == t {
			out = append(out, s.statusLocked(ae, now))
		}
	}
	return out
}

// ActiveCount returns the number of active effects
func (s *System) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Metrics returns a snapshot of the engine counters
func (s *System) Metrics() Metrics {
	m := Metrics{
		Processed:         s.processed.Load(),
		Applied:           s.applied.Load(),
		Rejected:          s.rejected.Load(),
		ConflictsResolved: s.conflictsResolved.Load(),
	}
	if m.Processed > 0 {
		m.RejectionRate = float64(m.Rejected) / float64(m.Processed)
	}
	return m
}

// Start launches the background expiry sweeper, a safety net for when
// the per-frame Update call is skipped (e.g. paused game). The sweeper
// retires engine bookkeeping only; entity restoration for swept
// effects waits for Reap or the next frame-path call.
func (s *System) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				return
			}
		}
	}()
	s.log.Info("effect sweeper started", "interval", s.cfg.SweepInterval)
}

// Stop shuts the sweeper down. Safe to call more than once.
func (s *System) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	s.running.Store(false)
}

// Reap performs the deferred restoration for effects the sweeper
// expired. Must run on the frame goroutine; the paused game loop calls
// it each tick in place of Update.
func (s *System) Reap(view Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view != nil {
		s.view = view
	}
	s.reapLocked(s.view)
}

// sweep performs the expiry pass only: expired effects leave the
// active set immediately, their plugin Remove is queued for the frame
// path. The sweeper never touches the entity view.
func (s *System) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var retire []string
	for _, id := range s.order {
		ae := s.active[id]
		if now.Sub(ae.StartTime) >= ae.Duration {
			retire = append(retire, id)
		}
	}
	for _, id := range retire {
		ae := s.active[id]
		s.dropLocked(id)
		s.pending = append(s.pending, ae)
		s.log.Debug("effect swept, restoration deferred", "type", ae.Type, "id", id)
	}
}

// SetPlayerState refreshes the player snapshot exposed to validation
// rules. The shell calls it once per frame before effects apply.
func (s *System) SetPlayerState(lives, score, level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerLives, s.playerScore, s.playerLevel = lives, score, level
}

// --- internals, all under s.mu ---

// reapLocked restores entity state for effects the sweeper expired.
// Only ever reached from frame-path entry points.
func (s *System) reapLocked(view Entities) {
	if len(s.pending) == 0 || view == nil {
		return
	}
	now := s.clock.Now()
	for _, ae := range s.pending {
		ctx := s.contextFor(ae, view, now)
		start := time.Now()
		res := ae.plugin.Remove(ctx)
		s.registry.Record(ae.Type, time.Since(start))
		if !res.Success {
			s.log.Warn("effect restoration failed", "type", ae.Type, "id", ae.ID, "reason", "swept", "err", res.Err)
		}
	}
	s.pending = s.pending[:0]
}

func (s *System) removeLocked(id string, view Entities, reason string) Result {
	ae, ok := s.active[id]
	if !ok {
		return Result{Success: true}
	}

	res := Result{Success: true}
	if view != nil {
		ctx := s.contextFor(ae, view, s.clock.Now())
		start := time.Now()
		res = ae.plugin.Remove(ctx)
		s.registry.Record(ae.Type, time.Since(start))
		if !res.Success {
			s.log.Warn("effect restoration failed", "type", ae.Type, "id", id, "reason", reason, "err", res.Err)
		}
	}

	s.dropLocked(id)
	s.log.Debug("effect retired", "type", ae.Type, "id", id, "reason", reason)
	return Result{Success: true, Modified: res.Modified}
}

// dropLocked deletes bookkeeping only, without plugin restoration
func (s *System) dropLocked(id string) {
	delete(s.active, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *System) activeOfTypeLocked(t Type) []*ActiveEffect {
	var out []*ActiveEffect
	for _, id := range s.order {
		if ae := s.active[id]; ae.Type == t {
			out = append(out, ae)
		}
	}
	return out
}

func (s *System) contextFor(ae *ActiveEffect, view Entities, now time.Time) *Context {
	return &Context{
		Type:     ae.Type,
		Variant:  ae.Variant,
		EffectID: ae.ID,
		Data:     ae.Data,
		Entities: view,
		Now:      now,
		Budget:   Budget{Max: s.cfg.CallBudget},
	}
}

func (s *System) validationContextLocked() *ValidationContext {
	vctx := &ValidationContext{
		ActiveCount:      len(s.active),
		ActiveByType:     make(map[Type]int),
		MaxActiveEffects: s.cfg.MaxActiveEffects,
		StackingAllowed:  s.cfg.StackingAllowed,
		Debug:            s.cfg.Debug,
		KnownTypes:       make(map[Type]bool),
		StackableTypes:   make(map[Type]bool),
		SelfConflicting:  make(map[Type]bool),
		Lives:            s.playerLives,
		Score:            s.playerScore,
		Level:            s.playerLevel,
	}
	for _, ae := range s.active {
		vctx.ActiveByType[ae.Type]++
	}
	for _, d := range s.registry.Descriptors() {
		vctx.KnownTypes[d.Type] = true
		vctx.StackableTypes[d.Type] = d.Stackable
		vctx.SelfConflicting[d.Type] = d.SelfConflicting()
	}
	return vctx
}

// statusLocked builds the read-only view of one active effect
func (s *System) statusLocked(ae *ActiveEffect, now time.Time) EffectStatus {
	desc := ae.plugin.Metadata()
	remaining := ae.Duration - now.Sub(ae.StartTime)
	if remaining < 0 {
		remaining = 0
	}
	return EffectStatus{
		ID:        ae.ID,
		Type:      ae.Type,
		Variant:   ae.Variant,
		Icon:      desc.Icon,
		Color:     desc.Color,
		StartTime: ae.StartTime,
		Duration:  ae.Duration,
		Remaining: remaining,
	}
}
