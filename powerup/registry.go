package powerup

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CallStats aggregates per-call execution timing for one plugin
type CallStats struct {
	Calls   uint64
	Total   time.Duration
	Max     time.Duration
	Overrun uint64 // calls that exceeded the advisory budget
}

// Average returns the mean call duration
func (s CallStats) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Registry owns the installed plugins and their lifecycle. Lookup is
// a single map read keyed by Type, maintained at registration time.
type Registry struct {
	log    *slog.Logger
	budget time.Duration

	mu      sync.RWMutex
	plugins map[Type]Plugin
	stats   map[Type]*CallStats
}

// NewRegistry creates an empty plugin registry. budget is the
// advisory per-call execution budget recorded against every plugin
// call; zero selects DefaultCallBudget.
func NewRegistry(log *slog.Logger, budget time.Duration) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if budget <= 0 {
		budget = DefaultCallBudget
	}
	return &Registry{
		log:     log,
		budget:  budget,
		plugins: make(map[Type]Plugin),
		stats:   make(map[Type]*CallStats),
	}
}

// Register initializes and installs a plugin. Registering a second
// plugin for the same type is an error.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("register: nil plugin")
	}
	t := p.Type()
	if t == "" {
		return fmt.Errorf("register: plugin with empty type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.plugins[t]; dup {
		return fmt.Errorf("register %q: already registered", t)
	}
	if err := p.Init(r.log); err != nil {
		return fmt.Errorf("register %q: init: %w", t, err)
	}
	r.plugins[t] = p
	r.stats[t] = &CallStats{}
	r.log.Info("plugin registered", "type", t, "priority", p.Metadata().Priority)
	return nil
}

// Deregister destroys and removes the plugin for t
func (r *Registry) Deregister(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[t]
	if !ok {
		return fmt.Errorf("deregister %q: %w", t, ErrNoPlugin)
	}
	delete(r.plugins, t)
	delete(r.stats, t)
	if err := p.Destroy(); err != nil {
		return fmt.Errorf("deregister %q: destroy: %w", t, err)
	}
	return nil
}

// Lookup returns the plugin for t
func (r *Registry) Lookup(t Type) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[t]
	return p, ok
}

// Types returns the registered types in unspecified order
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.plugins))
	for t := range r.plugins {
		out = append(out, t)
	}
	return out
}

// Descriptors returns the metadata of every installed plugin
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p.Metadata())
	}
	return out
}

// Budget returns the advisory per-call budget
func (r *Registry) Budget() time.Duration {
	return r.budget
}

// Record accounts one plugin call
func (r *Registry) Record(t Type, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[t]
	if !ok {
		return
	}
	s.Calls++
	s.Total += elapsed
	if elapsed > s.Max {
		s.Max = elapsed
	}
	if elapsed > r.budget {
		s.Overrun++
	}
}

// Stats returns a copy of the accounting for t
func (r *Registry) Stats(t Type) (CallStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stats[t]
	if !ok {
		return CallStats{}, false
	}
	return *s, true
}
