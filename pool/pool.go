package pool

import (
	"log/slog"
	"sync"
)

// Config controls pool capacity and growth behavior
type Config struct {
	Name        string
	InitialSize int
	MaxSize     int
	Growable    bool // acquire past MaxSize allocates instead of failing
}

// Stats is a point-in-time snapshot of pool usage
type Stats struct {
	Name        string
	Free        int // objects sitting in the pool
	InUse       int // objects currently acquired
	Total       int // objects ever allocated and still tracked
	MaxSize     int
	Acquires    uint64
	Releases    uint64
	Failures    uint64 // failed acquires on capped pools
	Utilization float64
}

// Pool hands out reusable instances of T. Objects are reset to their
// canonical state on acquire, not on release, so a released object's
// fields stay readable for debugging until it is reused.
//
// Single-writer by frame-loop guarantee; the mutex only covers the
// occasional off-frame caller (stats readers, the sweep goroutine).
type Pool[T any] struct {
	cfg   Config
	log   *slog.Logger
	newFn func() *T
	reset func(*T)

	mu       sync.Mutex
	free     []*T
	inUse    map[*T]struct{}
	total    int
	acquires uint64
	releases uint64
	failures uint64
}

// New creates a pool pre-filled with cfg.InitialSize objects.
// newFn allocates a fresh object, reset returns one to canonical state.
func New[T any](cfg Config, log *slog.Logger, newFn func() *T, reset func(*T)) *Pool[T] {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}
	if cfg.InitialSize > cfg.MaxSize {
		cfg.InitialSize = cfg.MaxSize
	}
	p := &Pool[T]{
		cfg:   cfg,
		log:   log,
		newFn: newFn,
		reset: reset,
		free:  make([]*T, 0, cfg.InitialSize),
		inUse: make(map[*T]struct{}),
	}
	for i := 0; i < cfg.InitialSize; i++ {
		p.free = append(p.free, newFn())
		p.total++
	}
	return p
}

// Acquire returns a reset object, or (nil, false) when a capped pool
// is exhausted. It never hands out an instance that is still in use.
func (p *Pool[T]) Acquire() (*T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var obj *T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		if p.total >= p.cfg.MaxSize && !p.cfg.Growable {
			p.failures++
			p.log.Warn("pool exhausted", "pool", p.cfg.Name, "max", p.cfg.MaxSize)
			return nil, false
		}
		obj = p.newFn()
		p.total++
	}

	if p.reset != nil {
		p.reset(obj)
	}
	p.inUse[obj] = struct{}{}
	p.acquires++
	return obj, true
}

// Release returns an object to the pool. Releasing nil, an object the
// pool never issued, or an already-released object is a logged no-op.
func (p *Pool[T]) Release(obj *T) {
	if obj == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inUse[obj]; !ok {
		p.log.Warn("release of object not issued by pool", "pool", p.cfg.Name)
		return
	}
	delete(p.inUse, obj)
	p.free = append(p.free, obj)
	p.releases++
}

// Stats returns a snapshot of current usage
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Name:        p.cfg.Name,
		Free:        len(p.free),
		InUse:       len(p.inUse),
		Total:       p.total,
		MaxSize:     p.cfg.MaxSize,
		Acquires:    p.acquires,
		Releases:    p.releases,
		Failures:    p.failures,
		Utilization: float64(len(p.inUse)) / float64(p.cfg.MaxSize),
	}
}

// Health reports anomalies: a growable pool that has outgrown its
// nominal capacity by 20% (likely leak), or utilization above 95%.
func (p *Pool[T]) Health() []string {
	s := p.Stats()

	var warnings []string
	if float64(s.Total) > float64(s.MaxSize)*1.2 {
		warnings = append(warnings, "possible leak: total objects exceed 120% of max size")
	}
	if s.Utilization > 0.95 {
		warnings = append(warnings, "near capacity: utilization above 95%")
	}
	return warnings
}
