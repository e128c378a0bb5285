package powerup

import (
	"log/slog"
	"sort"
)

// StackResolver decides which instances give way when a stackable type
// exceeds its per-type instance cap. Eviction is always oldest-first
// by activation time, distinct from the priority-based cross-type
// conflict rule in the engine.
type StackResolver struct {
	log *slog.Logger
}

// NewStackResolver creates a resolver
func NewStackResolver(log *slog.Logger) *StackResolver {
	if log == nil {
		log = slog.Default()
	}
	return &StackResolver{log: log}
}

// EvictOldest returns the ids to evict so that the active instances
// plus one incoming fit within cap. cap<=0 means unlimited.
func (r *StackResolver) EvictOldest(active []*ActiveEffect, cap int) []string {
	if cap <= 0 || len(active)+1 <= cap {
		return nil
	}

	sorted := make([]*ActiveEffect, len(active))
	copy(sorted, active)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	excess := len(sorted) + 1 - cap
	ids := make([]string, 0, excess)
	for i := 0; i < excess && i < len(sorted); i++ {
		ids = append(ids, sorted[i].ID)
	}
	if len(ids) > 0 {
		r.log.Debug("stack cap eviction", "count", len(ids), "cap", cap)
	}
	return ids
}
