package powerup

import "time"

// Descriptor is the static metadata for one power-up type. Every
// installed plugin exposes exactly one via Metadata(). Priority is
// used only for cross-type conflict arbitration, Stackable only for
// same-type duplication policy.
type Descriptor struct {
	ID            string
	Type          Type
	Priority      int
	Stackable     bool
	ConflictsWith []Type
	Duration      time.Duration
	MaxInstances  int // per-type cap for stackable types, 0 = unlimited
	Icon          rune
	Color         string
	Rarity        Rarity
}

// ConflictsWithType reports whether t is in the descriptor's conflict set
func (d Descriptor) ConflictsWithType(t Type) bool {
	for _, c := range d.ConflictsWith {
		if c == t {
			return true
		}
	}
	return false
}

// SelfConflicting reports whether the type declares a conflict with
// itself. Such types follow a replace-in-place strategy instead of a
// plain duplicate rejection, so a re-apply swaps parameters without a
// gap where the entity sits at its default state.
func (d Descriptor) SelfConflicting() bool {
	return d.ConflictsWithType(d.Type)
}
