package powerup

import "time"

// Context is the short-lived, engine-constructed value handed to every
// plugin call. Plugins never see the ActiveEffect record itself; the
// opaque Data payload round-trips through the context instead.
type Context struct {
	Type     Type
	Variant  Variant
	EffectID string

	// Data is the plugin's own payload: the request parameters on
	// Apply, the state captured at apply time on Update/Remove.
	Data any

	// Entities is the live view onto caller-owned state
	Entities Entities

	Delta time.Duration
	Now   time.Time

	Budget Budget
}
