// Package powerup implements the power-up effect engine: per-type
// plugins that mutate the live game entities through a narrow view,
// a registry that owns plugin lifecycle, and the System orchestrator
// that admits, conflict-resolves, stacks, and expires effects.
package powerup

// Type identifies a power-up family. New types are added by
// registering a plugin; the engine has no compile-time knowledge
// of concrete plugin types.
type Type string

const (
	TypeMultiBall   Type = "multi_ball"
	TypePaddleSize  Type = "paddle_size"
	TypeBallSpeed   Type = "ball_speed"
	TypePenetration Type = "penetration"
	TypeMagnet      Type = "magnet"
)

// Variant selects a sub-behavior within one type (same plugin,
// different parameters).
type Variant string

const (
	VariantNone        Variant = ""
	VariantPaddleLarge Variant = "paddle_large"
	VariantPaddleSmall Variant = "paddle_small"
	VariantSpeedFast   Variant = "speed_fast"
	VariantSpeedSlow   Variant = "speed_slow"
)

// Rarity drives the spawner's drop table, nothing else
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
)

func (r Rarity) Weight() int {
	switch r {
	case RarityCommon:
		return 6
	case RarityUncommon:
		return 3
	case RarityRare:
		return 1
	default:
		return 0
	}
}
