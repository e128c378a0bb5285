package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/avolkmar/blockfall/constants"
	"github.com/avolkmar/blockfall/powerup"
)

// dropEntry is one slot of the rarity-weighted drop table
type dropEntry struct {
	typ     powerup.Type
	variant powerup.Variant
	icon    rune
	color   string
	weight  int
}

// Spawner rolls power-up drops from destroyed blocks and feeds
// collected drops into the effect engine. It calls ApplyEffect and
// moves on; a rejected effect simply does not change gameplay.
type Spawner struct {
	log        *slog.Logger
	rng        *rand.Rand
	sys        *powerup.System
	dropChance float64
	table      []dropEntry
	total      int
}

// NewSpawner builds the drop table from the descriptors of every
// installed plugin, weighted by rarity
func NewSpawner(log *slog.Logger, sys *powerup.System, seed int64) *Spawner {
	if log == nil {
		log = slog.Default()
	}
	sp := &Spawner{
		log:        log,
		rng:        rand.New(rand.NewSource(seed)),
		sys:        sys,
		dropChance: constants.DropChance,
	}
	for _, d := range sys.Registry().Descriptors() {
		for _, variant := range variantsFor(d.Type) {
			sp.table = append(sp.table, dropEntry{
				typ:     d.Type,
				variant: variant,
				icon:    d.Icon,
				color:   d.Color,
				weight:  d.Rarity.Weight(),
			})
			sp.total += d.Rarity.Weight()
		}
	}
	return sp
}

func variantsFor(t powerup.Type) []powerup.Variant {
	switch t {
	case powerup.TypePaddleSize:
		return []powerup.Variant{powerup.VariantPaddleLarge, powerup.VariantPaddleSmall}
	case powerup.TypeBallSpeed:
		return []powerup.Variant{powerup.VariantSpeedFast, powerup.VariantSpeedSlow}
	default:
		return []powerup.Variant{powerup.VariantNone}
	}
}

// OnBlockDestroyed maybe spawns a falling drop at the block's center
func (sp *Spawner) OnBlockDestroyed(s *State, blk *Block) {
	if sp.total == 0 || sp.rng.Float64() >= sp.dropChance {
		return
	}

	roll := sp.rng.Intn(sp.total)
	var chosen dropEntry
	for _, e := range sp.table {
		roll -= e.weight
		if roll < 0 {
			chosen = e
			break
		}
	}

	d, ok := s.dropPool.Acquire()
	if !ok {
		sp.log.Warn("drop pool exhausted, drop skipped")
		return
	}
	d.ID = uuid.NewString()
	d.Type = chosen.typ
	d.Variant = chosen.variant
	d.Icon = chosen.icon
	d.Color = chosen.color
	d.X = blk.X + blk.Width/2
	d.Y = blk.Y + blk.Height/2
	d.VY = constants.DropFallSpeed
	d.Active = true
	s.Drops = append(s.Drops, d)
}

// Update advances falling drops; ones caught by the paddle become
// apply requests, ones past the floor are returned to the pool.
// Returns the number of drops collected this tick.
func (sp *Spawner) Update(dt time.Duration, s *State, view *View) int {
	secs := dt.Seconds()
	collected := 0

	alive := s.Drops[:0]
	for _, d := range s.Drops {
		d.Y += d.VY * secs

		if sp.caught(d, s.Paddle) {
			res := sp.sys.ApplyEffect(d.Type, uuid.NewString(), view, powerup.EffectRequest{
				Variant: d.Variant,
				X:       d.X,
				Y:       d.Y,
			})
			if !res.Success {
				sp.log.Debug("power-up rejected", "type", d.Type, "err", res.Err)
			}
			collected++
			d.Active = false
			s.dropPool.Release(d)
			continue
		}

		if d.Y-d.Size/2 > s.Height {
			d.Active = false
			s.dropPool.Release(d)
			continue
		}
		alive = append(alive, d)
	}
	s.Drops = alive
	return collected
}

func (sp *Spawner) caught(d *Drop, p *Paddle) bool {
	if d.Y+d.Size/2 < p.Y || d.Y-d.Size/2 > p.Y+p.Height {
		return false
	}
	return d.X+d.Size/2 >= p.X && d.X-d.Size/2 <= p.X+p.Width
}
