// Package audio triggers short synthesized tones for game events.
// Degrades gracefully: when no audio backend is available the engine
// stays silent instead of erroring.
package audio

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/avolkmar/blockfall/game"
)

const rate = beep.SampleRate(44100)

// tone is one event's sound
type tone struct {
	freq     float64
	duration time.Duration
}

var tones = map[game.Event]tone{
	game.EventWallBounce:     {freq: 440, duration: 30 * time.Millisecond},
	game.EventPaddleBounce:   {freq: 660, duration: 40 * time.Millisecond},
	game.EventBlockHit:       {freq: 880, duration: 40 * time.Millisecond},
	game.EventBlockDestroyed: {freq: 1100, duration: 60 * time.Millisecond},
	game.EventBallLost:       {freq: 220, duration: 150 * time.Millisecond},
	game.EventLifeLost:       {freq: 150, duration: 300 * time.Millisecond},
	game.EventLevelCleared:   {freq: 1320, duration: 200 * time.Millisecond},
	game.EventGameOver:       {freq: 110, duration: 500 * time.Millisecond},
}

// collect tone is separate from physics events
const collectFreq = 990

// Engine plays event tones through the speaker
type Engine struct {
	log   *slog.Logger
	ready bool
	muted atomic.Bool
}

// New initializes the speaker. Initialization failure is non-fatal:
// the engine comes back disabled and every Play is a no-op.
func New(log *slog.Logger, muted bool) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{log: log}
	e.muted.Store(muted)

	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		log.Warn("audio unavailable, running silent", "err", err)
		return e
	}
	e.ready = true
	return e
}

// ToggleMute flips the mute state and returns the new value
func (e *Engine) ToggleMute() bool {
	muted := !e.muted.Load()
	e.muted.Store(muted)
	return muted
}

// Play triggers the tone mapped to a game event
func (e *Engine) Play(ev game.Event) {
	t, ok := tones[ev]
	if !ok {
		return
	}
	e.play(t)
}

// PlayCollect triggers the power-up collection chirp
func (e *Engine) PlayCollect() {
	e.play(tone{freq: collectFreq, duration: 80 * time.Millisecond})
}

func (e *Engine) play(t tone) {
	if !e.ready || e.muted.Load() {
		return
	}
	sine, err := generators.SineTone(rate, t.freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(rate.N(t.duration), sine))
}

// Close shuts the speaker down
func (e *Engine) Close() {
	if e.ready {
		speaker.Close()
	}
}
