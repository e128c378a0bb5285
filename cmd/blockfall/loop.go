package main

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/avolkmar/blockfall/audio"
	"github.com/avolkmar/blockfall/constants"
	"github.com/avolkmar/blockfall/engine"
	"github.com/avolkmar/blockfall/game"
	"github.com/avolkmar/blockfall/input"
	"github.com/avolkmar/blockfall/powerup"
	"github.com/avolkmar/blockfall/render"
)

// Loop drives the fixed-tick frame cycle: drain input, step physics,
// advance drops and effects, draw. All entity mutation happens on this
// goroutine; the effect sweeper only retires engine bookkeeping and
// leaves restoration to the Reap call here.
type Loop struct {
	screen   tcell.Screen
	state    *game.State
	view     *game.View
	sys      *powerup.System
	spawner  *game.Spawner
	renderer *render.Renderer
	sound    *audio.Engine
	clock    engine.Clock
	scores   game.ScoreStore
	tick     time.Duration
	log      *slog.Logger

	paused bool
}

// Run blocks until the player quits
func (l *Loop) Run() {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	last := l.clock.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				l.screen.Sync()
				continue
			}
			if !l.handle(input.Map(ev)) {
				l.scores.Submit(l.state.Score)
				return
			}

		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last)
			last = now

			if !l.paused && !l.state.GameOver {
				l.step(dt)
			} else {
				// swept effects still need their restoration run on
				// this goroutine while the frame step is skipped
				l.sys.Reap(l.view)
			}
			l.renderer.Draw(l.state, l.sys.ActiveEffects(), l.scores.Best(), l.paused)
		}
	}
}

// handle reacts to one action; returns false on quit
func (l *Loop) handle(a input.Action) bool {
	switch a {
	case input.ActionQuit:
		return false
	case input.ActionPause:
		l.paused = !l.paused
	case input.ActionMute:
		l.sound.ToggleMute()
	case input.ActionMoveLeft:
		if !l.paused {
			l.state.MovePaddle(-constants.PaddleStep)
		}
	case input.ActionMoveRight:
		if !l.paused {
			l.state.MovePaddle(constants.PaddleStep)
		}
	case input.ActionLaunch:
		if !l.paused {
			l.state.LaunchBalls()
		}
	}
	return true
}

func (l *Loop) step(dt time.Duration) {
	l.sys.SetPlayerState(l.state.Lives, l.state.Score, l.state.Level)
	res := l.state.Step(dt)

	for _, blk := range res.Destroyed {
		l.spawner.OnBlockDestroyed(l.state, blk)
	}
	if collected := l.spawner.Update(dt, l.state, l.view); collected > 0 {
		l.sound.PlayCollect()
	}

	l.sys.Update(dt, l.view)

	for _, ev := range res.Events {
		l.sound.Play(ev)
		if ev == game.EventGameOver {
			l.scores.Submit(l.state.Score)
		}
	}
}
