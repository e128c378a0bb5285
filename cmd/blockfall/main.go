package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/avolkmar/blockfall/audio"
	"github.com/avolkmar/blockfall/config"
	"github.com/avolkmar/blockfall/engine"
	"github.com/avolkmar/blockfall/game"
	"github.com/avolkmar/blockfall/powerup"
	"github.com/avolkmar/blockfall/render"
)

var (
	configFlag = flag.String("config", "", "path to config file")
	muteFlag   = flag.Bool("mute", false, "start muted")
	debugFlag  = flag.Bool("debug", false, "write debug log to logs/")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *muteFlag {
		cfg.Audio.Muted = true
	}

	log, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		os.Exit(1)
	}

	// Panic recovery: restore the terminal before printing the trace,
	// otherwise the stack is invisible garbage in raw mode
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nBLOCKFALL CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	clock := engine.NewMonotonicClock()

	registry := powerup.NewRegistry(log, cfg.Effects.CallBudget)
	sys := powerup.NewSystem(powerup.Config{
		MaxActiveEffects: cfg.Effects.MaxActive,
		StackingAllowed:  cfg.Effects.StackingAllowed,
		SweepInterval:    cfg.Effects.SweepInterval,
		CallBudget:       cfg.Effects.CallBudget,
		Debug:            cfg.Debug,
	}, clock, log, registry)

	for _, p := range []powerup.Plugin{
		powerup.NewMultiBall(),
		powerup.NewPaddleSize(),
		powerup.NewBallSpeed(),
		powerup.NewPenetration(),
		powerup.NewMagnet(),
	} {
		if err := registry.Register(p); err != nil {
			panic(err)
		}
	}

	sys.Start()
	defer sys.Stop()

	sound := audio.New(log, cfg.Audio.Muted)
	defer sound.Close()

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state := game.NewState(log)
	loop := &Loop{
		screen:   screen,
		state:    state,
		view:     state.View(),
		sys:      sys,
		spawner:  game.NewSpawner(log, sys, seed),
		renderer: render.New(screen),
		sound:    sound,
		clock:    clock,
		scores:   game.NewMemoryScores(),
		tick:     time.Second / time.Duration(cfg.Game.TickRate),
		log:      log,
	}
	loop.Run()
}
