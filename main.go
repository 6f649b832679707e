package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/world"
)

var (
	widthFlag     = flag.Int("width", 800, "World and window width")
	heightFlag    = flag.Int("height", 600, "World and window height")
	particlesFlag = flag.Int("particles", 2000, "Initial particle count")
	presetFlag    = flag.String("preset", string(life.PresetClassic), "Palette profile: classic, small, dense")
	seedFlag      = flag.Int64("seed", 0, "Random seed, 0 uses the current time")
	workersFlag   = flag.Int("workers", 0, "Force pass goroutines, 0 uses GOMAXPROCS")
	gridFlag      = flag.Bool("grid", true, "Use the spatial grid for neighbor search")
	integrateFlag = flag.String("integrate", "position", "Integration target: position or velocity")
	stateFlag     = flag.String("state", "", "Load matrix and parameters from this JSON file")
	debugFlag     = flag.Bool("debug", false, "Write logs to a file in -logdir")
	logDirFlag    = flag.String("logdir", "logs", "Log directory for -debug")
)

func main() {
	flag.Parse()

	if *debugFlag {
		logFile, err := logging.Setup(true, *logDirFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logFile.Close()
	}

	w, err := newWorld()
	if err != nil {
		log.Fatal(err)
	}
	sim := NewSimulation(w)

	// Set up Ebitengine game
	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("Particle Life Simulation")
	ebiten.SetTPS(60) // Target 60 ticks per second

	// Run the game loop
	if err := ebiten.RunGame(sim); err != nil {
		log.Fatal(err)
	}
}

func newWorld() (*world.World, error) {
	cfg, err := life.PresetConfig(life.Preset(*presetFlag))
	if err != nil {
		return nil, err
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	cfg.UseGrid = *gridFlag

	mode, err := world.ParseIntegration(*integrateFlag)
	if err != nil {
		return nil, err
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w, err := world.New(world.Options{
		Width:       float64(*widthFlag),
		Height:      float64(*heightFlag),
		Particles:   *particlesFlag,
		Seed:        seed,
		Config:      cfg,
		Integration: mode,
	})
	if err != nil {
		return nil, err
	}
	if *stateFlag != "" {
		if err := w.Load(*stateFlag); err != nil {
			return nil, err
		}
	}
	log.Printf("seed %d, preset %s, %d colors, %d particles", seed, *presetFlag, w.State().Colors(), len(w.Particles))
	return w, nil
}
