// Command lifeterm runs the particle-life simulation in a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/world"
)

const (
	tickRate   = 30
	cellWidth  = 8.0  // World units per terminal column
	cellHeight = 16.0 // World units per terminal row
	stateFile  = "state.json"
	toneHz     = 880
)

var (
	particlesFlag = flag.Int("particles", 800, "Initial particle count")
	presetFlag    = flag.String("preset", string(life.PresetSmall), "Palette profile: classic, small, dense")
	seedFlag      = flag.Int64("seed", 0, "Random seed, 0 uses the current time")
	soundFlag     = flag.Bool("sound", false, "Play a tone when a command is applied")
	debugFlag     = flag.Bool("debug", false, "Write logs to a file in -logdir")
	logDirFlag    = flag.String("logdir", "logs", "Log directory for -debug")
)

type app struct {
	screen    tcell.Screen
	world     *world.World
	palette   []tcell.Style
	paused    bool
	audioInit bool
	status    string
}

func main() {
	flag.Parse()

	// The terminal belongs to tcell, so logs never go to stderr
	logFile, err := logging.Setup(*debugFlag, *logDirFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	cols, rows := screen.Size()
	cfg, err := life.PresetConfig(life.Preset(*presetFlag))
	if err != nil {
		return err
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := world.New(world.Options{
		Width:     float64(cols) * cellWidth,
		Height:    float64(rows) * cellHeight,
		Particles: *particlesFlag,
		Seed:      seed,
		Config:    cfg,
	})
	if err != nil {
		return err
	}

	a := &app{screen: screen, world: w}
	a.syncPalette()
	if *soundFlag {
		sampleRate := beep.SampleRate(44100)
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err == nil {
			a.audioInit = true
			defer speaker.Close()
		} else {
			log.Printf("audio disabled: %v", err)
		}
	}
	a.loop()
	return nil
}

func (a *app) loop() {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if !a.paused {
				if err := a.world.Step(1.0 / tickRate); err != nil {
					log.Printf("step failed, pausing: %v", err)
					a.status = err.Error()
					a.paused = true
				}
			}
			a.draw()
		}
	}
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			a.apply(life.Command{Kind: life.DoubleSpeed})
		case tcell.KeyLeft:
			a.apply(life.Command{Kind: life.HalveSpeed})
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				a.paused = !a.paused
			case 'r':
				a.apply(life.Command{Kind: life.RegenerateBehaviorMatrix})
			case 't':
				a.apply(life.Command{Kind: life.RegenerateShapeConstants})
			case 'p':
				a.apply(life.Command{Kind: life.RegeneratePalette})
			case 'e':
				a.world.EvolutionMode = !a.world.EvolutionMode
			case 'b':
				a.world.LifecycleMode = !a.world.LifecycleMode
			case 'n':
				a.world.Spawn(100)
			case 's':
				a.report(a.world.Save(stateFile), "saved "+stateFile)
			case 'l':
				a.report(a.world.Load(stateFile), "loaded "+stateFile)
				a.syncPalette()
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) apply(cmd life.Command) {
	_, err := a.world.Apply(cmd)
	a.report(err, cmd.String())
	if err == nil {
		a.syncPalette()
		a.playTone()
	}
}

func (a *app) report(err error, ok string) {
	if err != nil {
		log.Printf("%s: %v", ok, err)
		a.status = err.Error()
		return
	}
	a.status = ok
}

func (a *app) playTone() {
	if !a.audioInit {
		return
	}
	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, toneHz)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(50*time.Millisecond), sine))
}

func (a *app) syncPalette() {
	n := a.world.State().Colors()
	if n == len(a.palette) {
		return
	}
	a.palette = make([]tcell.Style, n)
	for i, c := range world.Palette(n) {
		a.palette[i] = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	}
}

func (a *app) draw() {
	a.screen.Clear()
	cols, rows := a.screen.Size()
	w := a.world
	for _, p := range w.Particles {
		x := int(p.X / w.Width * float64(cols))
		y := int(p.Y / w.Height * float64(rows))
		style := tcell.StyleDefault
		if p.Class < len(a.palette) {
			style = a.palette[p.Class]
		}
		a.screen.SetContent(x, y, '•', nil, style)
	}

	st := w.State()
	hud := fmt.Sprintf(" %d particles  %d colors  speed %.4g  beta %.2f  gamma %.2f  radius %.0f  %s ",
		len(w.Particles), st.Colors(), st.Params.Speed, st.Params.Beta, st.Params.Gamma, st.Params.Radius, a.status)
	hudStyle := tcell.StyleDefault.Reverse(true)
	for i, r := range []rune(hud) {
		if i >= cols {
			break
		}
		a.screen.SetContent(i, rows-1, r, nil, hudStyle)
	}
	a.screen.Show()
}
