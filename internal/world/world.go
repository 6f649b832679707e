// Package world is the particle store that drives the force engine: it owns
// particle lifetime, seeds positions from a noise field, wraps the torus and
// turns control commands into state swaps between ticks.
package world

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/particle-life/internal/life"
)

// World constants
const (
	TrailLength       = 10
	EvolutionInterval = 1000 // Ticks between matrix mutations in evolution mode
	MinNeighbors      = 3    // Lifecycle: particles with fewer neighbors die
	CrowdLimit        = 10   // Lifecycle: cells above this spawn a particle
	DefaultFriction   = 0.1
	noiseScale        = 3.0
	spawnAttempts     = 8
)

// Integration selects how engine output is applied to particles
type Integration int

const (
	// IntegratePosition moves particles directly to the engine's new positions
	IntegratePosition Integration = iota
	// IntegrateVelocity treats the engine velocity as acceleration on a persistent,
	// damped velocity that the world steps itself
	IntegrateVelocity
)

// ParseIntegration maps a flag value to an Integration
func ParseIntegration(s string) (Integration, error) {
	switch s {
	case "position", "":
		return IntegratePosition, nil
	case "velocity":
		return IntegrateVelocity, nil
	}
	return 0, fmt.Errorf("unknown integration mode %q", s)
}

func (m Integration) String() string {
	if m == IntegrateVelocity {
		return "velocity"
	}
	return "position"
}

// Point is a trail sample
type Point struct{ X, Y float64 }

// Particle is the host-side particle record
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	Class  int     // Color class, valid for the current palette
	Trail  []Point // Last TrailLength positions when trails are on
}

// Options configures a World
type Options struct {
	Width, Height float64
	Particles     int
	Seed          int64
	Config        life.Config
	Integration   Integration
}

// World holds the particles and the simulation state they are advanced with
type World struct {
	Width, Height float64
	Particles     []*Particle
	Friction      float64
	Integration   Integration
	EvolutionMode bool
	LifecycleMode bool
	Trails        bool
	TickCount     int

	ctrl     *life.Controller
	engine   *life.Engine
	noise    *perlin.Perlin
	rng      *rand.Rand
	snapshot []life.Particle
}

// New creates a world and seeds it with particles
func New(opts Options) (*World, error) {
	if !(opts.Width > 0 && opts.Height > 0) {
		return nil, fmt.Errorf("world size %vx%v", opts.Width, opts.Height)
	}
	if opts.Particles < 0 {
		return nil, fmt.Errorf("particle count %d", opts.Particles)
	}
	ctrl, err := life.NewController(opts.Config, opts.Seed)
	if err != nil {
		return nil, err
	}
	w := &World{
		Width:       opts.Width,
		Height:      opts.Height,
		Friction:    DefaultFriction,
		Integration: opts.Integration,
		ctrl:        ctrl,
		engine:      life.NewEngine(opts.Config),
		noise:       perlin.NewPerlin(2, 2, 3, opts.Seed),
		rng:         rand.New(rand.NewSource(opts.Seed + 1)),
	}
	w.Spawn(opts.Particles)
	return w, nil
}

// State returns the current simulation state
func (w *World) State() *life.State {
	return w.ctrl.Load()
}

// Step advances every particle by one tick of length dt. On error no particle moves.
func (w *World) Step(dt float64) error {
	st := w.ctrl.Load()
	frame, err := w.engine.Step(w.Snapshot(), st, dt)
	if err != nil {
		return fmt.Errorf("tick %d: %w", w.TickCount, err)
	}

	for i, p := range w.Particles {
		switch w.Integration {
		case IntegrateVelocity:
			v := frame.Velocities[i]
			p.VX = (p.VX + v.X*dt) * (1 - w.Friction*dt)
			p.VY = (p.VY + v.Y*dt) * (1 - w.Friction*dt)
			p.X += p.VX * dt
			p.Y += p.VY * dt
		default:
			p.X, p.Y = frame.Positions[i].X, frame.Positions[i].Y
			p.VX, p.VY = frame.Velocities[i].X, frame.Velocities[i].Y
		}

		// Toroidal wrap
		p.X = wrap(p.X, w.Width)
		p.Y = wrap(p.Y, w.Height)

		if w.Trails {
			p.Trail = append(p.Trail, Point{p.X, p.Y})
			if len(p.Trail) > TrailLength {
				p.Trail = p.Trail[1:]
			}
		}
	}

	if w.LifecycleMode {
		w.applyLifecycle(st)
	}

	w.TickCount++
	if w.EvolutionMode && w.TickCount%EvolutionInterval == 0 {
		if _, err := w.Apply(life.Command{Kind: life.MutateMatrix}); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot copies positions and classes into a reused buffer.
// The slice is only valid until the next call.
func (w *World) Snapshot() []life.Particle {
	w.snapshot = w.snapshot[:0]
	for _, p := range w.Particles {
		w.snapshot = append(w.snapshot, life.Particle{Pos: r2.Vec{X: p.X, Y: p.Y}, Class: p.Class})
	}
	return w.snapshot
}

// Apply runs a control command between ticks. A palette change despawns every
// particle and respawns the same number with classes from the new palette.
func (w *World) Apply(cmd life.Command) (life.Change, error) {
	ch, err := w.ctrl.Apply(cmd)
	if err != nil {
		return ch, err
	}
	w.afterChange(ch)
	log.Printf("%s: %d colors, speed %.4g, beta %.3f, gamma %.3f, radius %.1f",
		cmd, ch.New.Colors(), ch.New.Params.Speed, ch.New.Params.Beta, ch.New.Params.Gamma, ch.New.Params.Radius)
	if ch.New.Matrix != ch.Old.Matrix {
		log.Printf("behavior matrix:\n%s", ch.New.Matrix)
	}
	return ch, nil
}

// Save writes the current state to a JSON file
func (w *World) Save(filename string) error {
	if err := life.SaveState(filename, w.ctrl.Load()); err != nil {
		return err
	}
	log.Printf("state saved to %s", filename)
	return nil
}

// Load replaces the current state with one read from filename
func (w *World) Load(filename string) error {
	st, err := life.LoadState(filename)
	if err != nil {
		return err
	}
	ch, err := w.ctrl.Replace(st)
	if err != nil {
		return err
	}
	w.afterChange(ch)
	log.Printf("state loaded from %s: %d colors", filename, st.Colors())
	return nil
}

func (w *World) afterChange(ch life.Change) {
	if ch.PaletteChanged {
		w.Respawn()
	}
}

// Respawn replaces every particle with a fresh one valid for the current palette
func (w *World) Respawn() {
	n := len(w.Particles)
	w.Particles = w.Particles[:0]
	w.Spawn(n)
}

// Spawn adds n particles at noise-weighted random positions
func (w *World) Spawn(n int) {
	for i := 0; i < n; i++ {
		x, y := w.noisePosition()
		w.SpawnAt(x, y)
	}
}

// SpawnAt adds one particle of a random class at (x, y), wrapped into the world
func (w *World) SpawnAt(x, y float64) *Particle {
	p := &Particle{
		X:     wrap(x, w.Width),
		Y:     wrap(y, w.Height),
		Class: w.rng.Intn(w.ctrl.Load().Colors()),
		Trail: make([]Point, 0, TrailLength+1),
	}
	w.Particles = append(w.Particles, p)
	return p
}

// noisePosition rejection-samples a position, preferring high perlin noise so
// initial populations start in loose clumps
func (w *World) noisePosition() (float64, float64) {
	var x, y float64
	for i := 0; i < spawnAttempts; i++ {
		x = w.rng.Float64() * w.Width
		y = w.rng.Float64() * w.Height
		n := w.noise.Noise2D(x/w.Width*noiseScale, y/w.Height*noiseScale)
		if w.rng.Float64() < (n+1)/2 {
			break
		}
	}
	return x, y
}

// ForceMagnitudeAt samples the field a class-0 particle would feel at (x, y)
func (w *World) ForceMagnitudeAt(x, y float64) float64 {
	f, err := life.ForceAt(r2.Vec{X: x, Y: y}, 0, w.Snapshot(), w.ctrl.Load())
	if err != nil {
		return 0
	}
	return r2.Norm(f)
}

// applyLifecycle removes isolated particles and adds one near the centroid of every crowded cell
func (w *World) applyLifecycle(st *life.State) {
	snap := w.Snapshot()
	radius := st.Params.Radius
	counts := life.NeighborCounts(snap, radius)
	crowded := life.CrowdedCells(snap, radius, CrowdLimit)

	var births []r2.Vec
	for _, idx := range crowded {
		births = append(births, life.Centroid(snap, idx))
	}

	alive := w.Particles[:0]
	for i, p := range w.Particles {
		if counts[i] >= MinNeighbors {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(w.Particles); i++ {
		w.Particles[i] = nil
	}
	w.Particles = alive

	for _, c := range births {
		w.SpawnAt(c.X+w.rng.Float64()*10-5, c.Y+w.rng.Float64()*10-5)
	}
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}
