package life

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Particles per goroutine below which splitting the pass is not worth it
const minChunk = 64

// Frame is the result of one tick, indexed like the input particles
type Frame struct {
	Forces     []r2.Vec // Mean force per particle
	Velocities []r2.Vec // Force scaled by speed, for hosts that integrate themselves
	Positions  []r2.Vec // Position advanced by velocity * dt
}

// Engine computes the all-pairs interaction kernel
type Engine struct {
	workers int
	useGrid bool
}

// NewEngine creates an engine using the worker count and neighbor search from cfg
func NewEngine(cfg Config) *Engine {
	w := cfg.Workers
	if w < 1 {
		w = 1
	}
	return &Engine{workers: w, useGrid: cfg.UseGrid}
}

// Step computes forces from the snapshot and integrates them over dt.
// Output goes to fresh buffers; on error nothing is returned and the caller keeps its state.
func (e *Engine) Step(ps []Particle, st *State, dt float64) (Frame, error) {
	if dt < 0 {
		return Frame{}, fmt.Errorf("%w: negative time step %v", ErrInvalidParams, dt)
	}
	forces, err := e.Forces(ps, st)
	if err != nil {
		return Frame{}, err
	}
	f := Frame{
		Forces:     forces,
		Velocities: make([]r2.Vec, len(ps)),
		Positions:  make([]r2.Vec, len(ps)),
	}
	speed := st.Params.Speed
	for i, p := range ps {
		v := r2.Scale(speed, forces[i])
		f.Velocities[i] = v
		f.Positions[i] = r2.Add(p.Pos, r2.Scale(dt, v))
	}
	return f, nil
}

// Forces returns the mean force on every particle, computed from the pre-tick snapshot
func (e *Engine) Forces(ps []Particle, st *State) ([]r2.Vec, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if err := checkClasses(ps, st.Matrix.Size()); err != nil {
		return nil, err
	}

	k := &kernel{ps: ps, m: st.Matrix, p: st.Params}
	if e.useGrid {
		k.g = newGrid(ps, st.Params.Radius)
	}
	out := make([]r2.Vec, len(ps))

	if e.workers == 1 || len(ps) < 2*minChunk {
		k.run(out, 0, len(ps))
		return out, nil
	}

	chunk := (len(ps) + e.workers*4 - 1) / (e.workers * 4)
	if chunk < minChunk {
		chunk = minChunk
	}
	var g errgroup.Group
	g.SetLimit(e.workers)
	for lo := 0; lo < len(ps); lo += chunk {
		hi := min(lo+chunk, len(ps))
		g.Go(func() error {
			// Each goroutine writes only out[lo:hi]
			k.run(out, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForceAt samples the mean force a particle of the given class would feel at point.
// Particles sitting exactly on point are skipped like coincident neighbors.
func ForceAt(point r2.Vec, class int, ps []Particle, st *State) (r2.Vec, error) {
	if err := st.Validate(); err != nil {
		return r2.Vec{}, err
	}
	if err := checkClasses(ps, st.Matrix.Size()); err != nil {
		return r2.Vec{}, err
	}
	if class < 0 || class >= st.Matrix.Size() {
		return r2.Vec{}, fmt.Errorf("%w: probe class %d with %d classes", ErrClassOutOfRange, class, st.Matrix.Size())
	}
	var acc accumulator
	for _, q := range ps {
		acc.add(pairForce(point, q.Pos, st.Matrix.at(class, q.Class), st.Params))
	}
	return acc.mean(), nil
}

func checkClasses(ps []Particle, n int) error {
	for i, p := range ps {
		if p.Class < 0 || p.Class >= n {
			return fmt.Errorf("%w: particle %d has class %d, palette has %d", ErrClassOutOfRange, i, p.Class, n)
		}
	}
	return nil
}

type accumulator struct {
	sum   r2.Vec
	count int
}

func (a *accumulator) add(f r2.Vec, ok bool) {
	if !ok {
		return
	}
	a.sum = r2.Add(a.sum, f)
	a.count++
}

func (a *accumulator) mean() r2.Vec {
	if a.count == 0 {
		return r2.Vec{}
	}
	n := float64(a.count)
	return r2.Vec{X: a.sum.X / n, Y: a.sum.Y / n}
}

// kernel is the read-only view shared by all goroutines of one pass
type kernel struct {
	ps []Particle
	m  *Matrix
	p  Params
	g  *grid
}

func (k *kernel) run(out []r2.Vec, lo, hi int) {
	var buf []int
	for i := lo; i < hi; i++ {
		if k.g != nil {
			buf = k.g.candidates(buf, k.ps[i].Pos.X, k.ps[i].Pos.Y)
			out[i] = k.forceOnFrom(i, buf)
		} else {
			out[i] = k.forceOn(i)
		}
	}
}

func (k *kernel) forceOn(i int) r2.Vec {
	var acc accumulator
	pi := k.ps[i]
	for j, pj := range k.ps {
		if j == i {
			continue
		}
		acc.add(pairForce(pi.Pos, pj.Pos, k.m.at(pi.Class, pj.Class), k.p))
	}
	return acc.mean()
}

func (k *kernel) forceOnFrom(i int, candidates []int) r2.Vec {
	var acc accumulator
	pi := k.ps[i]
	for _, j := range candidates {
		if j == i {
			continue
		}
		pj := k.ps[j]
		acc.add(pairForce(pi.Pos, pj.Pos, k.m.at(pi.Class, pj.Class), k.p))
	}
	return acc.mean()
}
