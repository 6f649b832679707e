// Package life is the particle-life force kernel: behavior matrices between color
// classes, the three-zone force law and the snapshot-then-commit tick.
package life

import "gonum.org/v1/gonum/spatial/r2"

// Particle is the read-only view of one particle the host hands to the engine
type Particle struct {
	Pos   r2.Vec
	Class int
}

// Magnitude evaluates the three-zone force law at a normalized distance in [0, 1).
//
// Below beta the result is a hard-core repulsion from -1 up to 0 that ignores behavior.
// Between beta and gamma it ramps linearly from 0 to behavior, and between gamma and 1
// it ramps back down to 0 so the force vanishes at the attraction radius.
func Magnitude(normDistance, behavior, beta, gamma float64) float64 {
	switch {
	case normDistance < beta:
		return -1 + normDistance/beta
	case normDistance < gamma:
		return behavior * (normDistance - beta) / (gamma - beta)
	default:
		return behavior * (1 - normDistance) / (1 - gamma)
	}
}

// pairForce returns the force particle j exerts on particle i and whether j is a neighbor
func pairForce(pi, pj r2.Vec, behavior float64, p Params) (r2.Vec, bool) {
	delta := r2.Sub(pj, pi)
	dist := r2.Norm(delta)
	// Coincident positions, including the particle itself
	if dist == 0 {
		return r2.Vec{}, false
	}
	norm := dist / p.Radius
	if norm >= 1 {
		return r2.Vec{}, false
	}
	dir := r2.Vec{X: delta.X / dist, Y: delta.Y / dist}
	return r2.Scale(Magnitude(norm, behavior, p.Beta, p.Gamma), dir), true
}
