package life

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// NeighborCounts returns, for every particle, how many others lie strictly within radius.
// Coincident particles are not counted, matching the force pass.
func NeighborCounts(ps []Particle, radius float64) []int {
	counts := make([]int, len(ps))
	if radius <= 0 {
		return counts
	}
	g := newGrid(ps, radius)
	var buf []int
	for i, p := range ps {
		buf = g.candidates(buf, p.Pos.X, p.Pos.Y)
		for _, j := range buf {
			if j == i {
				continue
			}
			d := r2.Norm(r2.Sub(ps[j].Pos, p.Pos))
			if d > 0 && d < radius {
				counts[i]++
			}
		}
	}
	return counts
}

// CrowdedCells buckets particles into cells of the given size and returns the index
// lists of cells holding more than limit particles, ordered by their first index.
func CrowdedCells(ps []Particle, cellSize float64, limit int) [][]int {
	if cellSize <= 0 {
		return nil
	}
	out := newGrid(ps, cellSize).crowded(limit)
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// Centroid returns the mean position of the indexed particles
func Centroid(ps []Particle, idx []int) r2.Vec {
	var c r2.Vec
	if len(idx) == 0 {
		return c
	}
	for _, i := range idx {
		c = r2.Add(c, ps[i].Pos)
	}
	return r2.Scale(1/float64(len(idx)), c)
}
