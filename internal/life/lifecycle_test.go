package life

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNeighborCountsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ps := randomParticles(rng, 400, 1, 200)
	ps = append(ps, Particle{Pos: ps[0].Pos})
	const radius = 25.0

	got := NeighborCounts(ps, radius)
	for i, p := range ps {
		want := 0
		for j, q := range ps {
			d := r2.Norm(r2.Sub(q.Pos, p.Pos))
			if i != j && d > 0 && d < radius {
				want++
			}
		}
		if got[i] != want {
			t.Errorf("particle %d: %d neighbors, want %d", i, got[i], want)
		}
	}
}

func TestCrowdedCells(t *testing.T) {
	var ps []Particle
	for i := 0; i < 12; i++ {
		ps = append(ps, Particle{Pos: vec(5+float64(i)*0.1, 5)})
	}
	ps = append(ps, Particle{Pos: vec(55, 55)}, Particle{Pos: vec(56, 55)})

	cells := CrowdedCells(ps, 10, 10)
	if len(cells) != 1 || len(cells[0]) != 12 {
		t.Fatalf("crowded cells = %v", cells)
	}
	c := Centroid(ps, cells[0])
	if !approx(c.X, 5.55) || !approx(c.Y, 5) {
		t.Errorf("centroid = %v, want (5.55, 5)", c)
	}

	if CrowdedCells(ps, 0, 1) != nil {
		t.Error("zero cell size produced cells")
	}
	if Centroid(ps, nil) != (r2.Vec{}) {
		t.Error("centroid of nothing is not zero")
	}
}
