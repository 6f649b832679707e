package life

import (
	"math"
	"slices"
)

// Cells are padded so floor rounding never puts two particles closer than the
// radius more than one cell apart.
const gridPadding = 1 + 1e-9

type cellKey struct {
	x, y int
}

// grid buckets particle indices by cell. Each bucket holds indices in ascending order.
type grid struct {
	size  float64
	cells map[cellKey][]int
}

func newGrid(ps []Particle, radius float64) *grid {
	g := &grid{
		size:  radius * gridPadding,
		cells: make(map[cellKey][]int, len(ps)/4+1),
	}
	for i, p := range ps {
		k := g.key(p.Pos.X, p.Pos.Y)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *grid) key(x, y float64) cellKey {
	return cellKey{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// candidates appends every index in the 3×3 block around (x, y) to buf, sorted ascending,
// so accumulation visits neighbors in the same order as the all-pairs pass.
func (g *grid) candidates(buf []int, x, y float64) []int {
	buf = buf[:0]
	c := g.key(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			buf = append(buf, g.cells[cellKey{c.x + dx, c.y + dy}]...)
		}
	}
	slices.Sort(buf)
	return buf
}

// crowded returns the cells holding more than limit particles
func (g *grid) crowded(limit int) [][]int {
	var out [][]int
	for _, idx := range g.cells {
		if len(idx) > limit {
			out = append(out, idx)
		}
	}
	return out
}
