package life

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

// IntRange is an inclusive integer range
type IntRange struct {
	Min, Max int
}

// Validate checks that the range is non-empty and starts at one or above
func (r IntRange) Validate() error {
	if r.Min < 1 || r.Max < r.Min {
		return fmt.Errorf("%w: color count [%d, %d]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

func (r IntRange) sample(rng *rand.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Matrix is the dense N×N behavior matrix, indexed [from][to].
// A Matrix is never modified after construction; regeneration builds a new one.
type Matrix struct {
	n     int
	cells []float64 // row-major, len n*n
}

// NewMatrix builds a matrix from explicit rows, copying them
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidPalette)
	}
	m := &Matrix{n: n, cells: make([]float64, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidPalette, i, len(row), n)
		}
		for j, v := range row {
			if v < -1 || v > 1 {
				return nil, fmt.Errorf("%w: entry [%d][%d]=%v outside [-1, 1]", ErrInvalidPalette, i, j, v)
			}
			m.cells[i*n+j] = v
		}
	}
	return m, nil
}

// RandomMatrix fills an n×n matrix with independent draws from [-1, 1]
func RandomMatrix(rng *rand.Rand, n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d classes", ErrInvalidPalette, n)
	}
	m := &Matrix{n: n, cells: make([]float64, n*n)}
	for i := range m.cells {
		m.cells[i] = rng.Float64()*2 - 1
	}
	return m, nil
}

// GenerateMatrix picks N uniformly from the inclusive range and returns a random N×N matrix
func GenerateMatrix(rng *rand.Rand, colors IntRange) (*Matrix, error) {
	if err := colors.Validate(); err != nil {
		return nil, err
	}
	return RandomMatrix(rng, colors.sample(rng))
}

// Size returns the number of color classes
func (m *Matrix) Size() int {
	return m.n
}

// Lookup returns the affinity of class from toward class to
func (m *Matrix) Lookup(from, to int) (float64, error) {
	if from < 0 || from >= m.n || to < 0 || to >= m.n {
		return 0, fmt.Errorf("%w: (%d, %d) with %d classes", ErrClassOutOfRange, from, to, m.n)
	}
	return m.cells[from*m.n+to], nil
}

// at skips bounds validation; callers check class ids once per tick
func (m *Matrix) at(from, to int) float64 {
	return m.cells[from*m.n+to]
}

// Rows returns a copy of the matrix as nested slices
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.cells[i*m.n:(i+1)*m.n]...)
	}
	return rows
}

// Mutate returns a new matrix with gaussian drift of the given deviation applied to
// every cell, clamped to [-1, 1]. The receiver is unchanged.
func (m *Matrix) Mutate(rng *rand.Rand, sigma float64) *Matrix {
	out := &Matrix{n: m.n, cells: make([]float64, len(m.cells))}
	for i, v := range m.cells {
		v += rng.NormFloat64() * sigma
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out.cells[i] = v
	}
	return out
}

// String formats the matrix one row per line
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.n; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.n; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%+.3f", m.at(i, j))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// MarshalJSON encodes the matrix as nested arrays
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

// UnmarshalJSON decodes nested arrays, rejecting non-square or out-of-range data
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := NewMatrix(rows)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}
