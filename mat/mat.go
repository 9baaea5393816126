// Package mat implements the dense float64 matrices and the autograd tape
// driving the GRU classifier. Matrices are row-major; a column holds one
// sample of a batch.
package mat

import "fmt"
import "math/rand"

// Mat is a dense Rows x Cols matrix. Grad accumulates the gradient of a
// scalar loss with respect to W and has the same shape.
type Mat struct {
	Rows int
	Cols int
	W    []float64
	Grad []float64
}

// New returns a zero matrix of the given shape.
func New(rows, cols int) *Mat {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("mat: negative shape %dx%d", rows, cols))
	}
	return &Mat{
		Rows: rows,
		Cols: cols,
		W:    make([]float64, rows*cols),
		Grad: make([]float64, rows*cols),
	}
}

// NewRand returns a matrix filled with Gaussian values of the given standard
// deviation, drawn from rng so that initialization is reproducible per seed.
func NewRand(rows, cols int, stddev float64, rng *rand.Rand) *Mat {
	m := New(rows, cols)
	for i := range m.W {
		m.W[i] = rng.NormFloat64() * stddev
	}
	return m
}

// At returns the value at (row, col).
func (m *Mat) At(row, col int) float64 {
	return m.W[row*m.Cols+col]
}

// Set stores v at (row, col).
func (m *Mat) Set(row, col int, v float64) {
	m.W[row*m.Cols+col] = v
}

// ZeroGrad clears the accumulated gradient.
func (m *Mat) ZeroGrad() {
	for i := range m.Grad {
		m.Grad[i] = 0
	}
}

// Clone copies the values of m into a fresh matrix. Gradients are not copied.
func (m *Mat) Clone() *Mat {
	c := New(m.Rows, m.Cols)
	copy(c.W, m.W)
	return c
}

func sameShape(a, b *Mat) bool {
	return a.Rows == b.Rows && a.Cols == b.Cols
}
