package mat

import "fmt"
import "math"

// Graph records one forward pass as a tape of backward closures. Backward
// replays the tape in reverse. A graph serves one forward pass on one
// goroutine; build a fresh graph per batch.
type Graph struct {
	NeedsGrad bool
	tape      []func()
}

// NewGraph returns an empty graph. Pass needsGrad=false for inference-only
// forward passes; no tape is recorded then.
func NewGraph(needsGrad bool) *Graph {
	return &Graph{NeedsGrad: needsGrad}
}

// Backward replays the recorded tape in reverse order, accumulating
// gradients into every matrix that took part in the forward pass. The
// caller must seed the gradient of the output first.
func (g *Graph) Backward() {
	for i := len(g.tape) - 1; i >= 0; i-- {
		g.tape[i]()
	}
	g.tape = g.tape[:0]
}

func (g *Graph) record(f func()) {
	if g.NeedsGrad {
		g.tape = append(g.tape, f)
	}
}

// Mul returns a*b for a of shape m x k and b of shape k x n.
func (g *Graph) Mul(a, b *Mat) *Mat {
	if a.Cols != b.Rows {
		panic(fmt.Sprintf("mat: Mul shape mismatch %dx%d * %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := New(a.Rows, b.Cols)
	MatMul(out.W, a.W, b.W, a.Rows, a.Cols, b.Cols)
	g.record(func() {
		m, k, n := a.Rows, a.Cols, b.Cols
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				d := out.Grad[i*n+j]
				if d == 0 {
					continue
				}
				for p := 0; p < k; p++ {
					a.Grad[i*k+p] += d * b.W[p*n+j]
					b.Grad[p*n+j] += d * a.W[i*k+p]
				}
			}
		}
	})
	return out
}

// Add returns the elementwise sum of two equally shaped matrices.
func (g *Graph) Add(a, b *Mat) *Mat {
	if !sameShape(a, b) {
		panic(fmt.Sprintf("mat: Add shape mismatch %dx%d + %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := New(a.Rows, a.Cols)
	for i := range out.W {
		out.W[i] = a.W[i] + b.W[i]
	}
	g.record(func() {
		for i := range out.Grad {
			a.Grad[i] += out.Grad[i]
			b.Grad[i] += out.Grad[i]
		}
	})
	return out
}

// AddBias adds a Rows x 1 bias column to every column of a.
func (g *Graph) AddBias(a, bias *Mat) *Mat {
	if bias.Cols != 1 || bias.Rows != a.Rows {
		panic(fmt.Sprintf("mat: AddBias wants %dx1 bias, got %dx%d", a.Rows, bias.Rows, bias.Cols))
	}
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		bv := bias.W[i]
		for j := 0; j < a.Cols; j++ {
			out.W[i*a.Cols+j] = a.W[i*a.Cols+j] + bv
		}
	}
	g.record(func() {
		for i := 0; i < a.Rows; i++ {
			for j := 0; j < a.Cols; j++ {
				d := out.Grad[i*a.Cols+j]
				a.Grad[i*a.Cols+j] += d
				bias.Grad[i] += d
			}
		}
	})
	return out
}

// EltMul returns the elementwise product of two equally shaped matrices.
func (g *Graph) EltMul(a, b *Mat) *Mat {
	if !sameShape(a, b) {
		panic(fmt.Sprintf("mat: EltMul shape mismatch %dx%d * %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := New(a.Rows, a.Cols)
	for i := range out.W {
		out.W[i] = a.W[i] * b.W[i]
	}
	g.record(func() {
		for i := range out.Grad {
			a.Grad[i] += b.W[i] * out.Grad[i]
			b.Grad[i] += a.W[i] * out.Grad[i]
		}
	})
	return out
}

// OneMinus returns 1 - a elementwise.
func (g *Graph) OneMinus(a *Mat) *Mat {
	out := New(a.Rows, a.Cols)
	for i := range out.W {
		out.W[i] = 1 - a.W[i]
	}
	g.record(func() {
		for i := range out.Grad {
			a.Grad[i] -= out.Grad[i]
		}
	})
	return out
}

// Sigmoid applies the logistic function elementwise.
func (g *Graph) Sigmoid(a *Mat) *Mat {
	out := New(a.Rows, a.Cols)
	for i := range out.W {
		out.W[i] = 1 / (1 + math.Exp(-a.W[i]))
	}
	g.record(func() {
		for i := range out.Grad {
			a.Grad[i] += out.W[i] * (1 - out.W[i]) * out.Grad[i]
		}
	})
	return out
}

// Tanh applies the hyperbolic tangent elementwise.
func (g *Graph) Tanh(a *Mat) *Mat {
	out := New(a.Rows, a.Cols)
	for i := range out.W {
		out.W[i] = math.Tanh(a.W[i])
	}
	g.record(func() {
		for i := range out.Grad {
			a.Grad[i] += (1 - out.W[i]*out.W[i]) * out.Grad[i]
		}
	})
	return out
}

// Lookup gathers rows of an embedding table into columns of the output.
// table is vocab x dim; ids picks one row per batch column; the result is
// dim x len(ids). Gradients flow back into the selected table rows.
func (g *Graph) Lookup(table *Mat, ids []int) *Mat {
	// Callers reuse the ids buffer between calls; the tape needs its own copy.
	ids = append([]int(nil), ids...)
	dim := table.Cols
	out := New(dim, len(ids))
	for j, id := range ids {
		if id < 0 || id >= table.Rows {
			panic(fmt.Sprintf("mat: Lookup id %d outside table of %d rows", id, table.Rows))
		}
		for r := 0; r < dim; r++ {
			out.W[r*len(ids)+j] = table.W[id*dim+r]
		}
	}
	g.record(func() {
		for j, id := range ids {
			for r := 0; r < dim; r++ {
				table.Grad[id*dim+r] += out.Grad[r*len(ids)+j]
			}
		}
	})
	return out
}
