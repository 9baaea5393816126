package mat

import "math"
import "math/rand"
import "testing"

func TestMatMulKernelsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shapes := [][3]int{{1, 1, 1}, {3, 5, 7}, {16, 16, 16}, {33, 65, 17}, {70, 1, 70}}
	for _, s := range shapes {
		m, k, n := s[0], s[1], s[2]
		a := make([]float64, m*k)
		b := make([]float64, k*n)
		for i := range a {
			a[i] = rng.NormFloat64()
		}
		for i := range b {
			b[i] = rng.NormFloat64()
		}
		want := make([]float64, m*n)
		got := make([]float64, m*n)
		matMulNaive(want, a, b, m, k, n)
		save := matMulBlock
		matMulBlock = 8
		matMulBlocked(got, a, b, m, k, n)
		matMulBlock = save
		for i := range want {
			if math.Abs(want[i]-got[i]) > 1e-9 {
				t.Fatalf("shape %v: kernels disagree at %d: %v vs %v", s, i, want[i], got[i])
			}
		}
	}
}

// numGrad estimates d f / d m.W[i] with central differences.
func numGrad(m *Mat, i int, f func() float64) float64 {
	const h = 1e-6
	old := m.W[i]
	m.W[i] = old + h
	up := f()
	m.W[i] = old - h
	down := f()
	m.W[i] = old
	return (up - down) / (2 * h)
}

func TestBackwardMatchesNumericGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := NewRand(4, 3, 0.5, rng)
	u := NewRand(4, 4, 0.5, rng)
	b := NewRand(4, 1, 0.5, rng)
	table := NewRand(6, 3, 0.5, rng)
	ids := []int{2, 5, 0}

	// forward builds sigmoid(w*x+b) .* tanh(u*(w*x+b)) and sums it, which
	// exercises Lookup, Mul, AddBias, Sigmoid, Tanh and EltMul at once.
	forward := func(g *Graph) *Mat {
		x := g.Lookup(table, ids)
		pre := g.AddBias(g.Mul(w, x), b)
		return g.EltMul(g.Sigmoid(pre), g.Tanh(g.Mul(u, pre)))
	}
	loss := func() float64 {
		out := forward(NewGraph(false))
		var s float64
		for _, v := range out.W {
			s += v
		}
		return s
	}

	g := NewGraph(true)
	out := forward(g)
	for i := range out.Grad {
		out.Grad[i] = 1
	}
	g.Backward()

	check := func(name string, m *Mat) {
		for i := range m.W {
			want := numGrad(m, i, loss)
			if math.Abs(want-m.Grad[i]) > 1e-4 {
				t.Fatalf("%s grad[%d]: numeric %v analytic %v", name, i, want, m.Grad[i])
			}
		}
	}
	check("w", w)
	check("u", u)
	check("b", b)
	check("table", table)
}

func TestOneMinusAndAdd(t *testing.T) {
	g := NewGraph(true)
	a := New(2, 2)
	b := New(2, 2)
	copy(a.W, []float64{1, 2, 3, 4})
	copy(b.W, []float64{0.5, 0.5, 0.5, 0.5})
	out := g.OneMinus(g.Add(a, b))
	want := []float64{-0.5, -1.5, -2.5, -3.5}
	for i := range want {
		if out.W[i] != want[i] {
			t.Fatalf("value %d: got %v want %v", i, out.W[i], want[i])
		}
	}
	for i := range out.Grad {
		out.Grad[i] = 1
	}
	g.Backward()
	for i := range a.Grad {
		if a.Grad[i] != -1 || b.Grad[i] != -1 {
			t.Fatalf("grad %d: got %v/%v want -1/-1", i, a.Grad[i], b.Grad[i])
		}
	}
}
