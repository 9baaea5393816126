package gru

import "errors"
import "testing"

import "github.com/neurlang/dgadetect"
import "github.com/neurlang/dgadetect/mat"

func testConfig() Config {
	return Config{VocabSize: 40, EmbedSize: 8, Hidden: 12, Layers: 2, Classes: 2, MaxLen: 6}
}

func TestNewRejectsBadConfig(t *testing.T) {
	bad := []Config{
		{VocabSize: 0, EmbedSize: 8, Hidden: 8, Layers: 1, Classes: 2, MaxLen: 4},
		{VocabSize: 40, EmbedSize: 0, Hidden: 8, Layers: 1, Classes: 2, MaxLen: 4},
		{VocabSize: 40, EmbedSize: 8, Hidden: 0, Layers: 1, Classes: 2, MaxLen: 4},
		{VocabSize: 40, EmbedSize: 8, Hidden: 8, Layers: 0, Classes: 2, MaxLen: 4},
		{VocabSize: 40, EmbedSize: 8, Hidden: 8, Layers: 1, Classes: 1, MaxLen: 4},
		{VocabSize: 40, EmbedSize: 8, Hidden: 8, Layers: 1, Classes: 2, MaxLen: 0},
	}
	for i, cfg := range bad {
		if _, err := New(cfg, 1); !errors.Is(err, dgadetect.ErrInvalidConfiguration) {
			t.Fatalf("config %d: want ErrInvalidConfiguration, got %v", i, err)
		}
	}
}

func TestNewSeededInitIsReproducible(t *testing.T) {
	a, err := New(testConfig(), 5)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := New(testConfig(), 5)
	c, _ := New(testConfig(), 6)
	pa, pb, pc := a.Parameters(), b.Parameters(), c.Parameters()
	var differs bool
	for i := range pa {
		for j := range pa[i].W {
			if pa[i].W[j] != pb[i].W[j] {
				t.Fatalf("same seed diverged at parameter %d[%d]", i, j)
			}
			if pa[i].W[j] != pc[i].W[j] {
				differs = true
			}
		}
	}
	if !differs {
		t.Fatal("different seeds produced identical parameters")
	}
}

func TestForwardShapeAndDeterminism(t *testing.T) {
	n, err := New(testConfig(), 3)
	if err != nil {
		t.Fatal(err)
	}
	batch := [][]int{
		{2, 3, 4, 5, 0, 0},
		{6, 7, 8, 9, 10, 11},
		{1, 1, 1, 0, 0, 0},
	}
	a := n.Forward(mat.NewGraph(false), batch)
	if a.Rows != 2 || a.Cols != 3 {
		t.Fatalf("logits shape %dx%d, want 2x3", a.Rows, a.Cols)
	}
	b := n.Forward(mat.NewGraph(false), batch)
	for i := range a.W {
		if a.W[i] != b.W[i] {
			t.Fatalf("forward pass not deterministic at %d", i)
		}
	}
}

func TestParametersCountAndOrder(t *testing.T) {
	cfg := testConfig()
	n, _ := New(cfg, 1)
	params := n.Parameters()
	// embedding + 9 tensors per layer + output weight and bias
	want := 1 + 9*cfg.Layers + 2
	if len(params) != want {
		t.Fatalf("parameter count %d, want %d", len(params), want)
	}
	if params[0].Rows != cfg.VocabSize || params[0].Cols != cfg.EmbedSize {
		t.Fatalf("first parameter is not the embedding table")
	}
}

func TestForwardDoesNotMutateParameters(t *testing.T) {
	n, _ := New(testConfig(), 9)
	before := make([][]float64, 0)
	for _, p := range n.Parameters() {
		before = append(before, append([]float64(nil), p.W...))
	}
	g := mat.NewGraph(true)
	out := n.Forward(g, [][]int{{2, 3, 4, 5, 6, 7}})
	for i := range out.Grad {
		out.Grad[i] = 1
	}
	g.Backward()
	for i, p := range n.Parameters() {
		for j := range p.W {
			if p.W[j] != before[i][j] {
				t.Fatalf("forward/backward mutated parameter %d[%d]", i, j)
			}
		}
	}
}
