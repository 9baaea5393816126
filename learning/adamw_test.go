package learning

import "testing"

import "github.com/neurlang/dgadetect/mat"

func TestAdamWStepsAgainstGradient(t *testing.T) {
	p := mat.New(1, 1)
	p.W[0] = 1
	hp := DefaultHyperParameters()
	hp.WeightDecay = 0
	opt := NewAdamW([]*mat.Mat{p}, hp)
	for i := 0; i < 10; i++ {
		p.Grad[0] = 1 // constant positive gradient
		opt.Step()
		p.ZeroGrad()
	}
	if p.W[0] >= 1 {
		t.Fatalf("positive gradient must decrease the parameter, got %v", p.W[0])
	}
}

func TestAdamWZeroGradZeroDecayIsNoop(t *testing.T) {
	p := mat.New(2, 2)
	copy(p.W, []float64{1, -2, 3, -4})
	hp := DefaultHyperParameters()
	hp.WeightDecay = 0
	opt := NewAdamW([]*mat.Mat{p}, hp)
	opt.Step()
	want := []float64{1, -2, 3, -4}
	for i := range want {
		if p.W[i] != want[i] {
			t.Fatalf("param %d moved with zero gradient: %v", i, p.W[i])
		}
	}
}

func TestAdamWClip(t *testing.T) {
	a := mat.New(1, 1)
	b := mat.New(1, 1)
	hp := DefaultHyperParameters()
	hp.WeightDecay = 0
	hp.GradClip = 1
	optA := NewAdamW([]*mat.Mat{a}, hp)
	optB := NewAdamW([]*mat.Mat{b}, hp)
	a.Grad[0] = 1e6
	b.Grad[0] = 1
	optA.Step()
	optB.Step()
	if a.W[0] != b.W[0] {
		t.Fatalf("clipped update differs: %v vs %v", a.W[0], b.W[0])
	}
}
