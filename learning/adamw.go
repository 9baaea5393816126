package learning

import "math"

import "github.com/neurlang/dgadetect/mat"

// AdamW implements Adam with decoupled weight decay over a fixed parameter
// list. Moment buffers are owned by the optimizer; parameters are updated
// in place from their accumulated gradients.
type AdamW struct {
	params []*mat.Mat
	hp     HyperParameters
	t      int
	m      [][]float64
	v      [][]float64
}

// NewAdamW creates an optimizer over params with the given hyperparameters.
func NewAdamW(params []*mat.Mat, hp HyperParameters) *AdamW {
	if hp.Epsilon == 0 {
		hp.Epsilon = 1e-8
	}
	a := &AdamW{
		params: params,
		hp:     hp,
		m:      make([][]float64, len(params)),
		v:      make([][]float64, len(params)),
	}
	for i, p := range params {
		a.m[i] = make([]float64, len(p.W))
		a.v[i] = make([]float64, len(p.W))
	}
	return a
}

// Step performs one update from the gradients currently held by the
// parameters. Gradients are consumed as-is; the caller zeroes them.
func (a *AdamW) Step() {
	a.t++
	c1 := 1 - math.Pow(a.hp.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.hp.Beta2, float64(a.t))
	for i, p := range a.params {
		m, v := a.m[i], a.v[i]
		for j := range p.W {
			g := p.Grad[j]
			if a.hp.GradClip > 0 {
				if g > a.hp.GradClip {
					g = a.hp.GradClip
				} else if g < -a.hp.GradClip {
					g = -a.hp.GradClip
				}
			}
			m[j] = a.hp.Beta1*m[j] + (1-a.hp.Beta1)*g
			v[j] = a.hp.Beta2*v[j] + (1-a.hp.Beta2)*g*g
			mHat := m[j] / c1
			vHat := v[j] / c2
			p.W[j] -= a.hp.LearningRate * (mHat/(math.Sqrt(vHat)+a.hp.Epsilon) + a.hp.WeightDecay*p.W[j])
		}
	}
}
