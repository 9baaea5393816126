// Package gru implements the recurrent sequence classifier: a learned
// character embedding feeding stacked GRU layers and a linear head that
// scores class logits for a batch of token sequences.
package gru

import "fmt"
import "math/rand"

import "github.com/neurlang/dgadetect"
import "github.com/neurlang/dgadetect/mat"

// Config fixes the network architecture. All fields are immutable once the
// network is constructed and travel with the saved artifact.
type Config struct {
	VocabSize int
	EmbedSize int
	Hidden    int
	Layers    int
	Classes   int
	MaxLen    int
}

func (c Config) validate() error {
	switch {
	case c.VocabSize <= 0:
		return fmt.Errorf("%w: vocab size %d", dgadetect.ErrInvalidConfiguration, c.VocabSize)
	case c.EmbedSize <= 0:
		return fmt.Errorf("%w: embed size %d", dgadetect.ErrInvalidConfiguration, c.EmbedSize)
	case c.Hidden <= 0:
		return fmt.Errorf("%w: hidden size %d", dgadetect.ErrInvalidConfiguration, c.Hidden)
	case c.Layers <= 0:
		return fmt.Errorf("%w: %d recurrent layers", dgadetect.ErrInvalidConfiguration, c.Layers)
	case c.Classes < 2:
		return fmt.Errorf("%w: %d classes", dgadetect.ErrInvalidConfiguration, c.Classes)
	case c.MaxLen <= 0:
		return fmt.Errorf("%w: max length %d", dgadetect.ErrInvalidConfiguration, c.MaxLen)
	}
	return nil
}

// layer holds one GRU layer: update gate z, reset gate r and candidate h̃,
// each with an input weight, a recurrent weight and a bias.
type layer struct {
	Wz, Uz, Bz *mat.Mat
	Wr, Ur, Br *mat.Mat
	Wh, Uh, Bh *mat.Mat
}

// Network is the classifier. Parameters are mutated only through the
// gradients applied by an optimizer; the forward pass never writes them,
// so a network is safe for concurrent read-only inference.
type Network struct {
	cfg    Config
	embed  *mat.Mat // VocabSize x EmbedSize
	layers []layer
	Wout   *mat.Mat // Classes x Hidden
	Bout   *mat.Mat // Classes x 1
}

// New builds a network with seeded Gaussian initialization. The same seed
// and config always produce identical initial parameters.
func New(cfg Config, seed int64) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	const stdW = 0.08
	const stdEmbed = 0.02
	n := &Network{
		cfg:   cfg,
		embed: mat.NewRand(cfg.VocabSize, cfg.EmbedSize, stdEmbed, rng),
	}
	in := cfg.EmbedSize
	for d := 0; d < cfg.Layers; d++ {
		n.layers = append(n.layers, layer{
			Wz: mat.NewRand(cfg.Hidden, in, stdW, rng),
			Uz: mat.NewRand(cfg.Hidden, cfg.Hidden, stdW, rng),
			Bz: mat.New(cfg.Hidden, 1),
			Wr: mat.NewRand(cfg.Hidden, in, stdW, rng),
			Ur: mat.NewRand(cfg.Hidden, cfg.Hidden, stdW, rng),
			Br: mat.New(cfg.Hidden, 1),
			Wh: mat.NewRand(cfg.Hidden, in, stdW, rng),
			Uh: mat.NewRand(cfg.Hidden, cfg.Hidden, stdW, rng),
			Bh: mat.New(cfg.Hidden, 1),
		})
		in = cfg.Hidden
	}
	n.Wout = mat.NewRand(cfg.Classes, cfg.Hidden, stdW, rng)
	n.Bout = mat.New(cfg.Classes, 1)
	return n, nil
}

// Config returns the architecture of the network.
func (n *Network) Config() Config { return n.cfg }

// Parameters lists every learnable tensor in a fixed order. The order is
// part of the artifact format.
func (n *Network) Parameters() []*mat.Mat {
	out := []*mat.Mat{n.embed}
	for _, l := range n.layers {
		out = append(out, l.Wz, l.Uz, l.Bz, l.Wr, l.Ur, l.Br, l.Wh, l.Uh, l.Bh)
	}
	return append(out, n.Wout, n.Bout)
}

// ZeroGrad clears the gradients of all parameters.
func (n *Network) ZeroGrad() {
	for _, p := range n.Parameters() {
		p.ZeroGrad()
	}
}

// Forward scores a batch of token sequences and returns Classes x batch
// logits. Every sequence must be exactly MaxLen codes (the tokenizer
// guarantees this). Pad codes run through the recurrence like any other
// token; their embedding row is learned alongside the rest.
func (n *Network) Forward(g *mat.Graph, batch [][]int) *mat.Mat {
	b := len(batch)
	if b == 0 {
		panic("gru: empty batch")
	}
	for _, seq := range batch {
		if len(seq) != n.cfg.MaxLen {
			panic(fmt.Sprintf("gru: sequence of %d codes, want %d", len(seq), n.cfg.MaxLen))
		}
	}
	h := make([]*mat.Mat, n.cfg.Layers)
	for d := range h {
		h[d] = mat.New(n.cfg.Hidden, b)
	}
	ids := make([]int, b)
	for t := 0; t < n.cfg.MaxLen; t++ {
		for j, seq := range batch {
			ids[j] = seq[t]
		}
		x := g.Lookup(n.embed, ids)
		for d, l := range n.layers {
			z := g.Sigmoid(g.AddBias(g.Add(g.Mul(l.Wz, x), g.Mul(l.Uz, h[d])), l.Bz))
			r := g.Sigmoid(g.AddBias(g.Add(g.Mul(l.Wr, x), g.Mul(l.Ur, h[d])), l.Br))
			cand := g.Tanh(g.AddBias(g.Add(g.Mul(l.Wh, x), g.Mul(l.Uh, g.EltMul(r, h[d]))), l.Bh))
			h[d] = g.Add(g.EltMul(g.OneMinus(z), h[d]), g.EltMul(z, cand))
			x = h[d]
		}
	}
	return g.AddBias(g.Mul(n.Wout, h[n.cfg.Layers-1]), n.Bout)
}
