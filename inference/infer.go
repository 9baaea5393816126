// Package inference implements batched scoring of domain names with a
// trained classifier. A predictor treats its loaded network as read-only,
// so any number of callers may score concurrently; the model is replaced
// atomically on reload.
package inference

import "context"
import "fmt"
import "runtime"
import "sync"

import "golang.org/x/sync/errgroup"

import "github.com/neurlang/dgadetect"
import "github.com/neurlang/dgadetect/datasets"
import "github.com/neurlang/dgadetect/learning"
import "github.com/neurlang/dgadetect/mat"
import "github.com/neurlang/dgadetect/net/gru"
import "github.com/neurlang/dgadetect/tokenizer"

// Prediction is the score for one input domain.
type Prediction struct {
	Domain string
	Class  uint16
	// Prob is the softmax probability of the DGA class.
	Prob float64
}

// Predictor scores domains against a loaded model.
type Predictor struct {
	batchSize int

	mu  sync.RWMutex
	net *gru.Network
	tok *tokenizer.Tokenizer
}

// New returns an empty predictor; load a model before scoring.
func New(batchSize int) *Predictor {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Predictor{batchSize: batchSize}
}

// NewFromFile returns a predictor with the artifact at path already loaded.
func NewFromFile(path string, batchSize int) (*Predictor, error) {
	p := New(batchSize)
	if err := p.Load(path); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a saved artifact and swaps it in. The tokenizer is rebuilt
// from the stored configuration, so predictions match the training-time
// encoding exactly. Concurrent Predict calls keep using the old model
// until the swap.
func (p *Predictor) Load(path string) error {
	net, err := gru.ReadFile(path)
	if err != nil {
		return err
	}
	return p.Use(net)
}

// Use swaps in an already constructed network.
func (p *Predictor) Use(net *gru.Network) error {
	cfg := net.Config()
	tok, err := tokenizer.New(cfg.VocabSize, cfg.MaxLen)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.net = net
	p.tok = tok
	p.mu.Unlock()
	return nil
}

// Predict scores a batch of domains. Batches run in parallel; the order of
// the results matches the order of the inputs. Fails when no model is
// loaded.
func (p *Predictor) Predict(ctx context.Context, domains []string) ([]Prediction, error) {
	p.mu.RLock()
	net, tok := p.net, p.tok
	p.mu.RUnlock()
	if net == nil {
		return nil, fmt.Errorf("%w: predictor has no model", dgadetect.ErrNoModel)
	}
	out := make([]Prediction, len(domains))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for start := 0; start < len(domains); start += p.batchSize {
		start := start
		end := start + p.batchSize
		if end > len(domains) {
			end = len(domains)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part := domains[start:end]
			logits := net.Forward(mat.NewGraph(false), tok.EncodeAll(part))
			col := make([]float64, logits.Rows)
			for j, d := range part {
				for c := 0; c < logits.Rows; c++ {
					col[c] = logits.At(c, j)
				}
				probs := learning.Softmax(col)
				class := datasets.LabelBenign
				if probs[datasets.LabelDGA] >= 0.5 {
					class = datasets.LabelDGA
				}
				out[start+j] = Prediction{Domain: d, Class: class, Prob: probs[datasets.LabelDGA]}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictOne scores a single domain.
func (p *Predictor) PredictOne(ctx context.Context, domain string) (Prediction, error) {
	out, err := p.Predict(ctx, []string{domain})
	if err != nil {
		return Prediction{}, err
	}
	return out[0], nil
}
