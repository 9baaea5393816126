// Package trainer provides high-level training orchestration for the GRU
// domain classifier: train/test splitting, the epoch and batch loop, and
// held-out evaluation.
package trainer

import "context"
import "errors"
import "fmt"
import "math/rand"
import "sync/atomic"

import "github.com/rs/zerolog"

import "github.com/neurlang/dgadetect"
import "github.com/neurlang/dgadetect/datasets"
import "github.com/neurlang/dgadetect/learning"
import "github.com/neurlang/dgadetect/mat"
import "github.com/neurlang/dgadetect/net/gru"
import "github.com/neurlang/dgadetect/tokenizer"

// State tracks the trainer lifecycle: Uninitialized -> Training -> Completed.
type State int32

const (
	Uninitialized State = iota
	Training
	Completed
)

// ErrBusy is returned when Train is called while a run is in progress.
var ErrBusy = errors.New("trainer: training already in progress")

// Trainer owns all parameter updates for the duration of a run. The network
// must not be mutated by anyone else while Train executes.
type Trainer struct {
	net   *gru.Network
	tok   *tokenizer.Tokenizer
	hp    learning.HyperParameters
	log   zerolog.Logger
	state atomic.Int32
}

// New creates a trainer around an initialized network and its tokenizer.
func New(net *gru.Network, tok *tokenizer.Tokenizer, hp learning.HyperParameters, log zerolog.Logger) *Trainer {
	return &Trainer{net: net, tok: tok, hp: hp, log: log}
}

// State reports the current lifecycle state.
func (t *Trainer) State() State {
	return State(t.state.Load())
}

// Net returns the trained network.
func (t *Trainer) Net() *gru.Network { return t.net }

// Train fits the network on samples/labels. The dataset is split once with
// the configured seed, batches run in a fixed seeded order, one optimizer
// step happens per batch, and held-out accuracy is measured after every
// epoch without touching parameters. The run is deterministic for a fixed
// seed and can be interrupted between batches through ctx.
func (t *Trainer) Train(ctx context.Context, samples []string, labels []uint16) error {
	ds, err := datasets.FromSlices(samples, labels)
	if err != nil {
		return err
	}
	if t.hp.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size %d", dgadetect.ErrInvalidConfiguration, t.hp.BatchSize)
	}
	if t.hp.TrainFraction < 0 || t.hp.TrainFraction > 1 {
		return fmt.Errorf("%w: train fraction %v", dgadetect.ErrInvalidConfiguration, t.hp.TrainFraction)
	}
	if t.hp.Epochs < 0 {
		return fmt.Errorf("%w: %d epochs", dgadetect.ErrInvalidConfiguration, t.hp.Epochs)
	}
	if !t.state.CompareAndSwap(int32(Uninitialized), int32(Training)) &&
		!t.state.CompareAndSwap(int32(Completed), int32(Training)) {
		return ErrBusy
	}
	defer t.state.Store(int32(Completed))

	train, test := ds.Split(t.hp.TrainFraction, t.hp.Seed)
	rng := rand.New(rand.NewSource(t.hp.Seed))
	opt := learning.NewAdamW(t.net.Parameters(), t.hp)
	t.log.Info().
		Int("train", len(train)).
		Int("test", len(test)).
		Int("epochs", t.hp.Epochs).
		Int("batch_size", t.hp.BatchSize).
		Int64("seed", t.hp.Seed).
		Msg("training run starting")

	order := make([]int, len(train))
	for i := range order {
		order[i] = i
	}
	for epoch := 0; epoch < t.hp.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		var cum float64
		var batches int
		for start := 0; start < len(order); start += t.hp.BatchSize {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("training interrupted: %w", err)
			}
			end := start + t.hp.BatchSize
			if end > len(order) {
				end = len(order)
			}
			cum += t.step(opt, train, order[start:end])
			batches++
			if t.hp.LogEvery > 0 && batches%t.hp.LogEvery == 0 {
				t.log.Info().
					Int("epoch", epoch).
					Int("batches", batches).
					Float64("cumulative_loss", cum).
					Msg("training progress")
			}
		}
		ev := t.log.Info().Int("epoch", epoch).Float64("cumulative_loss", cum)
		if len(test) > 0 {
			ev = ev.Float64("test_accuracy", Accuracy(t.net, t.tok, test, t.hp.BatchSize))
		}
		ev.Msg("epoch complete")
	}
	return nil
}

// step runs one forward/backward/update cycle over the picked samples and
// returns the batch loss.
func (t *Trainer) step(opt *learning.AdamW, train datasets.Dataset, picks []int) float64 {
	domains := make([]string, len(picks))
	labels := make([]uint16, len(picks))
	for i, p := range picks {
		domains[i] = train[p].Domain
		labels[i] = train[p].Label
	}
	g := mat.NewGraph(true)
	logits := t.net.Forward(g, t.tok.EncodeAll(domains))
	loss := learning.CrossEntropy(logits, labels)
	g.Backward()
	opt.Step()
	t.net.ZeroGrad()
	return loss
}
