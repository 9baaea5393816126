package trainer

import "runtime"
import "sort"
import "sync/atomic"

import "github.com/neurlang/dgadetect/datasets"
import "github.com/neurlang/dgadetect/learning"
import "github.com/neurlang/dgadetect/mat"
import "github.com/neurlang/dgadetect/net/gru"
import "github.com/neurlang/dgadetect/parallel"
import "github.com/neurlang/dgadetect/tokenizer"

// Accuracy scores the dataset in batches and returns the fraction of
// samples whose argmax class matches the label. The forward pass only
// reads parameters, so batches are scored concurrently.
func Accuracy(net *gru.Network, tok *tokenizer.Tokenizer, ds datasets.Dataset, batchSize int) float64 {
	if len(ds) == 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	nbatches := (len(ds) + batchSize - 1) / batchSize
	var correct atomic.Uint64
	parallel.ForEach(nbatches, runtime.NumCPU(), func(b int) {
		start := b * batchSize
		end := start + batchSize
		if end > len(ds) {
			end = len(ds)
		}
		part := ds[start:end]
		logits := net.Forward(mat.NewGraph(false), tok.EncodeAll(part.Domains()))
		for j := range part {
			if argmaxColumn(logits, j) == int(part[j].Label) {
				correct.Add(1)
			}
		}
	})
	return float64(correct.Load()) / float64(len(ds))
}

// Scores returns, per sample, the softmax probability of the DGA class.
func Scores(net *gru.Network, tok *tokenizer.Tokenizer, ds datasets.Dataset, batchSize int) []float64 {
	if batchSize <= 0 {
		batchSize = 1
	}
	out := make([]float64, len(ds))
	nbatches := (len(ds) + batchSize - 1) / batchSize
	parallel.ForEach(nbatches, runtime.NumCPU(), func(b int) {
		start := b * batchSize
		end := start + batchSize
		if end > len(ds) {
			end = len(ds)
		}
		part := ds[start:end]
		logits := net.Forward(mat.NewGraph(false), tok.EncodeAll(part.Domains()))
		col := make([]float64, logits.Rows)
		for j := range part {
			for c := 0; c < logits.Rows; c++ {
				col[c] = logits.At(c, j)
			}
			out[start+j] = learning.Softmax(col)[datasets.LabelDGA]
		}
	})
	return out
}

// AveragePrecision summarizes the precision-recall curve of scores against
// binary labels: the mean, over positives, of precision at each positive's
// rank. Ties break by input order so the result is deterministic.
func AveragePrecision(scores []float64, labels []uint16) float64 {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	var positives int
	for _, l := range labels {
		if l == datasets.LabelDGA {
			positives++
		}
	}
	if positives == 0 {
		return 0
	}
	var tp int
	var sum float64
	for k, i := range order {
		if labels[i] == datasets.LabelDGA {
			tp++
			sum += float64(tp) / float64(k+1)
		}
	}
	return sum / float64(positives)
}

func argmaxColumn(logits *mat.Mat, col int) int {
	best := 0
	for c := 1; c < logits.Rows; c++ {
		if logits.At(c, col) > logits.At(best, col) {
			best = c
		}
	}
	return best
}
