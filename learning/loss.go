package learning

import "fmt"
import "math"

import "github.com/neurlang/dgadetect/mat"

// CrossEntropy returns the mean negative log-likelihood of labels under
// softmax(logits) and seeds logits.Grad with (softmax - onehot)/batch.
// logits is classes x batch; labels holds one class index per column.
// Uses the max-shift trick so large logits stay finite.
func CrossEntropy(logits *mat.Mat, labels []uint16) float64 {
	classes, batch := logits.Rows, logits.Cols
	if batch != len(labels) {
		panic(fmt.Sprintf("learning: %d logits columns for %d labels", batch, len(labels)))
	}
	var loss float64
	for j := 0; j < batch; j++ {
		maxV := logits.At(0, j)
		for c := 1; c < classes; c++ {
			if v := logits.At(c, j); v > maxV {
				maxV = v
			}
		}
		var sum float64
		for c := 0; c < classes; c++ {
			sum += math.Exp(logits.At(c, j) - maxV)
		}
		logSum := maxV + math.Log(sum)
		loss -= logits.At(int(labels[j]), j) - logSum

		for c := 0; c < classes; c++ {
			p := math.Exp(logits.At(c, j)-maxV) / sum
			if c == int(labels[j]) {
				p -= 1
			}
			logits.Grad[c*batch+j] = p / float64(batch)
		}
	}
	return loss / float64(batch)
}

// Softmax returns the softmax of one logits column as probabilities.
func Softmax(column []float64) []float64 {
	maxV := column[0]
	for _, v := range column {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float64, len(column))
	var sum float64
	for i, v := range column {
		out[i] = math.Exp(v - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
