// Package datasets implements the labeled domain sample types consumed by
// the trainer, a CSV loader for tabular corpora, and bundled example data.
package datasets

import "fmt"
import "math/rand"

import "github.com/neurlang/dgadetect"

// Class labels. The classifier is binary.
const (
	LabelBenign uint16 = 0
	LabelDGA    uint16 = 1
)

// Sample is one immutable labeled domain name.
type Sample struct {
	Domain string
	Label  uint16
}

// Dataset is an ordered collection of samples.
type Dataset []Sample

// FromSlices pairs domains with labels. It fails with a data error when the
// slices differ in length or any label is outside {0,1}.
func FromSlices(domains []string, labels []uint16) (Dataset, error) {
	if len(domains) != len(labels) {
		return nil, fmt.Errorf("%w: %d samples vs %d labels", dgadetect.ErrData, len(domains), len(labels))
	}
	ds := make(Dataset, len(domains))
	for i := range domains {
		if labels[i] != LabelBenign && labels[i] != LabelDGA {
			return nil, fmt.Errorf("%w: label %d at row %d", dgadetect.ErrData, labels[i], i)
		}
		ds[i] = Sample{Domain: domains[i], Label: labels[i]}
	}
	return ds, nil
}

// Split partitions the dataset into train and test parts. The shuffle is
// driven entirely by seed, so the same seed and dataset always produce the
// same partition; callers that evaluate a reloaded model against the
// training-time test partition must reuse the seed.
func (d Dataset) Split(trainFraction float64, seed int64) (train, test Dataset) {
	idx := make([]int, len(d))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	cut := int(float64(len(d)) * trainFraction)
	if cut < 0 {
		cut = 0
	}
	if cut > len(d) {
		cut = len(d)
	}
	train = make(Dataset, 0, cut)
	test = make(Dataset, 0, len(d)-cut)
	for _, i := range idx[:cut] {
		train = append(train, d[i])
	}
	for _, i := range idx[cut:] {
		test = append(test, d[i])
	}
	return train, test
}

// Domains returns the domain column of the dataset.
func (d Dataset) Domains() []string {
	out := make([]string, len(d))
	for i := range d {
		out[i] = d[i].Domain
	}
	return out
}

// Labels returns the label column of the dataset.
func (d Dataset) Labels() []uint16 {
	out := make([]uint16, len(d))
	for i := range d {
		out[i] = d[i].Label
	}
	return out
}
