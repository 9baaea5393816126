// Package dga bundles a small deterministic corpus of benign and
// algorithmically generated domain names for demos and tests. Benign names
// are dictionary-word compounds; DGA names are the random-looking strings a
// generation algorithm would emit.
package dga

import "math/rand"
import "strings"

import "github.com/neurlang/dgadetect/datasets"

var words = []string{
	"cloud", "mail", "shop", "news", "photo", "music", "video", "store",
	"travel", "bank", "game", "home", "blue", "fast", "open", "smart",
	"green", "data", "web", "net", "link", "page", "city", "star",
}

var tlds = []string{".com", ".net", ".org", ".info"}

const dgaAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Corpus generates n samples per class, deterministically for a given seed.
func Corpus(n int, seed int64) datasets.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := make(datasets.Dataset, 0, 2*n)
	for i := 0; i < n; i++ {
		ds = append(ds, datasets.Sample{Domain: benign(rng), Label: datasets.LabelBenign})
		ds = append(ds, datasets.Sample{Domain: generated(rng), Label: datasets.LabelDGA})
	}
	return ds
}

func benign(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString(words[rng.Intn(len(words))])
	b.WriteString(words[rng.Intn(len(words))])
	b.WriteString(tlds[rng.Intn(len(tlds))])
	return b.String()
}

func generated(rng *rand.Rand) string {
	n := 12 + rng.Intn(9)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(dgaAlphabet[rng.Intn(len(dgaAlphabet))])
	}
	b.WriteString(tlds[rng.Intn(len(tlds))])
	return b.String()
}
