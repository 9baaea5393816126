package dga

import "testing"

import "github.com/neurlang/dgadetect/datasets"

func TestCorpusDeterministic(t *testing.T) {
	a := Corpus(50, 7)
	b := Corpus(50, 7)
	if len(a) != 100 || len(b) != 100 {
		t.Fatalf("want 100 samples, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("corpus not deterministic at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCorpusBalanced(t *testing.T) {
	ds := Corpus(30, 1)
	var pos int
	for _, s := range ds {
		if s.Label == datasets.LabelDGA {
			pos++
		}
	}
	if pos != 30 {
		t.Fatalf("want 30 DGA samples, got %d", pos)
	}
}
