package gru

import "bytes"
import "compress/lzw"
import "encoding/binary"
import "errors"
import "os"
import "path/filepath"
import "testing"

import "github.com/neurlang/dgadetect"
import "github.com/neurlang/dgadetect/mat"

func TestRoundTripIsByteExact(t *testing.T) {
	n, err := New(testConfig(), 11)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := n.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	m, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Config() != n.Config() {
		t.Fatalf("config changed in round trip: %+v vs %+v", m.Config(), n.Config())
	}
	pn, pm := n.Parameters(), m.Parameters()
	for i := range pn {
		for j := range pn[i].W {
			if pn[i].W[j] != pm[i].W[j] {
				t.Fatalf("parameter %d[%d] not byte-exact: %v vs %v", i, j, pn[i].W[j], pm[i].W[j])
			}
		}
	}

	batch := [][]int{{2, 9, 17, 3, 0, 0}, {5, 5, 5, 5, 5, 5}}
	a := n.Forward(mat.NewGraph(false), batch)
	b := m.Forward(mat.NewGraph(false), batch)
	for i := range a.W {
		if a.W[i] != b.W[i] {
			t.Fatalf("reloaded model predicts differently at %d", i)
		}
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not a model at all"))); !errors.Is(err, dgadetect.ErrCorruptArtifact) {
		t.Fatalf("garbage input: want ErrCorruptArtifact, got %v", err)
	}
}

func TestReadRejectsAbsurdHeader(t *testing.T) {
	heads := [][]uint32{
		// Single dimension far past any sane model.
		{artifactVersion, 1 << 30, 1 << 30, 1, 1, 2, 4},
		// Fields individually plausible, product not.
		{artifactVersion, 1 << 20, 1 << 20, 1, 1, 2, 4},
	}
	for i, head := range heads {
		var buf bytes.Buffer
		lw := lzw.NewWriter(&buf, lzw.LSB, 8)
		if _, err := lw.Write(artifactMagic[:]); err != nil {
			t.Fatal(err)
		}
		for _, v := range head {
			if err := binary.Write(lw, binary.LittleEndian, v); err != nil {
				t.Fatal(err)
			}
		}
		if err := lw.Close(); err != nil {
			t.Fatal(err)
		}
		if _, err := Read(bytes.NewReader(buf.Bytes())); !errors.Is(err, dgadetect.ErrCorruptArtifact) {
			t.Fatalf("header %d: want ErrCorruptArtifact, got %v", i, err)
		}
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.bin")
	a, err := New(testConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	b, _ := New(testConfig(), 2)
	if err := b.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	m, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Parameters()[0].W[0] != b.Parameters()[0].W[0] {
		t.Fatal("rewrite did not replace the artifact")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("save left extra files behind: %v", entries)
	}
}

func TestReadRejectsTruncated(t *testing.T) {
	n, _ := New(testConfig(), 2)
	var buf bytes.Buffer
	if err := n.Write(&buf); err != nil {
		t.Fatal(err)
	}
	cut := buf.Bytes()[:buf.Len()/2]
	if _, err := Read(bytes.NewReader(cut)); !errors.Is(err, dgadetect.ErrCorruptArtifact) {
		t.Fatalf("truncated artifact: want ErrCorruptArtifact, got %v", err)
	}
}
