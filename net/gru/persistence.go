package gru

import "bufio"
import "compress/lzw"
import "encoding/binary"
import "fmt"
import "io"
import "math"
import "os"
import "path/filepath"

import "github.com/neurlang/dgadetect"

// Artifact layout, LZW-compressed (LSB, 8): magic, format version, the six
// Config fields, the parameter count, then each parameter as rows, cols and
// raw IEEE-754 bits. Storing the bits keeps save/load byte-exact.
var artifactMagic = [4]byte{'D', 'G', 'A', 'D'}

const artifactVersion uint32 = 1

// Ceilings on a decoded header. A corrupt artifact can claim any shape, and
// it has to fail with an error before anything is allocated for it.
const maxConfigDim = 1 << 20
const maxArtifactElems = 1 << 28

// elems counts the float64 values a network of this shape stores.
func (c Config) elems() int64 {
	in := int64(c.EmbedSize)
	h := int64(c.Hidden)
	total := int64(c.VocabSize) * in
	for d := 0; d < c.Layers; d++ {
		total += 3 * (h*in + h*h + h)
		in = h
	}
	return total + int64(c.Classes)*h + int64(c.Classes)
}

// WriteFile saves the model to a single binary artifact. The write goes to a
// temp file renamed over the target, so an interrupted save leaves any
// previous artifact untouched.
func (n *Network) WriteFile(name string) error {
	file, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	err = n.Write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(file.Name())
		return err
	}
	if err := os.Rename(file.Name(), name); err != nil {
		os.Remove(file.Name())
		return err
	}
	return nil
}

// Write serializes the model to a writer.
func (n *Network) Write(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	bw := bufio.NewWriter(lw)
	if _, err := bw.Write(artifactMagic[:]); err != nil {
		return err
	}
	cfg := n.cfg
	head := []uint32{
		artifactVersion,
		uint32(cfg.VocabSize), uint32(cfg.EmbedSize), uint32(cfg.Hidden),
		uint32(cfg.Layers), uint32(cfg.Classes), uint32(cfg.MaxLen),
	}
	for _, v := range head {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	params := n.Parameters()
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := binary.Write(bw, binary.LittleEndian, uint32(p.Rows)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(p.Cols)); err != nil {
			return err
		}
		for _, v := range p.W {
			if err := binary.Write(bw, binary.LittleEndian, math.Float64bits(v)); err != nil {
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return lw.Close()
}

// ReadFile loads a model saved by WriteFile.
func ReadFile(name string) (*Network, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read reconstructs a model from a reader. A missing or inconsistent
// configuration, or a payload that does not match it structurally, is a
// corrupt-artifact error.
func Read(r io.Reader) (*Network, error) {
	br := bufio.NewReader(lzw.NewReader(r, lzw.LSB, 8))
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", dgadetect.ErrCorruptArtifact, err)
	}
	if magic != artifactMagic {
		return nil, fmt.Errorf("%w: bad magic %q", dgadetect.ErrCorruptArtifact, magic[:])
	}
	head := make([]uint32, 7)
	for i := range head {
		if err := binary.Read(br, binary.LittleEndian, &head[i]); err != nil {
			return nil, fmt.Errorf("%w: truncated header: %v", dgadetect.ErrCorruptArtifact, err)
		}
	}
	if head[0] != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", dgadetect.ErrCorruptArtifact, head[0])
	}
	for _, v := range head[1:] {
		if v > maxConfigDim {
			return nil, fmt.Errorf("%w: configuration field %d out of range", dgadetect.ErrCorruptArtifact, v)
		}
	}
	cfg := Config{
		VocabSize: int(head[1]),
		EmbedSize: int(head[2]),
		Hidden:    int(head[3]),
		Layers:    int(head[4]),
		Classes:   int(head[5]),
		MaxLen:    int(head[6]),
	}
	if elems := cfg.elems(); elems > maxArtifactElems {
		return nil, fmt.Errorf("%w: configuration wants %d parameter values", dgadetect.ErrCorruptArtifact, elems)
	}
	n, err := New(cfg, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: stored configuration invalid: %v", dgadetect.ErrCorruptArtifact, err)
	}
	params := n.Parameters()
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: truncated parameter count: %v", dgadetect.ErrCorruptArtifact, err)
	}
	if int(count) != len(params) {
		return nil, fmt.Errorf("%w: %d parameters stored, configuration needs %d", dgadetect.ErrCorruptArtifact, count, len(params))
	}
	for i, p := range params {
		var rows, cols uint32
		if err := binary.Read(br, binary.LittleEndian, &rows); err != nil {
			return nil, fmt.Errorf("%w: truncated parameter %d: %v", dgadetect.ErrCorruptArtifact, i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &cols); err != nil {
			return nil, fmt.Errorf("%w: truncated parameter %d: %v", dgadetect.ErrCorruptArtifact, i, err)
		}
		if int(rows) != p.Rows || int(cols) != p.Cols {
			return nil, fmt.Errorf("%w: parameter %d is %dx%d, configuration needs %dx%d",
				dgadetect.ErrCorruptArtifact, i, rows, cols, p.Rows, p.Cols)
		}
		for j := range p.W {
			var bits uint64
			if err := binary.Read(br, binary.LittleEndian, &bits); err != nil {
				return nil, fmt.Errorf("%w: truncated parameter %d: %v", dgadetect.ErrCorruptArtifact, i, err)
			}
			p.W[j] = math.Float64frombits(bits)
		}
	}
	return n, nil
}
