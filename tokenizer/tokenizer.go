// Package tokenizer maps domain name characters to the small integer codes
// consumed by the embedding layer.
package tokenizer

import "fmt"

import "github.com/neurlang/dgadetect"

// Reserved codes. Printable ASCII characters are offset past them.
const (
	PAD = 0
	UNK = 1

	reserved = 2
)

// DefaultVocabSize covers the full ASCII range plus the reserved codes.
const DefaultVocabSize = reserved + 128

// Tokenizer turns a domain string into a fixed-length code sequence.
// Encoding is deterministic and pure: the same string always yields the
// same sequence for a given configuration.
type Tokenizer struct {
	vocabSize int
	maxLen    int
}

// New returns a tokenizer over an ASCII vocabulary of vocabSize codes that
// pads or truncates every string to maxLen codes.
func New(vocabSize, maxLen int) (*Tokenizer, error) {
	if vocabSize <= reserved {
		return nil, fmt.Errorf("%w: vocab size %d leaves no room for characters", dgadetect.ErrInvalidConfiguration, vocabSize)
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: max length %d", dgadetect.ErrInvalidConfiguration, maxLen)
	}
	return &Tokenizer{vocabSize: vocabSize, maxLen: maxLen}, nil
}

// VocabSize reports the number of distinct codes the tokenizer emits.
func (t *Tokenizer) VocabSize() int { return t.vocabSize }

// MaxLen reports the fixed sequence length.
func (t *Tokenizer) MaxLen() int { return t.maxLen }

// Encode converts a domain to exactly MaxLen codes. Longer strings are
// truncated, shorter ones padded with PAD. Uppercase ASCII folds to
// lowercase (domains are case-insensitive); anything outside the vocabulary
// becomes UNK.
func (t *Tokenizer) Encode(domain string) []int {
	out := make([]int, t.maxLen)
	for i := 0; i < t.maxLen; i++ {
		if i >= len(domain) {
			out[i] = PAD
			continue
		}
		c := domain[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		code := reserved + int(c)
		if c >= 128 || code >= t.vocabSize {
			code = UNK
		}
		out[i] = code
	}
	return out
}

// EncodeAll encodes a batch of domains.
func (t *Tokenizer) EncodeAll(domains []string) [][]int {
	out := make([][]int, len(domains))
	for i, d := range domains {
		out[i] = t.Encode(d)
	}
	return out
}
