// Package cliconfig carries the configuration of the dgadetect command and
// its file, environment and flag layering.
package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config is the merged command configuration. Precedence: defaults, then
// the TOML config file, then environment, then flags.
type Config struct {
	// Paths.
	ModelPath string
	DataPath  string

	// CSV columns.
	DomainColumn string
	LabelColumn  string

	// Architecture.
	VocabSize int
	EmbedSize int
	Hidden    int
	Layers    int
	MaxLen    int

	// Training.
	BatchSize     int
	Epochs        int
	TrainFraction float64
	LearningRate  float64
	WeightDecay   float64
	Seed          int64

	// Serving.
	PredictBatch  int
	Watch         bool
	WatchDebounce time.Duration

	Debug bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ModelPath:     "dga.model",
		DomainColumn:  "domain",
		LabelColumn:   "label",
		VocabSize:     130,
		EmbedSize:     32,
		Hidden:        64,
		Layers:        1,
		MaxLen:        64,
		BatchSize:     32,
		Epochs:        5,
		TrainFraction: 0.8,
		LearningRate:  1e-3,
		WeightDecay:   0.01,
		Seed:          42,
		PredictBatch:  64,
		WatchDebounce: 200 * time.Millisecond,
	}
}

// DefaultConfigPath returns ~/.dgadetect/config.toml when the home
// directory is known, otherwise a relative fallback.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".dgadetect", "config.toml")
	}
	return "config.toml"
}

// Logger returns the console logger used by the command.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}
