package cliconfig

import (
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with TOML-friendly field types; pointers tell
// set fields apart from absent ones.
type fileConfig struct {
	ModelPath    *string `toml:"model_path"`
	DataPath     *string `toml:"data_path"`
	DomainColumn *string `toml:"domain_column"`
	LabelColumn  *string `toml:"label_column"`

	VocabSize *int `toml:"vocab_size"`
	EmbedSize *int `toml:"embed_size"`
	Hidden    *int `toml:"hidden"`
	Layers    *int `toml:"layers"`
	MaxLen    *int `toml:"max_len"`

	BatchSize     *int     `toml:"batch_size"`
	Epochs        *int     `toml:"epochs"`
	TrainFraction *float64 `toml:"train_fraction"`
	LearningRate  *float64 `toml:"learning_rate"`
	WeightDecay   *float64 `toml:"weight_decay"`
	Seed          *int64   `toml:"seed"`

	PredictBatch  *int    `toml:"predict_batch"`
	Watch         *bool   `toml:"watch"`
	WatchDebounce *string `toml:"watch_debounce"`

	Debug *bool `toml:"debug"`
}

// ApplyFile overlays the TOML file at path onto cfg. A missing file is not
// an error; a malformed one is.
func ApplyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return err
	}
	setString(&cfg.ModelPath, fc.ModelPath)
	setString(&cfg.DataPath, fc.DataPath)
	setString(&cfg.DomainColumn, fc.DomainColumn)
	setString(&cfg.LabelColumn, fc.LabelColumn)
	setInt(&cfg.VocabSize, fc.VocabSize)
	setInt(&cfg.EmbedSize, fc.EmbedSize)
	setInt(&cfg.Hidden, fc.Hidden)
	setInt(&cfg.Layers, fc.Layers)
	setInt(&cfg.MaxLen, fc.MaxLen)
	setInt(&cfg.BatchSize, fc.BatchSize)
	setInt(&cfg.Epochs, fc.Epochs)
	if fc.TrainFraction != nil {
		cfg.TrainFraction = *fc.TrainFraction
	}
	if fc.LearningRate != nil {
		cfg.LearningRate = *fc.LearningRate
	}
	if fc.WeightDecay != nil {
		cfg.WeightDecay = *fc.WeightDecay
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	setInt(&cfg.PredictBatch, fc.PredictBatch)
	if fc.Watch != nil {
		cfg.Watch = *fc.Watch
	}
	if fc.WatchDebounce != nil {
		if d, err := time.ParseDuration(*fc.WatchDebounce); err == nil {
			cfg.WatchDebounce = d
		}
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
