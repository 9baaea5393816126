// Package learning implements the loss and the optimizer used to fit the
// GRU domain classifier.
package learning

// HyperParameters collects every knob of one training run.
type HyperParameters struct {
	// AdamW.
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64

	// GradClip bounds each gradient component before the update step.
	// Zero disables clipping.
	GradClip float64

	// Loop shape.
	BatchSize     int
	Epochs        int
	TrainFraction float64

	// Seed drives parameter initialization, the train/test split and the
	// per-epoch shuffle. A fixed seed makes a run reproducible.
	Seed int64

	// LogEvery is the batch interval for cumulative loss logging.
	LogEvery int
}

// DefaultHyperParameters returns the values used by the bundled commands.
func DefaultHyperParameters() HyperParameters {
	return HyperParameters{
		LearningRate:  1e-3,
		Beta1:         0.9,
		Beta2:         0.999,
		Epsilon:       1e-8,
		WeightDecay:   0.01,
		GradClip:      5,
		BatchSize:     32,
		Epochs:        5,
		TrainFraction: 0.8,
		Seed:          42,
		LogEvery:      50,
	}
}
