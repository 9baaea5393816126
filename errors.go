// Package dgadetect classifies domain names as either benign or
// algorithmically generated (DGA). The subpackages implement the pipeline:
// tokenizer encodes domain strings, net/gru scores them, trainer fits the
// model, inference serves a saved model.
package dgadetect

import "errors"

// Sentinel errors for broad classification. Callers match them with
// errors.Is; the wrapping error carries the detail.
var (
	// ErrInvalidConfiguration marks invalid architecture or tokenizer
	// hyperparameters detected at construction.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrData marks malformed or mismatched training data and labels.
	ErrData = errors.New("bad training data")

	// ErrCorruptArtifact marks an unreadable or internally inconsistent
	// saved model file.
	ErrCorruptArtifact = errors.New("corrupt model artifact")

	// ErrNoModel marks a prediction request against a predictor with no
	// loaded model.
	ErrNoModel = errors.New("no model loaded")
)
