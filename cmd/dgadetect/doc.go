// Package main provides the dgadetect command: train a GRU domain
// classifier on a labeled CSV corpus, score domains with a saved model,
// and evaluate a model against a labeled file.
package main
