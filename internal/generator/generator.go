// Package generator wraps the external text-generation providers behind a
// single one-prompt, one-completion call.
package generator

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("empty completion from model")

// Generator produces a single completion for a prompt. Implementations hold
// no conversation state and do not stream.
type Generator interface {
	// Name returns the provider name, e.g. "gemini".
	Name() string

	// Model returns the model identifier sent with each request.
	Model() string

	// Generate sends prompt to the model and returns the full completion.
	Generate(ctx context.Context, prompt string) (string, error)
}
