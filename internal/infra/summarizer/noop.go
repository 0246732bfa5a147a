package summarizer

import (
	"context"

	"summary-lab/internal/usecase/summarize"
	"summary-lab/internal/utils/text"
)

// noopMaxChars bounds the pseudo-summary returned by the NoOp summarizer.
const noopMaxChars = 500

// NoOp is a summarizer that returns the leading portion of the original text
// without calling any API. Useful for development and for exercising the
// pipeline in tests without credentials.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the first characters of the input as the "summary".
func (n *NoOp) Summarize(_ context.Context, input string) (*summarize.ProviderOutput, error) {
	return &summarize.ProviderOutput{
		Summary: text.Preview(input, noopMaxChars),
		Model:   "noop",
	}, nil
}
