package summarizer

import (
	"context"

	"summary-lab/internal/usecase/summarize"
)

// Unconfigured is a Summarizer placeholder used when the real provider could
// not be built, typically because its credential is absent. Every call fails
// with the construction error, so the web variant can start and report the
// problem per request instead of refusing to boot.
type Unconfigured struct {
	err error
}

// NewUnconfigured creates a placeholder that fails every call with err.
func NewUnconfigured(err error) *Unconfigured {
	return &Unconfigured{err: err}
}

// Summarize always fails with the construction error.
func (u *Unconfigured) Summarize(context.Context, string) (*summarize.ProviderOutput, error) {
	return nil, u.err
}
