package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/sync/singleflight"

	"summary-lab/internal/usecase/summarize"
)

// Deduped wraps a Summarizer so that concurrent requests for identical text
// share a single provider call. The web API uses this to avoid paying twice
// when the same document is submitted from multiple tabs at once.
//
// Deduplication only collapses in-flight calls. Sequential requests for the
// same text still reach the provider each time.
type Deduped struct {
	inner summarize.Summarizer
	group singleflight.Group
}

// NewDeduped wraps the given summarizer with in-flight deduplication.
func NewDeduped(inner summarize.Summarizer) *Deduped {
	return &Deduped{inner: inner}
}

// Summarize forwards to the wrapped summarizer, collapsing concurrent calls
// with identical input into one.
func (d *Deduped) Summarize(ctx context.Context, input string) (*summarize.ProviderOutput, error) {
	sum := sha256.Sum256([]byte(input))
	key := hex.EncodeToString(sum[:])

	// 同時に同じテキストが来たら先行呼び出しの結果を共有する
	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		return d.inner.Summarize(ctx, input)
	})
	if err != nil {
		return nil, err
	}

	return v.(*summarize.ProviderOutput), nil
}
