package summarize

import (
	"context"

	"summary-lab/internal/domain/entity"
)

// ProviderOutput is what an AI provider returns for one summarization call.
type ProviderOutput struct {
	// Summary is the first generated text block from the completion.
	Summary string
	// Model is the model that actually served the request.
	Model string
	// Usage holds reported token counts; zero when the provider does not
	// report usage.
	Usage entity.Usage
}

// Summarizer is an interface for AI-powered text summarization.
// Implementations send the text with a fixed summarization instruction and
// return the generated summary. One call per invocation; no retries.
//
// Errors wrap the pipeline sentinels: ErrMissingCredential before any network
// call when the credential is absent, ErrInvalidCredential on 401/403,
// ErrRateLimited on 429, ErrServiceFailure otherwise.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*ProviderOutput, error)
}
