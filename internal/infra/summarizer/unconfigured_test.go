package summarizer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"summary-lab/internal/infra/summarizer"
	"summary-lab/internal/usecase/summarize"
)

func TestUnconfigured_Summarize(t *testing.T) {
	cause := fmt.Errorf("build claude summarizer: %w", summarize.ErrMissingCredential)
	u := summarizer.NewUnconfigured(cause)

	// Act
	out, err := u.Summarize(context.Background(), "any input at all")

	// Assert
	if out != nil {
		t.Errorf("expected nil output, got %+v", out)
	}
	if !errors.Is(err, summarize.ErrMissingCredential) {
		t.Errorf("expected the construction error, got %v", err)
	}
	if summarize.Kind(err) != "missing_credential" {
		t.Errorf("expected missing_credential kind, got %q", summarize.Kind(err))
	}
}
