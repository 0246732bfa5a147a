package summarizer

import (
	"errors"
	"testing"
	"time"

	"summary-lab/internal/config"
	"summary-lab/internal/usecase/summarize"
)

func TestFromConfig_ProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider config.ProviderConfig
		want     string
	}{
		{
			name:     "claude",
			provider: config.ProviderConfig{Name: config.ProviderClaude, APIKey: "sk-ant-test"},
			want:     "*summarizer.Claude",
		},
		{
			name:     "openai",
			provider: config.ProviderConfig{Name: config.ProviderOpenAI, APIKey: "sk-test"},
			want:     "*summarizer.OpenAI",
		},
		{
			name:     "noop needs no credential",
			provider: config.ProviderConfig{Name: config.ProviderNoop},
			want:     "*summarizer.NoOp",
		},
		{
			name:     "empty name defaults to claude",
			provider: config.ProviderConfig{APIKey: "sk-ant-test"},
			want:     "*summarizer.Claude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := FromConfig(tt.provider, "")

			// Assert
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var typeName string
			switch got.(type) {
			case *Claude:
				typeName = "*summarizer.Claude"
			case *OpenAI:
				typeName = "*summarizer.OpenAI"
			case *NoOp:
				typeName = "*summarizer.NoOp"
			default:
				typeName = "unexpected"
			}
			if typeName != tt.want {
				t.Errorf("expected %s, got %s", tt.want, typeName)
			}
		})
	}
}

func TestFromConfig_AppliesProviderSettings(t *testing.T) {
	p := config.ProviderConfig{
		Name:        config.ProviderClaude,
		APIKey:      "sk-ant-test",
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   500,
		Temperature: 0.5,
		Timeout:     30 * time.Second,
	}

	// Act
	got, err := FromConfig(p, "")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claude, ok := got.(*Claude)
	if !ok {
		t.Fatalf("expected *Claude, got %T", got)
	}
	if claude.config.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected configured model, got %q", claude.config.Model)
	}
	if claude.config.MaxTokens != 500 {
		t.Errorf("expected MaxTokens=500, got %d", claude.config.MaxTokens)
	}
	if claude.config.Temperature != 0.5 {
		t.Errorf("expected Temperature=0.5, got %g", claude.config.Temperature)
	}
	if claude.config.Timeout != 30*time.Second {
		t.Errorf("expected Timeout=30s, got %v", claude.config.Timeout)
	}
}

func TestFromConfig_ModelArgumentWins(t *testing.T) {
	p := config.ProviderConfig{
		Name:   config.ProviderClaude,
		APIKey: "sk-ant-test",
		Model:  "claude-3-5-haiku-20241022",
	}

	// Act
	got, err := FromConfig(p, "claude-opus-4-1-20250805")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claude := got.(*Claude)
	if claude.config.Model != "claude-opus-4-1-20250805" {
		t.Errorf("expected the model argument to win, got %q", claude.config.Model)
	}
}

func TestFromConfig_KeepsAdapterDefaults(t *testing.T) {
	// 未指定の項目はアダプタ既定値のまま
	got, err := FromConfig(config.ProviderConfig{Name: config.ProviderClaude, APIKey: "sk-ant-test"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claude := got.(*Claude)
	if claude.config.Model != DefaultClaudeModel {
		t.Errorf("expected default model, got %q", claude.config.Model)
	}
	if claude.config.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected default max tokens, got %d", claude.config.MaxTokens)
	}
}

func TestFromConfig_MissingCredential(t *testing.T) {
	// Act
	_, err := FromConfig(config.ProviderConfig{Name: config.ProviderClaude}, "")

	// Assert
	if !errors.Is(err, summarize.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}
