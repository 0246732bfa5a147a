package summarizer_test

import (
	"errors"
	"testing"
	"time"

	"summary-lab/internal/infra/summarizer"
	"summary-lab/internal/usecase/summarize"
)

func TestClaudeConfig_Defaults(t *testing.T) {
	cfg := summarizer.ClaudeConfig("sk-ant-test")

	if cfg.Model != summarizer.DefaultClaudeModel {
		t.Errorf("expected Model=%q, got %q", summarizer.DefaultClaudeModel, cfg.Model)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("expected MaxTokens=1000, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("expected Temperature=0.3, got %g", cfg.Temperature)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected Timeout=60s, got %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestOpenAIConfig_Defaults(t *testing.T) {
	cfg := summarizer.OpenAIConfig("sk-test")

	if cfg.Model != summarizer.DefaultOpenAIModel {
		t.Errorf("expected Model=%q, got %q", summarizer.DefaultOpenAIModel, cfg.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := summarizer.ClaudeConfig("sk-ant-test")

	tests := []struct {
		name    string
		mutate  func(*summarizer.Config)
		wantErr error
	}{
		{
			name:    "missing api key",
			mutate:  func(c *summarizer.Config) { c.APIKey = "" },
			wantErr: summarize.ErrMissingCredential,
		},
		{
			name:   "empty model",
			mutate: func(c *summarizer.Config) { c.Model = "" },
		},
		{
			name:   "zero max tokens",
			mutate: func(c *summarizer.Config) { c.MaxTokens = 0 },
		},
		{
			name:   "negative max tokens",
			mutate: func(c *summarizer.Config) { c.MaxTokens = -1 },
		},
		{
			name:   "temperature too high",
			mutate: func(c *summarizer.Config) { c.Temperature = 1.5 },
		},
		{
			name:   "temperature negative",
			mutate: func(c *summarizer.Config) { c.Temperature = -0.1 },
		},
		{
			name:   "zero timeout",
			mutate: func(c *summarizer.Config) { c.Timeout = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error wrapping %v, got %v", tt.wantErr, err)
			}
		})
	}
}
