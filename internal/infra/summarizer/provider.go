package summarizer

import (
	"summary-lab/internal/config"
	"summary-lab/internal/usecase/summarize"
)

// FromConfig builds the summarizer adapter selected by the provider
// configuration. A non-empty model argument overrides the configured model,
// which the web variant uses to run one pipeline per selectable model.
func FromConfig(p config.ProviderConfig, model string) (summarize.Summarizer, error) {
	if p.Name == config.ProviderNoop {
		return NewNoOp(), nil
	}

	var cfg Config
	switch p.Name {
	case config.ProviderOpenAI:
		cfg = OpenAIConfig(p.APIKey)
	default:
		cfg = ClaudeConfig(p.APIKey)
	}
	if p.Model != "" {
		cfg.Model = p.Model
	}
	if model != "" {
		cfg.Model = model
	}
	if p.MaxTokens > 0 {
		cfg.MaxTokens = p.MaxTokens
	}
	if p.Temperature > 0 {
		cfg.Temperature = p.Temperature
	}
	if p.Timeout > 0 {
		cfg.Timeout = p.Timeout
	}

	if p.Name == config.ProviderOpenAI {
		return NewOpenAI(cfg)
	}
	return NewClaude(cfg)
}
