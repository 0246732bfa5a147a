package summarizer

import (
	"fmt"
	"time"

	"summary-lab/internal/usecase/summarize"
)

// summaryPrompt is the instruction sent to every provider ahead of the text
// to summarize. Kept identical across providers so summaries stay comparable
// when switching models.
const summaryPrompt = "Please provide a clear, concise summary of the following text. " +
	"Focus on the key points and main ideas while maintaining accuracy."

const (
	// DefaultClaudeModel is the Anthropic model used when none is configured.
	DefaultClaudeModel = "claude-3-5-haiku-20241022"

	// DefaultOpenAIModel is the OpenAI model used when none is configured.
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultMaxTokens caps the length of a generated summary.
	DefaultMaxTokens = 1000

	// DefaultTemperature keeps summaries focused rather than creative.
	DefaultTemperature = 0.3

	// DefaultTimeout is the maximum duration for a single summarization call.
	DefaultTimeout = 60 * time.Second
)

// Config holds the provider-independent settings for a summarizer.
// Construct via ClaudeConfig or OpenAIConfig and override fields as needed.
type Config struct {
	// APIKey authenticates against the provider. Required.
	APIKey string

	// Model is the provider model identifier to use for summarization.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Temperature controls sampling randomness. Valid range: 0.0-1.0.
	Temperature float64

	// Timeout is the maximum duration for a single summarization API call.
	Timeout time.Duration
}

// ClaudeConfig returns a Config with Anthropic defaults for the given API key.
func ClaudeConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       DefaultClaudeModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// OpenAIConfig returns a Config with OpenAI defaults for the given API key.
func OpenAIConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       DefaultOpenAIModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Validate checks the configuration and returns an error if invalid.
// An empty API key reports summarize.ErrMissingCredential so callers can
// surface the remediation hint before any network call is attempted.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: configure the provider API key", summarize.ErrMissingCredential)
	}

	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0, got %g", c.Temperature)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	return nil
}
