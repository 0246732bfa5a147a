// Package summarizer provides AI-powered text summarization implementations.
// It includes adapters for Claude (Anthropic) and OpenAI APIs guarded by
// circuit breakers, with structured logging and Prometheus metrics. Failed
// calls are never retried; each failure surfaces as a terminal error mapped
// onto the summarize package sentinels.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/resilience/circuitbreaker"
	"summary-lab/internal/usecase/summarize"
	"summary-lab/internal/utils/text"
)

// Claude implements the Summarizer interface using Anthropic's Claude API.
// A circuit breaker rejects calls fast once the API starts failing, and the
// SDK's built-in retries are disabled so every attempt maps to exactly one
// HTTP request.
type Claude struct {
	client  anthropic.Client
	breaker *circuitbreaker.CircuitBreaker
	config  Config
	metrics SummaryMetricsRecorder
}

// NewClaude creates a new Claude summarizer from the given configuration.
// It fails with summarize.ErrMissingCredential before any network activity
// when the API key is empty. Extra request options are passed through to the
// underlying SDK client, which tests use to inject an HTTP transport.
func NewClaude(cfg Config, opts ...option.RequestOption) (*Claude, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	slog.Info("initialized claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client:  anthropic.NewClient(clientOpts...),
		breaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		config:  cfg,
		metrics: NewPrometheusSummaryMetrics(),
	}, nil
}

// Breaker exposes the adapter's circuit breaker for health reporting.
func (c *Claude) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Summarize generates a summary of the given text using the Claude API.
// The call is routed through a circuit breaker; when the breaker is open the
// request is rejected immediately as a service failure.
func (c *Claude) Summarize(ctx context.Context, input string) (*summarize.ProviderOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	cbResult, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doSummarize(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("claude api circuit breaker open, request rejected",
				slog.String("circuit", c.breaker.Name()),
				slog.String("state", c.breaker.State().String()))
			return nil, fmt.Errorf("%w: claude api circuit breaker open", summarize.ErrServiceFailure)
		}
		return nil, err
	}

	return cbResult.(*summarize.ProviderOutput), nil
}

// doSummarize performs the actual API call and maps failures onto sentinels.
func (c *Claude) doSummarize(ctx context.Context, input string) (*summarize.ProviderOutput, error) {
	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = requestid.New()
	}

	prompt := summaryPrompt + "\n\n" + input

	slog.InfoContext(ctx, "calling claude api",
		slog.String("request_id", requestID),
		slog.String("model", c.config.Model),
		slog.Int("input_chars", text.CountRunes(input)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		c.metrics.RecordFailure()
		slog.ErrorContext(ctx, "claude api call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, mapAnthropicError(err)
	}

	if len(message.Content) == 0 {
		c.metrics.RecordFailure()
		return nil, fmt.Errorf("%w: claude api returned empty response", summarize.ErrServiceFailure)
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metrics.RecordFailure()
		return nil, fmt.Errorf("%w: claude api returned unexpected content type", summarize.ErrServiceFailure)
	}

	summary := textBlock.Text
	summaryLength := text.CountRunes(summary)

	slog.InfoContext(ctx, "claude api call completed",
		slog.String("request_id", requestID),
		slog.Int("summary_chars", summaryLength),
		slog.Int64("input_tokens", message.Usage.InputTokens),
		slog.Int64("output_tokens", message.Usage.OutputTokens),
		slog.Duration("duration", duration))

	c.metrics.RecordLength(summaryLength)
	c.metrics.RecordDuration(duration)
	c.metrics.RecordTokens(message.Usage.InputTokens, message.Usage.OutputTokens)

	return &summarize.ProviderOutput{
		Summary: summary,
		Model:   c.config.Model,
		Usage: entity.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
	}, nil
}

// mapAnthropicError converts an Anthropic SDK error into one of the
// summarize sentinels based on the HTTP status code.
func mapAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: claude api returned status %d", summarize.ErrInvalidCredential, apierr.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: claude api returned status %d", summarize.ErrRateLimited, apierr.StatusCode)
		}
	}
	return fmt.Errorf("%w: %v", summarize.ErrServiceFailure, err)
}
