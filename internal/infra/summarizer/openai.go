package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/resilience/circuitbreaker"
	"summary-lab/internal/usecase/summarize"
	"summary-lab/internal/utils/text"
)

// OpenAI implements the Summarizer interface using OpenAI's chat completion
// API. Like the Claude adapter it is guarded by a circuit breaker and never
// retries a failed call.
type OpenAI struct {
	client  *openai.Client
	breaker *circuitbreaker.CircuitBreaker
	config  Config
	metrics SummaryMetricsRecorder
}

// NewOpenAI creates a new OpenAI summarizer from the given configuration.
// It fails with summarize.ErrMissingCredential when the API key is empty.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("initialized openai summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		client:  openai.NewClient(cfg.APIKey),
		breaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		config:  cfg,
		metrics: NewPrometheusSummaryMetrics(),
	}, nil
}

// Breaker exposes the adapter's circuit breaker for health reporting.
func (o *OpenAI) Breaker() *circuitbreaker.CircuitBreaker {
	return o.breaker
}

// Summarize generates a summary of the given text using the OpenAI API.
func (o *OpenAI) Summarize(ctx context.Context, input string) (*summarize.ProviderOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	cbResult, err := o.breaker.Execute(func() (interface{}, error) {
		return o.doSummarize(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("openai api circuit breaker open, request rejected",
				slog.String("circuit", o.breaker.Name()),
				slog.String("state", o.breaker.State().String()))
			return nil, fmt.Errorf("%w: openai api circuit breaker open", summarize.ErrServiceFailure)
		}
		return nil, err
	}

	return cbResult.(*summarize.ProviderOutput), nil
}

// doSummarize performs the actual API call and maps failures onto sentinels.
func (o *OpenAI) doSummarize(ctx context.Context, input string) (*summarize.ProviderOutput, error) {
	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = requestid.New()
	}

	prompt := summaryPrompt + "\n\n" + input

	slog.InfoContext(ctx, "calling openai api",
		slog.String("request_id", requestID),
		slog.String("model", o.config.Model),
		slog.Int("input_chars", text.CountRunes(input)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: float32(o.config.Temperature),
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		o.metrics.RecordFailure()
		slog.ErrorContext(ctx, "openai api call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		o.metrics.RecordFailure()
		return nil, fmt.Errorf("%w: openai api returned empty response", summarize.ErrServiceFailure)
	}

	summary := resp.Choices[0].Message.Content
	summaryLength := text.CountRunes(summary)

	slog.InfoContext(ctx, "openai api call completed",
		slog.String("request_id", requestID),
		slog.Int("summary_chars", summaryLength),
		slog.Int("input_tokens", resp.Usage.PromptTokens),
		slog.Int("output_tokens", resp.Usage.CompletionTokens),
		slog.Duration("duration", duration))

	o.metrics.RecordLength(summaryLength)
	o.metrics.RecordDuration(duration)
	o.metrics.RecordTokens(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))

	return &summarize.ProviderOutput{
		Summary: summary,
		Model:   o.config.Model,
		Usage: entity.Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}

// mapOpenAIError converts an OpenAI SDK error into one of the summarize
// sentinels based on the HTTP status code.
func mapOpenAIError(err error) error {
	var apierr *openai.APIError
	if errors.As(err, &apierr) {
		switch apierr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: openai api returned status %d", summarize.ErrInvalidCredential, apierr.HTTPStatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: openai api returned status %d", summarize.ErrRateLimited, apierr.HTTPStatusCode)
		}
	}
	return fmt.Errorf("%w: %v", summarize.ErrServiceFailure, err)
}
