package summarize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/observability/tracing"
	"summary-lab/internal/utils/text"
)

// Config holds the pipeline limits.
type Config struct {
	// MinChars is the minimum character count the resolved text must have
	// after trimming surrounding whitespace. Shorter input is rejected
	// before any provider call.
	MinChars int

	// MaxContentBytes is the byte ceiling applied to resolved text. Longer
	// input keeps its leading portion only.
	MaxContentBytes int
}

// DefaultConfig returns the standard pipeline limits.
func DefaultConfig() Config {
	return Config{
		MinChars:        10,
		MaxContentBytes: 50000,
	}
}

// Service runs the summarization pipeline: resolve the input to a single
// text, enforce the size limits, call the AI provider, and assemble the
// result with its metrics. The stages run strictly in order and any stage
// failure is terminal; nothing is retried and no partial result is returned.
type Service struct {
	// Fetcher resolves URL inputs to readable text. Only required when URL
	// requests are expected.
	Fetcher ContentFetcher

	// Summarizer is the AI provider adapter.
	Summarizer Summarizer

	// Gate throttles provider calls when set. Nil disables local limiting.
	Gate *monitoring.RequestGate

	// Monitor records per-request analytics when set. Nil disables it.
	Monitor *monitoring.Monitor

	// Stdin is read to EOF for standard input requests.
	Stdin io.Reader

	Config Config
}

// NewService wires a Service with the standard limits. Gate and Monitor stay
// unset; callers attach them when throttling or analytics are wanted.
func NewService(fetcher ContentFetcher, summarizer Summarizer) *Service {
	return &Service{
		Fetcher:    fetcher,
		Summarizer: summarizer,
		Stdin:      os.Stdin,
		Config:     DefaultConfig(),
	}
}

// Run executes the pipeline for one request and records the outcome, success
// or failure, to the monitor when one is attached.
func (s *Service) Run(ctx context.Context, req entity.InputRequest) (*entity.SummaryResult, error) {
	ctx, requestID := getOrCreateRequestID(ctx)

	ctx, span := tracing.StartSpan(ctx, "summarize.Run")
	defer span.End()

	start := time.Now()
	raw, err := s.resolveRaw(ctx, req)

	var result *entity.SummaryResult
	if err == nil {
		result, err = s.runResolved(ctx, requestID, s.bound(ctx, raw, req.Source))
	}

	duration := time.Since(start)
	if result != nil {
		result.Duration = duration
	}
	s.record(requestID, req.Source, result, duration, err)

	return result, err
}

// RunText executes the pipeline on text the caller already read, as with web
// uploads. Truncation, validation, and outcome recording work exactly as in
// Run.
func (s *Service) RunText(ctx context.Context, content string, source entity.InputSource) (*entity.SummaryResult, error) {
	ctx, requestID := getOrCreateRequestID(ctx)

	ctx, span := tracing.StartSpan(ctx, "summarize.RunText")
	defer span.End()

	start := time.Now()
	result, err := s.runResolved(ctx, requestID, s.bound(ctx, content, source))

	duration := time.Since(start)
	if result != nil {
		result.Duration = duration
	}
	s.record(requestID, source, result, duration, err)

	return result, err
}

// runResolved validates the resolved text and calls the provider.
func (s *Service) runResolved(ctx context.Context, requestID string, resolved entity.ResolvedText) (*entity.SummaryResult, error) {
	// 検証は前後の空白を除いた文字数で行う
	trimmed := strings.TrimSpace(resolved.Content)
	if text.CountRunes(trimmed) < s.Config.MinChars {
		slog.WarnContext(ctx, "input below minimum length, rejecting before provider call",
			slog.String("request_id", requestID),
			slog.Int("chars", text.CountRunes(trimmed)),
			slog.Int("min_chars", s.Config.MinChars))
		return nil, fmt.Errorf("%w: need at least %d characters", ErrTextTooShort, s.Config.MinChars)
	}

	if s.Gate != nil {
		if err := s.Gate.Allow(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	slog.InfoContext(ctx, "summarizing",
		slog.String("request_id", requestID),
		slog.String("source", string(resolved.Source)),
		slog.Int("input_chars", resolved.Chars),
		slog.Bool("truncated", resolved.Truncated))

	out, err := s.Summarizer.Summarize(ctx, resolved.Content)
	if err != nil {
		return nil, err
	}

	result := entity.NewSummaryResult(resolved, out.Summary)
	result.Model = out.Model
	result.Usage = out.Usage

	slog.InfoContext(ctx, "summarization complete",
		slog.String("request_id", requestID),
		slog.String("model", result.Model),
		slog.Int("summary_chars", result.Metrics.SummaryChars),
		slog.Float64("compression_ratio", result.Metrics.CompressionRatio))

	return &result, nil
}

// bound applies the byte ceiling and builds the resolved text.
func (s *Service) bound(ctx context.Context, raw string, source entity.InputSource) entity.ResolvedText {
	content, truncated := text.TruncateBytes(raw, s.Config.MaxContentBytes)
	if truncated {
		slog.WarnContext(ctx, "input exceeds size ceiling, keeping leading portion",
			slog.String("request_id", requestid.FromContext(ctx)),
			slog.Int("original_bytes", len(raw)),
			slog.Int("kept_bytes", len(content)))
	}

	return entity.NewResolvedText(content, source, truncated)
}

// resolveRaw turns the request into the text the pipeline operates on.
func (s *Service) resolveRaw(ctx context.Context, req entity.InputRequest) (string, error) {
	switch req.Source {
	case entity.SourceInline:
		return req.Value, nil
	case entity.SourceStdin:
		return s.resolveStdin()
	case entity.SourceFile:
		return s.resolveFile(req.Value)
	case entity.SourceURL:
		return s.resolveURL(ctx, req.Value)
	default:
		return "", fmt.Errorf("%w: unknown input source %q", ErrNoInput, req.Source)
	}
}

// resolveStdin reads standard input to EOF.
func (s *Service) resolveStdin() (string, error) {
	in := s.Stdin
	if in == nil {
		in = os.Stdin
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("%w: reading standard input: %v", ErrNoInput, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: standard input was empty", ErrNoInput)
	}

	return string(data), nil
}

// resolveFile reads a local file as UTF-8 text.
func (s *Service) resolveFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- パスはユーザー指定の入力ファイル
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrFileNotFound, path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	return string(data), nil
}

// resolveURL fetches the page and extracts its readable text. The fetcher
// owns URL validation, SSRF checks, and redirect limits; any failure in that
// chain surfaces as a single fetch failure here.
func (s *Service) resolveURL(ctx context.Context, rawURL string) (string, error) {
	if s.Fetcher == nil {
		return "", fmt.Errorf("%w: no content fetcher configured", ErrFetchFailure)
	}

	content, err := s.Fetcher.FetchContent(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %v", ErrFetchFailure, ErrNoReadableContent)
	}

	return content, nil
}

// record reports the request outcome to the monitor.
func (s *Service) record(requestID string, source entity.InputSource, result *entity.SummaryResult, duration time.Duration, err error) {
	if s.Monitor == nil {
		return
	}

	rm := monitoring.RequestMetrics{
		RequestID: requestID,
		Source:    string(source),
		Duration:  duration,
		Success:   err == nil,
	}
	if err != nil {
		rm.ErrorKind = Kind(err)
	}
	if result != nil {
		rm.Model = result.Model
		rm.InputChars = result.Original.Chars
		rm.OutputChars = result.Metrics.SummaryChars
		rm.InputTokens = result.Usage.InputTokens
		rm.OutputTokens = result.Usage.OutputTokens
	}

	s.Monitor.Record(rm)
}

// getOrCreateRequestID returns the request ID from the context, generating
// and storing a new one when the context has none.
func getOrCreateRequestID(ctx context.Context) (context.Context, string) {
	if id := requestid.FromContext(ctx); id != "" {
		return ctx, id
	}
	id := requestid.New()
	return requestid.WithRequestID(ctx, id), id
}
