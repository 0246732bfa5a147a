package summarize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/monitoring"
)

// mockFetcher implements ContentFetcher for testing and counts calls.
type mockFetcher struct {
	calls   int
	lastURL string
	fn      func(ctx context.Context, url string) (string, error)
}

func (m *mockFetcher) FetchContent(ctx context.Context, url string) (string, error) {
	m.calls++
	m.lastURL = url
	if m.fn != nil {
		return m.fn(ctx, url)
	}
	return "fetched article text used as the default fixture body", nil
}

// mockSummarizer implements Summarizer for testing and records the text it
// was handed.
type mockSummarizer struct {
	calls    int
	lastText string
	fn       func(ctx context.Context, text string) (*ProviderOutput, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string) (*ProviderOutput, error) {
	m.calls++
	m.lastText = text
	if m.fn != nil {
		return m.fn(ctx, text)
	}
	return &ProviderOutput{Summary: "a short summary", Model: "test-model"}, nil
}

func newTestService(fetcher *mockFetcher, summarizer *mockSummarizer) *Service {
	svc := NewService(fetcher, summarizer)
	svc.Stdin = strings.NewReader("")
	return svc
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.MinChars)
	assert.Equal(t, 50000, cfg.MaxContentBytes)
}

func TestService_Run_InlineSuccess(t *testing.T) {
	input := strings.Repeat("a", 298)
	summary := strings.Repeat("s", 156)

	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{
		fn: func(ctx context.Context, text string) (*ProviderOutput, error) {
			return &ProviderOutput{
				Summary: summary,
				Model:   "claude-3-5-haiku-20241022",
				Usage:   entity.Usage{InputTokens: 100, OutputTokens: 40},
			}, nil
		},
	}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewInlineInput(input))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, summary, result.Summary)
	assert.Equal(t, "claude-3-5-haiku-20241022", result.Model)
	assert.Equal(t, 298, result.Metrics.OriginalChars)
	assert.Equal(t, 156, result.Metrics.SummaryChars)
	// 156/298*100 = 52.348... を小数第1位に丸める
	assert.Equal(t, 52.3, result.Metrics.CompressionRatio)
	assert.Equal(t, 142, result.Metrics.CharactersSaved)
	assert.Equal(t, int64(100), result.Usage.InputTokens)
	assert.Equal(t, int64(40), result.Usage.OutputTokens)
	assert.Positive(t, result.Duration)
	assert.Equal(t, input, summarizer.lastText)
	assert.Equal(t, 0, fetcher.calls)
}

func TestService_Run_TextTooShort(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "below minimum", input: "short"},
		{name: "empty string", input: ""},
		{name: "whitespace padding does not count", input: "   hi   \n\t  "},
		{name: "nine characters", input: "123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			summarizer := &mockSummarizer{}
			svc := newTestService(fetcher, summarizer)

			// Act
			result, err := svc.Run(context.Background(), entity.NewInlineInput(tt.input))

			// Assert
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrTextTooShort)
			// 短すぎる入力ではリモート呼び出しは一切行わない
			assert.Equal(t, 0, fetcher.calls)
			assert.Equal(t, 0, summarizer.calls)
		})
	}
}

func TestService_Run_ExactMinimumLength(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewInlineInput("1234567890"))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, summarizer.calls)
}

func TestService_Run_TruncatesToByteCeiling(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	input := strings.Repeat("x", 60000)

	// Act
	result, err := svc.Run(context.Background(), entity.NewInlineInput(input))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 50000, len(summarizer.lastText))
	assert.True(t, result.Original.Truncated)
	assert.Equal(t, 50000, result.Metrics.OriginalChars)
}

func TestService_Run_NoTruncationAtCeiling(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	input := strings.Repeat("x", 50000)

	// Act
	result, err := svc.Run(context.Background(), entity.NewInlineInput(input))

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Original.Truncated)
	assert.Equal(t, 50000, len(summarizer.lastText))
}

func TestService_Run_FetchFailure(t *testing.T) {
	fetcher := &mockFetcher{
		fn: func(ctx context.Context, url string) (string, error) {
			return "", ErrHTTPStatus
		},
	}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewURLInput("https://example.com/missing"))

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Equal(t, 1, fetcher.calls)
	// 取得に失敗したらプロバイダは呼ばない
	assert.Equal(t, 0, summarizer.calls)
}

func TestService_Run_FetchReturnsNoText(t *testing.T) {
	fetcher := &mockFetcher{
		fn: func(ctx context.Context, url string) (string, error) {
			return "   \n\t  ", nil
		},
	}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	_, err := svc.Run(context.Background(), entity.NewURLInput("https://example.com/blank"))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Equal(t, 0, summarizer.calls)
}

func TestService_Run_URLSuccess(t *testing.T) {
	fetched := "The fetched page body has plenty of text to summarize."
	fetcher := &mockFetcher{
		fn: func(ctx context.Context, url string) (string, error) {
			return fetched, nil
		},
	}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewURLInput("https://example.com/article"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", fetcher.lastURL)
	assert.Equal(t, fetched, summarizer.lastText)
	assert.Equal(t, entity.SourceURL, result.Original.Source)
}

func TestService_Run_NoFetcherConfigured(t *testing.T) {
	summarizer := &mockSummarizer{}
	svc := &Service{Summarizer: summarizer, Config: DefaultConfig()}

	// Act
	_, err := svc.Run(context.Background(), entity.NewURLInput("https://example.com/article"))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
}

func TestService_Run_Stdin(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	svc.Stdin = strings.NewReader("text piped in on standard input\n")

	// Act
	result, err := svc.Run(context.Background(), entity.NewStdinInput())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.SourceStdin, result.Original.Source)
	assert.Equal(t, "text piped in on standard input\n", summarizer.lastText)
}

func TestService_Run_StdinEmpty(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	svc.Stdin = strings.NewReader("  \n  ")

	// Act
	_, err := svc.Run(context.Background(), entity.NewStdinInput())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, 0, summarizer.calls)
}

func TestService_Run_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents with enough characters"), 0o600))

	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewFileInput(path))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFile, result.Original.Source)
	assert.Equal(t, "file contents with enough characters", summarizer.lastText)
}

func TestService_Run_FileErrors(t *testing.T) {
	dir := t.TempDir()

	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, []byte("  \n\t "), 0o600))

	binaryPath := filepath.Join(dir, "binary.dat")
	require.NoError(t, os.WriteFile(binaryPath, []byte{0xff, 0xfe, 0x00, 0x01}, 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.txt"), wantErr: ErrFileNotFound},
		{name: "empty file", path: emptyPath, wantErr: ErrEmptyFile},
		{name: "not UTF-8", path: binaryPath, wantErr: ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			summarizer := &mockSummarizer{}
			svc := newTestService(fetcher, summarizer)

			// Act
			_, err := svc.Run(context.Background(), entity.NewFileInput(tt.path))

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, summarizer.calls)
		})
	}
}

func TestService_Run_GateDenied(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	svc.Gate = monitoring.NewRequestGate(1, 1)

	// キャンセル済みコンテキストではゲート待ちが即座に失敗する
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := svc.Run(ctx, entity.NewInlineInput("long enough input text"))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 0, summarizer.calls)
}

func TestService_Run_SummarizerError(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{
		fn: func(ctx context.Context, text string) (*ProviderOutput, error) {
			return nil, ErrServiceFailure
		},
	}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.Run(context.Background(), entity.NewInlineInput("long enough input text"))

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrServiceFailure)
	assert.Equal(t, 1, summarizer.calls)
}

func TestService_Run_UnknownSource(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	_, err := svc.Run(context.Background(), entity.InputRequest{Source: "carrier-pigeon"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestService_Run_RecordsToMonitor(t *testing.T) {
	monitor, err := monitoring.NewMonitor("")
	require.NoError(t, err)

	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	svc.Monitor = monitor

	// Act
	_, err = svc.Run(context.Background(), entity.NewInlineInput("long enough input text"))
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), entity.NewInlineInput("short"))
	require.Error(t, err)

	// Assert
	analytics := monitor.Snapshot()
	assert.Equal(t, 2, analytics.TotalRequests)
	assert.Equal(t, 1, analytics.SuccessfulRequests)
	assert.Equal(t, 1, analytics.FailedRequests)
	assert.Equal(t, 1, analytics.ErrorsByKind["text_too_short"])
	assert.Equal(t, 1, analytics.RequestsByModel["test-model"])
}

func TestService_Run_PropagatesRequestID(t *testing.T) {
	var seen string
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{
		fn: func(ctx context.Context, text string) (*ProviderOutput, error) {
			seen = requestid.FromContext(ctx)
			return &ProviderOutput{Summary: "ok summary", Model: "test-model"}, nil
		},
	}
	svc := newTestService(fetcher, summarizer)

	ctx := requestid.WithRequestID(context.Background(), "fixed-request-id")

	// Act
	_, err := svc.Run(ctx, entity.NewInlineInput("long enough input text"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fixed-request-id", seen)
}

func TestService_Run_GeneratesRequestID(t *testing.T) {
	var seen string
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{
		fn: func(ctx context.Context, text string) (*ProviderOutput, error) {
			seen = requestid.FromContext(ctx)
			return &ProviderOutput{Summary: "ok summary", Model: "test-model"}, nil
		},
	}
	svc := newTestService(fetcher, summarizer)

	// Act
	_, err := svc.Run(context.Background(), entity.NewInlineInput("long enough input text"))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
}

func TestService_RunText_Success(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)
	monitor, err := monitoring.NewMonitor("")
	require.NoError(t, err)
	svc.Monitor = monitor

	// Act
	result, err := svc.RunText(context.Background(), "uploaded document body text", entity.SourceFile)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFile, result.Original.Source)
	assert.Equal(t, "a short summary", result.Summary)
	assert.Equal(t, 0, fetcher.calls)

	// アップロード経由でも統計にはファイル入力として残る
	snap := monitor.Snapshot()
	assert.Equal(t, 1, snap.TotalRequests)
	assert.Equal(t, 1, snap.RequestsBySource["file"])
}

func TestService_RunText_TooShort(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	_, err := svc.RunText(context.Background(), "   hi   ", entity.SourceFile)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTextTooShort)
	assert.Equal(t, 0, summarizer.calls)
}

func TestService_RunText_TruncatesToByteCeiling(t *testing.T) {
	fetcher := &mockFetcher{}
	summarizer := &mockSummarizer{}
	svc := newTestService(fetcher, summarizer)

	// Act
	result, err := svc.RunText(context.Background(), strings.Repeat("x", 60000), entity.SourceFile)

	// Assert
	require.NoError(t, err)
	assert.Len(t, summarizer.lastText, 50000)
	assert.True(t, result.Original.Truncated)
}
