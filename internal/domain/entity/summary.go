package entity

import (
	"math"
	"time"

	"summary-lab/internal/utils/text"
)

// ResolvedText is the single owned string the pipeline operates on, together
// with the input kind that produced it and its length in characters. It is
// created by the resolver/fetcher and not mutated afterwards.
type ResolvedText struct {
	Content string
	Source  InputSource
	// Chars is the content length in Unicode characters, not bytes.
	Chars int
	// Truncated reports that the content exceeded the byte ceiling and only
	// the leading portion was kept.
	Truncated bool
}

// NewResolvedText builds a ResolvedText, computing the character count.
func NewResolvedText(content string, source InputSource, truncated bool) ResolvedText {
	return ResolvedText{
		Content:   content,
		Source:    source,
		Chars:     text.CountRunes(content),
		Truncated: truncated,
	}
}

// SummaryMetrics holds the derived presentation metrics for a summary.
type SummaryMetrics struct {
	OriginalChars int `json:"original_chars"`
	SummaryChars  int `json:"summary_chars"`
	// CompressionRatio is summary length / original length * 100,
	// rounded to one decimal place.
	CompressionRatio float64 `json:"compression_ratio"`
	CharactersSaved  int     `json:"characters_saved"`
}

// Usage holds the token usage the provider reported for one request.
// Zero values mean the provider did not report usage.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// SummaryResult holds the original resolved text, the generated summary, and
// the derived metrics. It exists for display only and is discarded at process
// exit; nothing is persisted.
type SummaryResult struct {
	Original ResolvedText   `json:"-"`
	Summary  string         `json:"summary"`
	Metrics  SummaryMetrics `json:"metrics"`
	Model    string         `json:"model"`
	Usage    Usage          `json:"usage"`
	Duration time.Duration  `json:"-"`
}

// NewSummaryResult computes metrics for a completed summarization.
func NewSummaryResult(original ResolvedText, summary string) SummaryResult {
	summaryChars := text.CountRunes(summary)

	var ratio float64
	if original.Chars > 0 {
		// 要約率 = 要約文字数 / 元文字数 * 100 (小数第1位で丸め)
		ratio = math.Round(float64(summaryChars)/float64(original.Chars)*1000) / 10
	}

	return SummaryResult{
		Original: original,
		Summary:  summary,
		Metrics: SummaryMetrics{
			OriginalChars:    original.Chars,
			SummaryChars:     summaryChars,
			CompressionRatio: ratio,
			CharactersSaved:  original.Chars - summaryChars,
		},
	}
}
