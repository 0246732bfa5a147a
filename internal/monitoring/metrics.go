// Package monitoring tracks per-request usage of the summarization pipeline:
// token counts, estimated cost, latency, and error kinds. It keeps a bounded
// in-memory history, appends one JSON line per request to a flat log file,
// and aggregates both into analytics for the CLI dashboard and the web UI.
package monitoring

import "time"

// RequestMetrics captures one summarization request, successful or not.
type RequestMetrics struct {
	Timestamp    time.Time     `json:"timestamp"`
	RequestID    string        `json:"request_id"`
	Model        string        `json:"model"`
	Source       string        `json:"source"`
	InputChars   int           `json:"input_chars"`
	OutputChars  int           `json:"output_chars"`
	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
	CostUSD      float64       `json:"cost_usd"`
	Success      bool          `json:"success"`
	// ErrorKind is the stable pipeline error kind name, empty on success.
	ErrorKind string `json:"error_kind,omitempty"`
}

// Analytics is the aggregate view over the recorded history.
type Analytics struct {
	TotalRequests      int            `json:"total_requests"`
	SuccessfulRequests int            `json:"successful_requests"`
	FailedRequests     int            `json:"failed_requests"`
	TotalInputTokens   int64          `json:"total_input_tokens"`
	TotalOutputTokens  int64          `json:"total_output_tokens"`
	TotalCostUSD       float64        `json:"total_cost_usd"`
	AverageDurationMS  int64          `json:"average_duration_ms"`
	RequestsByModel    map[string]int `json:"requests_by_model"`
	RequestsBySource   map[string]int `json:"requests_by_source"`
	ErrorsByKind       map[string]int `json:"errors_by_kind"`
	// HourlyUsage counts requests per local hour, keyed "00".."23".
	HourlyUsage map[string]int `json:"hourly_usage"`
}

// SuccessRate returns the share of successful requests in percent.
func (a Analytics) SuccessRate() float64 {
	if a.TotalRequests == 0 {
		return 0
	}
	return float64(a.SuccessfulRequests) / float64(a.TotalRequests) * 100
}

// TopError returns the most frequent error kind and its count.
// Ties resolve to the lexicographically smallest kind so output is stable.
func (a Analytics) TopError() (string, int) {
	top, count := "", 0
	for kind, n := range a.ErrorsByKind {
		if n > count || (n == count && count > 0 && kind < top) {
			top, count = kind, n
		}
	}
	return top, count
}
