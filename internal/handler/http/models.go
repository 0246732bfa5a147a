package http

import (
	"net/http"
	"time"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/monitoring"
)

// SummarizeRequest is the JSON body accepted by the summarize endpoint.
// Exactly one of Text and URL must be set. File uploads use multipart form
// data instead, with the content in a "file" field and the model in an
// optional "model" field.
type SummarizeRequest struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
	// Model picks one of the configured models; empty uses the default.
	Model string `json:"model,omitempty"`
}

// SummarizeResponse is the JSON representation of a completed summarization.
// SummaryHTML carries the Markdown summary rendered for direct display in
// the web UI; it is empty when rendering fails.
type SummarizeResponse struct {
	Summary     string                `json:"summary"`
	SummaryHTML string                `json:"summary_html,omitempty"`
	Metrics     entity.SummaryMetrics `json:"metrics"`
	Model       string                `json:"model"`
	Usage       entity.Usage          `json:"usage"`
	Source      string                `json:"source"`
	Truncated   bool                  `json:"truncated"`
	DurationMS  int64                 `json:"duration_ms"`
	RequestID   string                `json:"request_id,omitempty"`
}

// ErrorDetail carries the stable error kind with a human-oriented message
// and remediation hint.
type ErrorDetail struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

// ErrorResponse is the JSON error body for the summarize and analytics APIs.
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// AnalyticsResponse is the aggregate usage view served to the web UI. The
// embedded analytics fields flatten into the top-level JSON object.
type AnalyticsResponse struct {
	monitoring.Analytics
	SuccessRate float64  `json:"success_rate"`
	Insights    []string `json:"insights,omitempty"`
}

// ModelOption describes one selectable model.
type ModelOption struct {
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

// ModelsResponse lists the models the summarize endpoint accepts.
type ModelsResponse struct {
	Models []ModelOption `json:"models"`
}

// ExportResponse reports where an analytics export was written.
type ExportResponse struct {
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// statusForKind maps a pipeline error kind onto an HTTP status code.
// Input problems are client errors, provider and fetch problems surface as
// gateway errors, and a missing credential means the service itself is not
// usable yet.
func statusForKind(kind string) int {
	switch kind {
	case "no_input", "text_too_short", "empty_file", "file_not_found":
		return http.StatusBadRequest
	case "rate_limited":
		return http.StatusTooManyRequests
	case "missing_credential":
		return http.StatusServiceUnavailable
	case "invalid_credential", "fetch_failure", "service_failure":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
