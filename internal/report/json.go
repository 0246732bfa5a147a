package report

import (
	"encoding/json"
	"io"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/usecase/summarize"
)

// resultEnvelope is the stable JSON shape emitted for successful runs.
type resultEnvelope struct {
	Summary    string                `json:"summary"`
	Metrics    entity.SummaryMetrics `json:"metrics"`
	Model      string                `json:"model"`
	Usage      entity.Usage          `json:"usage"`
	Source     string                `json:"source"`
	Truncated  bool                  `json:"truncated"`
	DurationMS int64                 `json:"duration_ms"`
}

// errorEnvelope is the stable JSON shape emitted for failures.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Remediation string `json:"remediation"`
}

// JSONReporter renders results and errors as indented JSON for scripting.
type JSONReporter struct {
	out io.Writer
}

// NewJSONReporter creates a reporter writing to out.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

// Result writes the result envelope.
func (r *JSONReporter) Result(result *entity.SummaryResult) {
	r.write(resultEnvelope{
		Summary:    result.Summary,
		Metrics:    result.Metrics,
		Model:      result.Model,
		Usage:      result.Usage,
		Source:     string(result.Original.Source),
		Truncated:  result.Original.Truncated,
		DurationMS: result.Duration.Milliseconds(),
	})
}

// Error writes the error envelope with the stable kind name and the
// remediation hint.
func (r *JSONReporter) Error(err error) {
	r.write(errorEnvelope{Error: errorBody{
		Kind:        summarize.Kind(err),
		Message:     err.Error(),
		Remediation: summarize.Remediation(err),
	}})
}

// Analytics writes the aggregate view with appended insights.
func (r *JSONReporter) Analytics(a monitoring.Analytics, insights []string) {
	r.write(struct {
		monitoring.Analytics
		Insights []string `json:"insights,omitempty"`
	}{Analytics: a, Insights: insights})
}

func (r *JSONReporter) write(v any) {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
