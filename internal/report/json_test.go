package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-lab/internal/monitoring"
	"summary-lab/internal/usecase/summarize"
)

func TestJSONReporter_Result(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewJSONReporter(&buf)

	// Act
	reporter.Result(sampleResult())

	// Assert
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Len(t, decoded["summary"], 156)
	assert.Equal(t, "claude-3-5-haiku-20241022", decoded["model"])
	assert.Equal(t, "inline", decoded["source"])
	assert.Equal(t, false, decoded["truncated"])
	assert.Equal(t, float64(1200), decoded["duration_ms"])

	metrics, ok := decoded["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(298), metrics["original_chars"])
	assert.Equal(t, float64(156), metrics["summary_chars"])
	assert.InDelta(t, 52.3, metrics["compression_ratio"], 0.001)
	assert.Equal(t, float64(142), metrics["characters_saved"])

	usage, ok := decoded["usage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(100), usage["input_tokens"])
	assert.Equal(t, float64(40), usage["output_tokens"])
}

func TestJSONReporter_Error(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewJSONReporter(&buf)

	// Act
	reporter.Error(fmt.Errorf("%w: status 404", summarize.ErrFetchFailure))

	// Assert
	var decoded errorEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "fetch_failure", decoded.Error.Kind)
	assert.Contains(t, decoded.Error.Message, "status 404")
	assert.Contains(t, decoded.Error.Remediation, "URL is correct")
}

func TestJSONReporter_Analytics(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewJSONReporter(&buf)

	a := monitoring.Analytics{
		TotalRequests:      10,
		SuccessfulRequests: 9,
		FailedRequests:     1,
		ErrorsByKind:       map[string]int{"text_too_short": 1},
	}

	// Act
	reporter.Analytics(a, []string{"insight one"})

	// Assert
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, float64(10), decoded["total_requests"])
	assert.Equal(t, float64(9), decoded["successful_requests"])

	insights, ok := decoded["insights"].([]any)
	require.True(t, ok)
	assert.Equal(t, "insight one", insights[0])
}
