package monitoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_RecordAndSnapshot(t *testing.T) {
	monitor, err := NewMonitor("")
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	monitor.Record(RequestMetrics{
		Timestamp:    base,
		RequestID:    "req-1",
		Model:        "claude-3-5-haiku-20241022",
		Source:       "inline",
		InputTokens:  1000,
		OutputTokens: 200,
		DurationMS:   1200,
		Success:      true,
	})
	monitor.Record(RequestMetrics{
		Timestamp:  base.Add(30 * time.Minute),
		RequestID:  "req-2",
		Model:      "claude-3-5-haiku-20241022",
		Source:     "url",
		DurationMS: 400,
		Success:    false,
		ErrorKind:  "fetch_failure",
	})
	monitor.Record(RequestMetrics{
		Timestamp:    base.Add(2 * time.Hour),
		RequestID:    "req-3",
		Model:        "gpt-4o-mini",
		Source:       "file",
		InputTokens:  500,
		OutputTokens: 100,
		DurationMS:   800,
		Success:      true,
	})

	got := monitor.Snapshot()

	want := Analytics{
		TotalRequests:      3,
		SuccessfulRequests: 2,
		FailedRequests:     1,
		TotalInputTokens:   1500,
		TotalOutputTokens:  300,
		TotalCostUSD:       got.TotalCostUSD, // checked separately below
		AverageDurationMS:  800,
		RequestsByModel: map[string]int{
			"claude-3-5-haiku-20241022": 2,
			"gpt-4o-mini":               1,
		},
		RequestsBySource: map[string]int{"inline": 1, "url": 1, "file": 1},
		ErrorsByKind:     map[string]int{"fetch_failure": 1},
		HourlyUsage:  map[string]int{"14": 2, "16": 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	// コストはモデル単価から自動計算される
	expectedCost := EstimateCost("claude-3-5-haiku-20241022", 1000, 200) +
		EstimateCost("gpt-4o-mini", 500, 100)
	assert.InDelta(t, expectedCost, got.TotalCostUSD, 1e-12)
}

func TestMonitor_HistoryBounded(t *testing.T) {
	monitor, err := NewMonitor("")
	require.NoError(t, err)

	for i := 0; i < maxHistory+50; i++ {
		monitor.Record(RequestMetrics{Success: true, Model: "claude-3-5-haiku-20241022"})
	}

	assert.Equal(t, maxHistory, monitor.Snapshot().TotalRequests)
}

func TestMonitor_SuccessRateAndTopError(t *testing.T) {
	a := Analytics{
		TotalRequests:      10,
		SuccessfulRequests: 9,
		FailedRequests:     1,
		ErrorsByKind:       map[string]int{"rate_limited": 3, "fetch_failure": 5},
	}

	assert.Equal(t, 90.0, a.SuccessRate())

	kind, count := a.TopError()
	assert.Equal(t, "fetch_failure", kind)
	assert.Equal(t, 5, count)

	empty := Analytics{}
	assert.Equal(t, 0.0, empty.SuccessRate())
	kind, count = empty.TopError()
	assert.Empty(t, kind)
	assert.Zero(t, count)
}

func TestMonitor_RequestLogRoundTrip(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "requests.log")

	// Arrange: 1プロセス目で2件記録する
	first, err := NewMonitor(logPath)
	require.NoError(t, err)
	first.Record(RequestMetrics{
		RequestID:    "req-1",
		Model:        "claude-3-5-haiku-20241022",
		Source:       "inline",
		InputChars:   300,
		OutputChars:  150,
		InputTokens:  80,
		OutputTokens: 40,
		DurationMS:   900,
		Success:      true,
	})
	first.Record(RequestMetrics{
		RequestID: "req-2",
		Model:     "claude-3-5-haiku-20241022",
		Source:    "url",
		Success:   false,
		ErrorKind: "rate_limited",
	})
	require.NoError(t, first.Close())

	// Act: 2プロセス目がログを再生する
	second, err := NewMonitor(logPath)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.LoadRequestLog()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	got := second.Snapshot()
	assert.Equal(t, 2, got.TotalRequests)
	assert.Equal(t, 1, got.SuccessfulRequests)
	assert.Equal(t, int64(80), got.TotalInputTokens)
	assert.Equal(t, map[string]int{"rate_limited": 1}, got.ErrorsByKind)

	// Assert: 再生してもログファイルが二重に増えないこと
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1
	assert.Equal(t, 2, lines)
}

func TestMonitor_LoadRequestLog_MissingFile(t *testing.T) {
	monitor, err := NewMonitor(filepath.Join(t.TempDir(), "never-written.log"))
	require.NoError(t, err)
	defer monitor.Close()

	loaded, err := monitor.LoadRequestLog()

	assert.NoError(t, err)
	assert.Zero(t, loaded)
}

func TestMonitor_ExportJSON(t *testing.T) {
	exportPath := filepath.Join(t.TempDir(), "analytics.json")
	monitor, err := NewMonitor("")
	require.NoError(t, err)

	monitor.Record(RequestMetrics{
		Model:        "claude-3-5-haiku-20241022",
		InputTokens:  1000,
		OutputTokens: 100,
		Success:      true,
	})

	require.NoError(t, monitor.ExportJSON(exportPath))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var payload struct {
		GeneratedAt time.Time `json:"generated_at"`
		Analytics   Analytics `json:"analytics"`
		Insights    []string  `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.False(t, payload.GeneratedAt.IsZero())
	assert.Equal(t, 1, payload.Analytics.TotalRequests)
	assert.NotEmpty(t, payload.Insights)
}

func TestMonitor_Insights(t *testing.T) {
	t.Run("no requests", func(t *testing.T) {
		monitor, err := NewMonitor("")
		require.NoError(t, err)

		insights := monitor.Insights()

		assert.Equal(t, []string{"No requests recorded yet."}, insights)
	})

	t.Run("low success rate surfaces dominant error", func(t *testing.T) {
		monitor, err := NewMonitor("")
		require.NoError(t, err)
		monitor.Record(RequestMetrics{Success: true, Model: "claude-3-5-haiku-20241022"})
		for i := 0; i < 4; i++ {
			monitor.Record(RequestMetrics{Success: false, ErrorKind: "invalid_credential"})
		}

		insights := strings.Join(monitor.Insights(), "\n")

		assert.Contains(t, insights, "Success rate: 20.0%")
		assert.Contains(t, insights, "below 90%")
		assert.Contains(t, insights, "invalid_credential")
	})
}
