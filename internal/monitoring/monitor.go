package monitoring

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// maxHistory bounds the in-memory request history.
const maxHistory = 1000

// Monitor records summarization requests. It is safe for concurrent use by
// the web variant; the CLI uses it single-threaded.
type Monitor struct {
	mu      sync.Mutex
	history []RequestMetrics

	logPath string
	logFile *os.File
	logger  *slog.Logger
}

// NewMonitor creates a Monitor that appends one JSON line per request to
// logPath. An empty logPath keeps the monitor memory-only.
func NewMonitor(logPath string) (*Monitor, error) {
	m := &Monitor{logPath: logPath}

	if logPath != "" {
		// #nosec G304 -- path comes from configuration, not user input
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open request log: %w", err)
		}
		m.logFile = file
		m.logger = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return m, nil
}

// Close releases the request log file.
func (m *Monitor) Close() error {
	if m.logFile == nil {
		return nil
	}
	return m.logFile.Close()
}

// Record stores one request in the history and appends it to the request log.
// Timestamp, DurationMS, and CostUSD are filled in when the caller left them
// zero.
func (m *Monitor) Record(rm RequestMetrics) {
	if rm.Timestamp.IsZero() {
		rm.Timestamp = time.Now()
	}
	if rm.DurationMS == 0 && rm.Duration > 0 {
		rm.DurationMS = rm.Duration.Milliseconds()
	}
	if rm.CostUSD == 0 {
		rm.CostUSD = EstimateCost(rm.Model, rm.InputTokens, rm.OutputTokens)
	}

	m.remember(rm)

	if m.logger != nil {
		m.logger.Info("request",
			slog.String("request_id", rm.RequestID),
			slog.String("model", rm.Model),
			slog.String("source", rm.Source),
			slog.Int("input_chars", rm.InputChars),
			slog.Int("output_chars", rm.OutputChars),
			slog.Int64("input_tokens", rm.InputTokens),
			slog.Int64("output_tokens", rm.OutputTokens),
			slog.Int64("duration_ms", rm.DurationMS),
			slog.Float64("cost_usd", rm.CostUSD),
			slog.Bool("success", rm.Success),
			slog.String("error_kind", rm.ErrorKind))
	}
}

// remember appends to the bounded history without touching the request log.
func (m *Monitor) remember(rm RequestMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, rm)
	if len(m.history) > maxHistory {
		// 最大件数を超えたら古いものから捨てる
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// Snapshot aggregates the recorded history into analytics.
func (m *Monitor) Snapshot() Analytics {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := Analytics{
		RequestsByModel:  make(map[string]int),
		RequestsBySource: make(map[string]int),
		ErrorsByKind:     make(map[string]int),
		HourlyUsage:      make(map[string]int),
	}

	var totalDuration int64
	for _, rm := range m.history {
		a.TotalRequests++
		if rm.Success {
			a.SuccessfulRequests++
		} else {
			a.FailedRequests++
			if rm.ErrorKind != "" {
				a.ErrorsByKind[rm.ErrorKind]++
			}
		}
		a.TotalInputTokens += rm.InputTokens
		a.TotalOutputTokens += rm.OutputTokens
		a.TotalCostUSD += rm.CostUSD
		totalDuration += rm.DurationMS
		if rm.Model != "" {
			a.RequestsByModel[rm.Model]++
		}
		if rm.Source != "" {
			a.RequestsBySource[rm.Source]++
		}
		a.HourlyUsage[rm.Timestamp.Format("15")]++
	}

	if a.TotalRequests > 0 {
		a.AverageDurationMS = totalDuration / int64(a.TotalRequests)
	}

	return a
}

// Insights derives short human-readable observations from the current
// analytics. Remediation hints for error kinds are added by the renderer.
func (m *Monitor) Insights() []string {
	a := m.Snapshot()
	if a.TotalRequests == 0 {
		return []string{"No requests recorded yet."}
	}

	insights := []string{
		fmt.Sprintf("Success rate: %.1f%% (%d/%d requests)",
			a.SuccessRate(), a.SuccessfulRequests, a.TotalRequests),
	}

	if a.SuccessRate() < 90 {
		insights = append(insights, "Success rate is below 90%. Check the dominant error kind.")
	}
	if kind, count := a.TopError(); kind != "" {
		insights = append(insights, fmt.Sprintf("Most frequent error: %s (%d times)", kind, count))
	}
	if a.AverageDurationMS > 5000 {
		insights = append(insights, "Average response time is above 5s. A smaller model may respond faster.")
	}
	if a.TotalCostUSD > 0 {
		insights = append(insights, fmt.Sprintf("Estimated cost: $%.4f total, $%.4f per request",
			a.TotalCostUSD, a.TotalCostUSD/float64(a.TotalRequests)))
	}

	return insights
}

// exportPayload is the JSON document ExportJSON writes.
type exportPayload struct {
	GeneratedAt time.Time `json:"generated_at"`
	Analytics   Analytics `json:"analytics"`
	Insights    []string  `json:"insights"`
}

// ExportJSON writes the current analytics and insights to path.
func (m *Monitor) ExportJSON(path string) error {
	payload := exportPayload{
		GeneratedAt: time.Now(),
		Analytics:   m.Snapshot(),
		Insights:    m.Insights(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write analytics export: %w", err)
	}

	return nil
}

// requestLogLine mirrors the JSON lines Record writes, for replay.
type requestLogLine struct {
	Time         time.Time `json:"time"`
	Msg          string    `json:"msg"`
	RequestID    string    `json:"request_id"`
	Model        string    `json:"model"`
	Source       string    `json:"source"`
	InputChars   int       `json:"input_chars"`
	OutputChars  int       `json:"output_chars"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	DurationMS   int64     `json:"duration_ms"`
	CostUSD      float64   `json:"cost_usd"`
	Success      bool      `json:"success"`
	ErrorKind    string    `json:"error_kind"`
}

// LoadRequestLog replays the request log file into the in-memory history so a
// fresh process can show analytics for past runs. Lines that are not request
// records are skipped. Returns the number of requests loaded.
func (m *Monitor) LoadRequestLog() (int, error) {
	if m.logPath == "" {
		return 0, nil
	}

	// #nosec G304 -- path comes from configuration, not user input
	file, err := os.Open(m.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open request log: %w", err)
	}
	defer file.Close()

	loaded := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line requestLogLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if line.Msg != "request" {
			continue
		}

		m.remember(RequestMetrics{
			Timestamp:    line.Time,
			RequestID:    line.RequestID,
			Model:        line.Model,
			Source:       line.Source,
			InputChars:   line.InputChars,
			OutputChars:  line.OutputChars,
			InputTokens:  line.InputTokens,
			OutputTokens: line.OutputTokens,
			DurationMS:   line.DurationMS,
			CostUSD:      line.CostUSD,
			Success:      line.Success,
			ErrorKind:    line.ErrorKind,
		})
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("scan request log: %w", err)
	}

	return loaded, nil
}
