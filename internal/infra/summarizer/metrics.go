package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder defines the interface for recording summarization
// metrics. It abstracts the metrics backend so unit tests can inject a mock
// recorder instead of Prometheus, and so the same recorder serves every
// provider adapter.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in characters.
	RecordLength(length int)

	// RecordDuration records the time taken to generate a summary.
	RecordDuration(duration time.Duration)

	// RecordTokens records the token usage reported by the provider.
	RecordTokens(inputTokens, outputTokens int64)

	// RecordFailure increments the counter of failed summarization calls.
	RecordFailure()
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus.
// This is the production implementation.
type PrometheusSummaryMetrics struct {
	lengthHistogram    prometheus.Histogram
	durationHistogram  prometheus.Histogram
	inputTokenCounter  prometheus.Counter
	outputTokenCounter prometheus.Counter
	failureCounter     prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// getOrCreateCounter gets an existing counter or creates a new one if it doesn't exist
func getOrCreateCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		return promauto.NewCounter(opts)
	}
	return c
}

// NewPrometheusSummaryMetrics creates a new Prometheus-based metrics recorder.
// Uses a singleton to avoid duplicate metric registration when several
// provider adapters are constructed in the same process.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 700, 900, 1100, 1500, 2000},
			}),
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summarization_duration_seconds",
				Help:    "Time taken to generate a summary via the provider API",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			inputTokenCounter: getOrCreateCounter(prometheus.CounterOpts{
				Name: "summarization_input_tokens_total",
				Help: "Total input tokens consumed across summarization calls",
			}),
			outputTokenCounter: getOrCreateCounter(prometheus.CounterOpts{
				Name: "summarization_output_tokens_total",
				Help: "Total output tokens generated across summarization calls",
			}),
			failureCounter: getOrCreateCounter(prometheus.CounterOpts{
				Name: "summarization_failures_total",
				Help: "Total number of failed summarization calls",
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordTokens implements SummaryMetricsRecorder.RecordTokens
func (p *PrometheusSummaryMetrics) RecordTokens(inputTokens, outputTokens int64) {
	p.inputTokenCounter.Add(float64(inputTokens))
	p.outputTokenCounter.Add(float64(outputTokens))
}

// RecordFailure implements SummaryMetricsRecorder.RecordFailure
func (p *PrometheusSummaryMetrics) RecordFailure() {
	p.failureCounter.Inc()
}
