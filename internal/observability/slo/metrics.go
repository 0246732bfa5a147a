// Package slo exposes the service level objectives of the summarization
// service as Prometheus gauges. The gauges are updated periodically from the
// monitoring snapshot so dashboards can compare measured values against the
// targets without recomputing them in PromQL.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the summarization service. A request spends most of its
// time in the provider round trip, so the latency target is in whole seconds
// rather than milliseconds.
const (
	// SuccessRateSLO defines the target share of summarize requests that
	// complete successfully, in percent.
	SuccessRateSLO = 99.0

	// LatencyAvgSLO defines the target average request duration in seconds.
	LatencyAvgSLO = 10.0

	// CostPerRequestSLO defines the target estimated provider cost per
	// request in USD.
	CostPerRequestSLO = 0.01
)

// SLO tracking metrics. These gauges are updated periodically (the web server
// refreshes them on a schedule) from the recorded request history.
var (
	// SLOSuccessRate tracks the measured success ratio (0-1)
	// calculated as: successful_requests / total_requests
	SLOSuccessRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_success_rate_ratio",
			Help: "Measured summarize success ratio (0-1), target: 0.99",
		},
	)

	// SLOAverageLatency tracks the measured average request duration
	// in seconds over the recorded history.
	SLOAverageLatency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_average_latency_seconds",
			Help: "Measured average summarize duration in seconds, target: 10",
		},
	)

	// SLOCostPerRequest tracks the measured average estimated cost per
	// request in USD.
	SLOCostPerRequest = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_cost_per_request_usd",
			Help: "Measured average estimated cost per request in USD, target: 0.01",
		},
	)
)

// UpdateSuccessRate updates the success rate SLO metric.
// Call this periodically with the calculated success ratio.
//
// Example calculation:
//
//	a := monitor.Snapshot()
//	slo.UpdateSuccessRate(a.SuccessRate() / 100)
func UpdateSuccessRate(ratio float64) {
	SLOSuccessRate.Set(ratio)
}

// UpdateAverageLatency updates the average latency SLO metric.
// Call this periodically with the average request duration in seconds.
//
// Example calculation:
//
//	a := monitor.Snapshot()
//	slo.UpdateAverageLatency(float64(a.AverageDurationMS) / 1000)
func UpdateAverageLatency(seconds float64) {
	SLOAverageLatency.Set(seconds)
}

// UpdateCostPerRequest updates the cost SLO metric.
// Call this periodically with the average estimated cost per request.
//
// Example calculation:
//
//	a := monitor.Snapshot()
//	if a.TotalRequests > 0 {
//		slo.UpdateCostPerRequest(a.TotalCostUSD / float64(a.TotalRequests))
//	}
func UpdateCostPerRequest(usd float64) {
	SLOCostPerRequest.Set(usd)
}
