package http

import (
	"net/http"
	"sort"

	"summary-lab/internal/handler/http/web"
	"summary-lab/internal/monitoring"
)

// RegisterConfig carries everything the handler tree needs. Monitor and
// Breaker may be nil; the affected endpoints degrade instead of failing.
type RegisterConfig struct {
	Svc          Runner
	Monitor      *monitoring.Monitor
	Provider     string
	CredentialOK bool
	Breaker      BreakerStatus
	Version      string

	// DefaultModel is the model Svc runs; Models maps every selectable
	// model identifier to its pipeline.
	DefaultModel string
	Models       map[string]Runner

	// ExportPath is where POST /api/analytics/export writes. Empty
	// disables the endpoint.
	ExportPath string

	// EnableMetrics exposes the Prometheus endpoint.
	EnableMetrics bool

	UI web.Config
}

// Register registers the API, the embedded UI, and the operational endpoints
// with the given mux.
func Register(mux *http.ServeMux, cfg RegisterConfig) {
	mux.Handle("POST   /api/summarize", SummarizeHandler{Svc: cfg.Svc, Models: cfg.Models})
	mux.Handle("GET    /api/models", ModelsHandler{Default: cfg.DefaultModel, Names: modelNames(cfg.Models)})
	mux.Handle("GET    /api/analytics", AnalyticsHandler{Monitor: cfg.Monitor})
	mux.Handle("POST   /api/analytics/export", AnalyticsExportHandler{Monitor: cfg.Monitor, Path: cfg.ExportPath})

	mux.Handle("GET    /health", &HealthHandler{
		Provider:     cfg.Provider,
		CredentialOK: cfg.CredentialOK,
		Breaker:      cfg.Breaker,
		Monitor:      cfg.Monitor,
		Version:      cfg.Version,
	})
	mux.Handle("GET    /ready", &ReadyHandler{CredentialOK: cfg.CredentialOK})
	mux.Handle("GET    /live", &LiveHandler{})

	if cfg.EnableMetrics {
		mux.Handle("GET    /metrics", MetricsHandler())
	}

	mux.Handle("GET    /{$}", web.Index(cfg.UI))
}

// modelNames returns the selectable model identifiers in sorted order.
func modelNames(models map[string]Runner) []string {
	if len(models) == 0 {
		return nil
	}
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
