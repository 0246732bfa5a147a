package http

import (
	"log/slog"
	"net/http"
	"time"

	"summary-lab/internal/handler/http/respond"
	"summary-lab/internal/monitoring"
)

// AnalyticsHandler serves the aggregate usage view for the web UI dashboard.
type AnalyticsHandler struct {
	Monitor *monitoring.Monitor
}

// ServeHTTP returns the aggregated request analytics and derived insights.
// 503 when the server runs without a monitor.
func (h AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Monitor == nil {
		respond.JSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: ErrorDetail{
				Kind:    "analytics_disabled",
				Message: "request analytics are not enabled on this server",
			},
		})
		return
	}

	snapshot := h.Monitor.Snapshot()
	respond.JSON(w, http.StatusOK, AnalyticsResponse{
		Analytics:   snapshot,
		SuccessRate: snapshot.SuccessRate(),
		Insights:    h.Monitor.Insights(),
	})
}

// AnalyticsExportHandler writes the current analytics to the configured
// export file. The path is fixed at startup; the client cannot choose it.
type AnalyticsExportHandler struct {
	Monitor *monitoring.Monitor
	Path    string
}

// ServeHTTP writes the current analytics snapshot to the export file and
// responds with the path written.
func (h AnalyticsExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Monitor == nil || h.Path == "" {
		respond.JSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: ErrorDetail{
				Kind:    "analytics_disabled",
				Message: "analytics export is not enabled on this server",
			},
		})
		return
	}

	if err := h.Monitor.ExportJSON(h.Path); err != nil {
		slog.ErrorContext(r.Context(), "analytics export failed",
			slog.String("path", h.Path),
			slog.String("error", err.Error()))
		respond.JSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Kind:    "export_failure",
				Message: "failed to write the analytics export",
			},
		})
		return
	}

	respond.JSON(w, http.StatusOK, ExportResponse{
		Path:        h.Path,
		GeneratedAt: time.Now(),
	})
}
