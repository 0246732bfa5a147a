// Package http provides HTTP handlers and middleware for the summarization
// web application. It includes the summarize and analytics API handlers,
// health check endpoints, Prometheus metrics collection, and various
// middleware components.
package http

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"summary-lab/internal/handler/http/respond"
	"summary-lab/internal/monitoring"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
	Version   string                 `json:"version,omitempty"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// BreakerStatus reports the live state of a provider circuit breaker.
type BreakerStatus interface {
	Name() string
	State() gobreaker.State
}

// HealthHandler reports whether the service can currently summarize: the
// provider credential must be configured and its circuit breaker must not be
// open. The analytics check is informational and never fails the endpoint.
type HealthHandler struct {
	// Provider is the configured provider name, shown in the check output.
	Provider string

	// CredentialOK is whether the provider has the credential it needs.
	// The noop provider needs none.
	CredentialOK bool

	// Breaker is the provider's circuit breaker. Nil when the provider has
	// no breaker, as with noop.
	Breaker BreakerStatus

	// Monitor is the analytics recorder. Nil when analytics are disabled.
	Monitor *monitoring.Monitor

	Version string
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	healthy := true

	// プロバイダの資格情報が設定されているか
	if h.CredentialOK {
		checks["provider"] = CheckStatus{
			Status:  "healthy",
			Message: h.Provider,
		}
	} else {
		healthy = false
		checks["provider"] = CheckStatus{
			Status:  "unhealthy",
			Message: "api key not configured",
			Details: map[string]any{"provider": h.Provider},
		}
	}

	// サーキットブレーカーが開いている間は要約リクエストが即座に失敗する
	if h.Breaker != nil {
		state := h.Breaker.State()
		check := CheckStatus{
			Status:  "healthy",
			Message: state.String(),
			Details: map[string]any{"circuit": h.Breaker.Name()},
		}
		if state == gobreaker.StateOpen {
			healthy = false
			check.Status = "unhealthy"
		}
		checks["circuit"] = check
	}

	if h.Monitor != nil {
		snap := h.Monitor.Snapshot()
		checks["analytics"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"recorded_requests": snap.TotalRequests,
			},
		}
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	code := http.StatusOK
	if !healthy {
		response.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	// ヘルスチェック結果はキャッシュさせない
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, response)
}

// ReadyHandler reports whether the service is ready to accept traffic.
// Without a provider credential every summarize request would fail, so the
// endpoint reports not ready until one is configured.
type ReadyHandler struct {
	CredentialOK bool
}

// ServeHTTP handles the readiness check request.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if !h.CredentialOK {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "provider credential missing",
		})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// LiveHandler reports whether the process is alive. It always succeeds while
// the server can still serve requests.
type LiveHandler struct{}

// ServeHTTP handles the liveness check request.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
