// Package observability provides the observability infrastructure shared by
// the CLI and the web server: structured logging, SLO gauges, and
// OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging with slog, with request IDs pulled from the
//     context
//   - slo: Prometheus gauges tracking the service level objectives
//   - tracing: OpenTelemetry spans around the pipeline stages
//
// Example usage:
//
//	import "summary-lab/internal/observability/logging"
//
//	func main() {
//	    slog.SetDefault(logging.NewLogger())
//	    slog.Info("application started")
//	}
package observability
