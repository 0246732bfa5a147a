// Package main provides the web variant: the embedded single-page UI and the
// JSON summarization API behind it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"summary-lab/internal/config"
	"summary-lab/internal/infra/fetcher"
	"summary-lab/internal/infra/summarizer"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/observability/logging"
	"summary-lab/internal/observability/slo"
	"summary-lab/internal/observability/tracing"
	"summary-lab/internal/usecase/summarize"

	hhttp "summary-lab/internal/handler/http"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/handler/http/web"
)

func main() {
	// .env があれば読む。無くても環境変数だけで動く
	_ = godotenv.Load()

	logger := initLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	webCfg, err := config.LoadWebConfig(cfg.Web.ConfigFile)
	if err != nil {
		logger.Error("failed to load web configuration", slog.Any("error", err))
		os.Exit(1)
	}

	version := getVersion()
	components := setupServer(logger, cfg, webCfg, version)

	runServer(logger, components, cfg, webCfg, version)
}

// initLogger initializes and returns the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler http.Handler
	Monitor *monitoring.Monitor
	Cron    *cron.Cron
}

// setupServer wires the pipelines, the handler tree, and the background
// snapshot job.
func setupServer(logger *slog.Logger, cfg *config.Config, webCfg *config.WebConfig, version string) *ServerComponents {
	monitor := initMonitor(logger, cfg)

	// 全パイプラインでゲートとモニタを共有する
	gate := monitoring.NewRequestGate(cfg.RateLimit.PerMinute, cfg.RateLimit.PerHour)
	contentFetcher := fetcher.NewHTTPFetcher(fetcher.Config{
		Timeout:        cfg.Fetch.Timeout,
		UserAgent:      cfg.Fetch.UserAgent,
		MaxRedirects:   cfg.Fetch.MaxRedirects,
		MaxBodySize:    cfg.Fetch.MaxBodyBytes,
		DenyPrivateIPs: cfg.Fetch.DenyPrivateIPs,
	})

	defaultModel := defaultModelName(cfg.Provider)
	runners, breaker := buildRunners(logger, cfg, webCfg, defaultModel, contentFetcher, gate, monitor)

	credentialOK := cfg.Provider.Name == config.ProviderNoop || cfg.Provider.APIKey != ""
	if !credentialOK {
		logger.Warn("provider credential is not configured; summarize requests will fail",
			slog.String("provider", cfg.Provider.Name))
	}

	mux := http.NewServeMux()
	hhttp.Register(mux, hhttp.RegisterConfig{
		Svc:           runners[defaultModel],
		Monitor:       monitor,
		Provider:      cfg.Provider.Name,
		CredentialOK:  credentialOK,
		Breaker:       breaker,
		Version:       version,
		DefaultModel:  defaultModel,
		Models:        runners,
		ExportPath:    cfg.Observability.ExportFile,
		EnableMetrics: cfg.Observability.EnableMetrics,
		UI: web.Config{
			Title:         webCfg.Web.UI.Title,
			ShowAnalytics: webCfg.Web.UI.ShowAnalytics && monitor != nil,
		},
	})

	handler := applyMiddleware(logger, mux, cfg, webCfg)
	snapshotCron := startAnalyticsSnapshots(logger, monitor, webCfg.Web.Analytics.SnapshotSchedule)

	return &ServerComponents{
		Handler: handler,
		Monitor: monitor,
		Cron:    snapshotCron,
	}
}

// initMonitor opens the request log backed monitor and replays its history.
// Returns nil when request analytics are disabled.
func initMonitor(logger *slog.Logger, cfg *config.Config) *monitoring.Monitor {
	if cfg.Observability.RequestLogFile == "" {
		logger.Info("request analytics disabled")
		return nil
	}

	monitor, err := monitoring.NewMonitor(cfg.Observability.RequestLogFile)
	if err != nil {
		logger.Error("failed to open the request log", slog.Any("error", err))
		os.Exit(1)
	}

	if n, err := monitor.LoadRequestLog(); err != nil {
		logger.Warn("failed to replay the request log", slog.Any("error", err))
	} else if n > 0 {
		logger.Info("request log replayed", slog.Int("entries", n))
	}
	return monitor
}

// defaultModelName returns the model identifier the default pipeline runs.
func defaultModelName(p config.ProviderConfig) string {
	if p.Model != "" {
		return p.Model
	}
	switch p.Name {
	case config.ProviderOpenAI:
		return summarizer.DefaultOpenAIModel
	case config.ProviderNoop:
		return "noop"
	default:
		return summarizer.DefaultClaudeModel
	}
}

// buildRunners builds one pipeline per selectable model. All pipelines share
// the fetcher, the request gate, and the monitor; only the provider model
// differs. The returned breaker belongs to the default model's provider.
func buildRunners(
	logger *slog.Logger,
	cfg *config.Config,
	webCfg *config.WebConfig,
	defaultModel string,
	contentFetcher summarize.ContentFetcher,
	gate *monitoring.RequestGate,
	monitor *monitoring.Monitor,
) (map[string]hhttp.Runner, hhttp.BreakerStatus) {
	names := append([]string{defaultModel}, webCfg.Web.Models...)

	runners := make(map[string]hhttp.Runner, len(names))
	var breaker hhttp.BreakerStatus

	for _, name := range names {
		if _, ok := runners[name]; ok {
			continue
		}

		client, err := summarizer.FromConfig(cfg.Provider, name)
		if err != nil {
			// 資格情報が無くても起動は続け、リクエスト時に正しい種別で失敗させる
			logger.Warn("summarizer unavailable",
				slog.String("model", name),
				slog.Any("error", err))
			client = summarizer.NewUnconfigured(err)
		}
		if name == defaultModel {
			breaker = providerBreaker(client)
		}

		// 同一入力の同時送信は1回のプロバイダ呼び出しにまとめる
		svc := summarize.NewService(contentFetcher, summarizer.NewDeduped(client))
		svc.Gate = gate
		svc.Monitor = monitor
		svc.Config = summarize.Config{
			MinChars:        cfg.Pipeline.MinChars,
			MaxContentBytes: cfg.Pipeline.MaxContentBytes,
		}
		runners[name] = svc

		logger.Info("pipeline ready", slog.String("model", name))
	}

	return runners, breaker
}

// providerBreaker returns the circuit breaker of the given adapter, or nil
// for adapters without one.
func providerBreaker(s summarize.Summarizer) hhttp.BreakerStatus {
	switch p := s.(type) {
	case *summarizer.Claude:
		return p.Breaker()
	case *summarizer.OpenAI:
		return p.Breaker()
	default:
		return nil
	}
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Tracing → Rate Limit → Recovery → Logging →
// Security Headers → Input Validation → Timeout → Body Limit → Metrics.
// Metrics stays innermost so it sees the route pattern the mux matched.
func applyMiddleware(logger *slog.Logger, handler http.Handler, cfg *config.Config, webCfg *config.WebConfig) http.Handler {
	// リクエスト全体の猶予は fetch と provider の両段の合計
	requestTimeout := cfg.Fetch.Timeout + cfg.Provider.Timeout

	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(webCfg.Web.Limits.MaxBodyBytes)(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.SecurityHeaders()(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.NewRateLimiter(webCfg.Web.Limits.PerIPPerMinute, time.Minute).Limit(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(webCfg.Web.Server.AllowedOrigins)(chain)

	return chain
}

// startAnalyticsSnapshots schedules the periodic analytics snapshot: one log
// line plus the SLO gauge refresh. Returns nil when analytics are disabled.
func startAnalyticsSnapshots(logger *slog.Logger, monitor *monitoring.Monitor, schedule string) *cron.Cron {
	if monitor == nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		a := monitor.Snapshot()
		logger.Info("analytics snapshot",
			slog.Int("total_requests", a.TotalRequests),
			slog.Int("successful", a.SuccessfulRequests),
			slog.Int("failed", a.FailedRequests),
			slog.Float64("success_rate", a.SuccessRate()),
			slog.Int64("avg_duration_ms", a.AverageDurationMS),
			slog.Float64("total_cost_usd", a.TotalCostUSD))
		updateSLOMetrics(a)
	})
	if err != nil {
		logger.Error("invalid snapshot schedule",
			slog.String("schedule", schedule),
			slog.Any("error", err))
		os.Exit(1)
	}

	// 初回はスケジュールを待たずにゲージへ反映する
	updateSLOMetrics(monitor.Snapshot())
	c.Start()

	logger.Info("analytics snapshots scheduled", slog.String("schedule", schedule))
	return c
}

// updateSLOMetrics refreshes the SLO gauges from one analytics snapshot.
func updateSLOMetrics(a monitoring.Analytics) {
	slo.UpdateSuccessRate(a.SuccessRate() / 100)
	slo.UpdateAverageLatency(float64(a.AverageDurationMS) / 1000)
	if a.TotalRequests > 0 {
		slo.UpdateCostPerRequest(a.TotalCostUSD / float64(a.TotalRequests))
	}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, cfg *config.Config, webCfg *config.WebConfig, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris 対策
		ReadTimeout:       webCfg.ReadTimeout(),
		WriteTimeout:      webCfg.WriteTimeout(),
		IdleTimeout:       webCfg.IdleTimeout(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("provider", cfg.Provider.Name),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	if components.Cron != nil {
		// 実行中のスナップショットが終わるのを待つ
		<-components.Cron.Stop().Done()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), webCfg.ShutdownTimeout())
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	if components.Monitor != nil {
		if err := components.Monitor.Close(); err != nil {
			logger.Error("failed to close the request log", slog.Any("error", err))
		}
	}
	logger.Info("server stopped")
}
