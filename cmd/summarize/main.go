// Package main provides the summarize CLI.
// Usage: summarize [--file path | --url url] [--model name] [--format text|json] [text]
//
// The text to summarize comes from exactly one source, in priority order:
// the positional argument, --file, --url, and finally standard input when
// none of the others are given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"summary-lab/internal/config"
	"summary-lab/internal/domain/entity"
	"summary-lab/internal/infra/fetcher"
	"summary-lab/internal/infra/summarizer"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/observability/logging"
	"summary-lab/internal/report"
	"summary-lab/internal/usecase/summarize"
)

// demoText is the built-in sample behind --demo, so the pipeline can be tried
// without preparing any input first.
const demoText = `Artificial Intelligence (AI) and Machine Learning (ML) represent one of the most transformative technological developments of our time. These technologies are fundamentally changing how we approach problem-solving, decision-making, and automation across virtually every industry and sector of society.

Machine Learning, a subset of AI, focuses on developing algorithms that can learn patterns from data and make predictions or decisions without being explicitly programmed for each specific task. This approach has proven remarkably effective in areas such as computer vision, natural language processing, recommendation systems, autonomous vehicles, and medical diagnosis.

The recent explosion in AI capabilities has been driven by the availability of massive datasets for training, increases in computational power, and breakthroughs in neural network architectures. The key to successful and responsible adoption lies in thoughtful design, robust testing, and ongoing collaboration between technologists and domain experts.`

func main() {
	var (
		filePath   string
		rawURL     string
		model      string
		format     string
		demo       bool
		analytics  bool
		exportPath string
		timeout    time.Duration
	)

	flag.StringVar(&filePath, "file", "", "Read the text to summarize from a file")
	flag.StringVar(&filePath, "f", "", "Read the text to summarize from a file (shorthand)")
	flag.StringVar(&rawURL, "url", "", "Fetch the text to summarize from a URL")
	flag.StringVar(&rawURL, "u", "", "Fetch the text to summarize from a URL (shorthand)")
	flag.StringVar(&model, "model", "", "Override the configured provider model")
	flag.StringVar(&format, "format", "text", "Output format: text or json")
	flag.BoolVar(&demo, "demo", false, "Summarize the built-in demo text")
	flag.BoolVar(&analytics, "analytics", false, "Print usage analytics from the request log and exit")
	flag.BoolVar(&analytics, "a", false, "Print usage analytics from the request log and exit (shorthand)")
	flag.StringVar(&exportPath, "export-analytics", "", "Write the analytics JSON to the given path and exit")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for one run")
	flag.Usage = usage
	flag.Parse()

	// Validate format
	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: Invalid format '%s' (must be 'text' or 'json')\n", format)
		fmt.Fprintln(os.Stderr, "")
		usage()
		os.Exit(1)
	}

	// .env があれば読む。無くても環境変数だけで動く
	_ = godotenv.Load()

	logger := initLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	reporter := newReporter(format)
	monitor := openMonitor(logger, cfg)

	// Analytics-only modes exit before any pipeline work
	if analytics {
		reporter.Analytics(monitor.Snapshot(), monitor.Insights())
		closeMonitor(logger, monitor)
		return
	}
	if exportPath != "" {
		if err := monitor.ExportJSON(exportPath); err != nil {
			logger.Error("failed to export analytics", slog.Any("error", err))
			fmt.Fprintf(os.Stderr, "Error: Failed to export analytics: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Analytics exported to %s\n", exportPath)
		closeMonitor(logger, monitor)
		return
	}

	inline := strings.Join(flag.Args(), " ")
	if demo {
		inline = demoText
	}

	req := entity.SelectInput(inline, filePath, rawURL)
	if req.Source == entity.SourceStdin && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "Enter the text to summarize, then press Ctrl-D:")
	}

	client, err := summarizer.FromConfig(cfg.Provider, model)
	if err != nil {
		reporter.Error(err)
		os.Exit(1)
	}

	svc := summarize.NewService(newFetcher(cfg), client)
	svc.Gate = monitoring.NewRequestGate(cfg.RateLimit.PerMinute, cfg.RateLimit.PerHour)
	svc.Monitor = monitor
	svc.Config = summarize.Config{
		MinChars:        cfg.Pipeline.MinChars,
		MaxContentBytes: cfg.Pipeline.MaxContentBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := svc.Run(ctx, req)
	if err != nil {
		reporter.Error(err)
		closeMonitor(logger, monitor)
		os.Exit(1)
	}

	reporter.Result(result)

	if format == "text" {
		if a := monitor.Snapshot(); a.TotalRequests > 1 {
			fmt.Println()
			fmt.Println("Run with --analytics to see detailed usage statistics.")
		}
	}
	closeMonitor(logger, monitor)
}

// usage prints the command help with examples.
func usage() {
	fmt.Fprintln(os.Stderr, "Usage: summarize [flags] [text]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Summarize text from an argument, a file, a URL, or standard input.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  summarize \"This is a long text that needs to be summarized...\"")
	fmt.Fprintln(os.Stderr, "  summarize --file document.txt")
	fmt.Fprintln(os.Stderr, "  summarize --url https://example.com/article")
	fmt.Fprintln(os.Stderr, "  cat notes.txt | summarize --format json")
	fmt.Fprintln(os.Stderr, "  summarize --analytics")
}

// initLogger initializes and returns the process-wide structured logger.
// Logs go to standard error so the report on standard output stays clean.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// newReporter selects the output renderer for the requested format.
func newReporter(format string) report.Reporter {
	if format == "json" {
		return report.NewJSONReporter(os.Stdout)
	}
	return report.NewConsoleReporter(os.Stdout)
}

// newFetcher builds the URL fetcher from the fetch configuration.
func newFetcher(cfg *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.Config{
		Timeout:        cfg.Fetch.Timeout,
		UserAgent:      cfg.Fetch.UserAgent,
		MaxRedirects:   cfg.Fetch.MaxRedirects,
		MaxBodySize:    cfg.Fetch.MaxBodyBytes,
		DenyPrivateIPs: cfg.Fetch.DenyPrivateIPs,
	})
}

// openMonitor opens the request log backed monitor and replays its history,
// degrading to a memory-only monitor when the log file cannot be opened.
func openMonitor(logger *slog.Logger, cfg *config.Config) *monitoring.Monitor {
	monitor, err := monitoring.NewMonitor(cfg.Observability.RequestLogFile)
	if err != nil {
		logger.Warn("request log unavailable", slog.Any("error", err))
		monitor, _ = monitoring.NewMonitor("")
		return monitor
	}
	if _, err := monitor.LoadRequestLog(); err != nil {
		logger.Warn("failed to replay the request log", slog.Any("error", err))
	}
	return monitor
}

func closeMonitor(logger *slog.Logger, monitor *monitoring.Monitor) {
	if err := monitor.Close(); err != nil {
		logger.Error("failed to close the request log", slog.Any("error", err))
	}
}
