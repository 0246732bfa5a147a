// Package main provides a setup checker for the summarize tools.
// Usage: doctor [--ping]
//
// It verifies the environment a summarization run needs: the provider
// selection, the API credential and its format, and the optional web
// configuration file. With --ping it additionally makes one small provider
// call to prove the credential works end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"summary-lab/internal/config"
	"summary-lab/internal/infra/summarizer"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/usecase/summarize"
)

// Check statuses. FAIL makes the command exit non-zero; WARN and SKIP do not.
const (
	statusOK   = "OK"
	statusFail = "FAIL"
	statusWarn = "WARN"
	statusSkip = "SKIP"
)

// CheckResult is the outcome of one environment check.
type CheckResult struct {
	Name    string
	Status  string
	Message string
}

// pingText is sent on --ping. It only has to be long enough for the provider
// to accept it.
const pingText = "The quick brown fox jumps over the lazy dog. This sentence exists only to verify connectivity."

func main() {
	ping := flag.Bool("ping", false, "Make one small provider call to verify the credential works")
	flag.Parse()

	fmt.Println("summary-lab doctor")
	fmt.Println(strings.Repeat("=", 50))

	failed := 0
	run := func(r CheckResult) {
		fmt.Printf("%-6s %-14s %s\n", "["+r.Status+"]", r.Name, r.Message)
		if r.Status == statusFail {
			failed++
		}
	}

	run(checkDotEnv())

	cfg, result := checkConfig()
	run(result)

	if cfg != nil {
		run(checkCredential(cfg))
		run(checkWebConfig(cfg))
		run(checkRequestLog(cfg))
		run(checkPing(cfg, *ping))
	}

	fmt.Println(strings.Repeat("=", 50))
	if failed > 0 {
		fmt.Printf("%d check(s) failed.\n", failed)
		os.Exit(1)
	}
	fmt.Println("All checks passed. Try: summarize --demo")
}

// checkDotEnv loads the optional .env file.
func checkDotEnv() CheckResult {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return CheckResult{".env", statusSkip, "no .env file; using the process environment"}
	}
	if err := godotenv.Load(); err != nil {
		return CheckResult{".env", statusFail, fmt.Sprintf("could not load .env: %v", err)}
	}
	return CheckResult{".env", statusOK, "loaded"}
}

// checkConfig loads and validates the runtime configuration.
func checkConfig() (*config.Config, CheckResult) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, CheckResult{"configuration", statusFail, err.Error()}
	}
	model := cfg.Provider.Model
	if model == "" {
		model = "provider default"
	}
	return cfg, CheckResult{"configuration", statusOK,
		fmt.Sprintf("provider %s, model %s", cfg.Provider.Name, model)}
}

// checkCredential verifies the provider API key is present and looks right.
func checkCredential(cfg *config.Config) CheckResult {
	switch cfg.Provider.Name {
	case config.ProviderNoop:
		return CheckResult{"credential", statusSkip, "the noop provider needs no credential"}
	case config.ProviderOpenAI:
		if cfg.Provider.APIKey == "" {
			return CheckResult{"credential", statusFail, "OPENAI_API_KEY is not set"}
		}
		return CheckResult{"credential", statusOK, "OPENAI_API_KEY found (" + maskKey(cfg.Provider.APIKey) + ")"}
	default:
		if cfg.Provider.APIKey == "" {
			return CheckResult{"credential", statusFail,
				"ANTHROPIC_API_KEY is not set. Get a key at https://console.anthropic.com/"}
		}
		if !strings.HasPrefix(cfg.Provider.APIKey, "sk-ant-") {
			return CheckResult{"credential", statusWarn,
				"ANTHROPIC_API_KEY does not start with sk-ant-; the key may be wrong"}
		}
		return CheckResult{"credential", statusOK, "ANTHROPIC_API_KEY found (" + maskKey(cfg.Provider.APIKey) + ")"}
	}
}

// checkWebConfig validates the optional web configuration file.
func checkWebConfig(cfg *config.Config) CheckResult {
	if cfg.Web.ConfigFile == "" {
		return CheckResult{"web config", statusSkip, "WEB_CONFIG_FILE not set; the web variant uses built-in defaults"}
	}
	webCfg, err := config.LoadWebConfig(cfg.Web.ConfigFile)
	if err != nil {
		return CheckResult{"web config", statusFail, err.Error()}
	}
	return CheckResult{"web config", statusOK,
		fmt.Sprintf("%s (%d extra model(s))", cfg.Web.ConfigFile, len(webCfg.Web.Models))}
}

// checkRequestLog verifies the analytics request log can be written.
func checkRequestLog(cfg *config.Config) CheckResult {
	path := cfg.Observability.RequestLogFile
	if path == "" {
		return CheckResult{"request log", statusSkip, "request analytics disabled"}
	}
	monitor, err := monitoring.NewMonitor(path)
	if err != nil {
		return CheckResult{"request log", statusFail, err.Error()}
	}
	n, loadErr := monitor.LoadRequestLog()
	_ = monitor.Close()
	if loadErr != nil {
		return CheckResult{"request log", statusWarn,
			fmt.Sprintf("%s is writable but could not be replayed: %v", path, loadErr)}
	}
	return CheckResult{"request log", statusOK, fmt.Sprintf("%s (%d recorded request(s))", path, n)}
}

// checkPing makes one small provider call.
func checkPing(cfg *config.Config, enabled bool) CheckResult {
	if !enabled {
		return CheckResult{"provider ping", statusSkip, "run with --ping to make a live call"}
	}

	client, err := summarizer.FromConfig(cfg.Provider, "")
	if err != nil {
		return CheckResult{"provider ping", statusFail, err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Provider.Timeout)
	defer cancel()

	start := time.Now()
	out, err := client.Summarize(ctx, pingText)
	if err != nil {
		return CheckResult{"provider ping", statusFail,
			fmt.Sprintf("%v. Hint: %s", err, firstLine(summarize.Remediation(err)))}
	}
	return CheckResult{"provider ping", statusOK,
		fmt.Sprintf("%s answered in %s", out.Model, time.Since(start).Round(10*time.Millisecond))}
}

// maskKey shows enough of a key to recognize it without revealing it.
func maskKey(key string) string {
	if len(key) <= 10 {
		return "****"
	}
	return key[:10] + "****"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
