// Package config loads the runtime configuration for the CLI and the web
// variant from environment variables, plus an optional YAML file with the
// web server knobs that are awkward as single variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported summarization providers.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	// ProviderNoop is an offline echo provider for demos and tests.
	ProviderNoop = "noop"
)

// Config is the top-level runtime configuration shared by the CLI and the
// web variant.
type Config struct {
	// Provider selects and tunes the AI backend.
	Provider ProviderConfig

	// Pipeline holds the input limits.
	Pipeline PipelineConfig

	// Fetch configures URL content fetching.
	Fetch FetchConfig

	// RateLimit configures the client-side gate in front of the provider.
	RateLimit RateLimitConfig

	// Web holds the web variant settings.
	Web WebServerConfig

	// Observability configures logging and analytics output.
	Observability ObservabilityConfig
}

// ProviderConfig selects the summarization backend.
type ProviderConfig struct {
	// Name is one of "claude", "openai", or "noop". Default: "claude"
	Name string

	// APIKey is resolved from the provider-specific environment variable
	// (ANTHROPIC_API_KEY or OPENAI_API_KEY). An absent key is not a
	// configuration error; the provider reports it as a missing credential
	// before making any network call.
	APIKey string

	// Model overrides the provider default model when set.
	Model string

	// MaxTokens caps the generated summary length. Default: 1000
	MaxTokens int

	// Temperature for generation, 0.0 to 1.0. Default: 0.3
	Temperature float64

	// Timeout for one provider call. Default: 60s
	Timeout time.Duration
}

// PipelineConfig holds the input limits of the summarization pipeline.
type PipelineConfig struct {
	// MinChars is the minimum input length in characters. Default: 10
	MinChars int

	// MaxContentBytes is the truncation ceiling. Default: 50000
	MaxContentBytes int
}

// FetchConfig configures URL content fetching.
type FetchConfig struct {
	// Timeout for one fetch including redirects. Default: 30s
	Timeout time.Duration

	// UserAgent sent with fetch requests. Default: "summary-lab/1.0"
	UserAgent string

	// MaxRedirects before a fetch fails. Default: 3
	MaxRedirects int

	// MaxBodyBytes is the hard response size limit. Default: 10 MiB
	MaxBodyBytes int64

	// DenyPrivateIPs rejects URLs resolving to private addresses.
	// Default: true
	DenyPrivateIPs bool
}

// RateLimitConfig configures the client-side request gate.
type RateLimitConfig struct {
	// PerMinute ceiling for provider calls. Default: 50
	PerMinute int

	// PerHour ceiling for provider calls. Default: 1000
	PerHour int
}

// WebServerConfig holds the environment-level web variant settings; the
// optional YAML file configures the rest.
type WebServerConfig struct {
	// Port the HTTP server listens on. Default: 8501
	Port int

	// ConfigFile is the optional YAML file path. Empty uses built-in
	// defaults.
	ConfigFile string
}

// ObservabilityConfig configures logging and analytics output.
type ObservabilityConfig struct {
	// LogLevel for structured logs: debug, info, warn, error. Default: "info"
	LogLevel string

	// RequestLogFile is the per-request analytics log. Empty disables it.
	// Default: "summary_lab.log"
	RequestLogFile string

	// ExportFile is where analytics exports are written.
	// Default: "summary_lab_analytics.json"
	ExportFile string

	// EnableMetrics exposes Prometheus metrics on the web variant.
	// Default: true
	EnableMetrics bool
}

// LoadConfig loads configuration from environment variables, falling back to
// defaults for anything unset.
func LoadConfig() (*Config, error) {
	provider := getEnvOrDefault("SUMMARIZER_PROVIDER", ProviderClaude)

	config := &Config{
		Provider: ProviderConfig{
			Name:        provider,
			APIKey:      apiKeyFor(provider),
			Model:       os.Getenv("SUMMARIZER_MODEL"),
			MaxTokens:   getEnvInt("SUMMARIZER_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("SUMMARIZER_TEMPERATURE", 0.3),
			Timeout:     getEnvDuration("SUMMARIZER_TIMEOUT", 60*time.Second),
		},
		Pipeline: PipelineConfig{
			MinChars:        getEnvInt("SUMMARY_MIN_CHARS", 10),
			MaxContentBytes: getEnvInt("SUMMARY_MAX_CONTENT_BYTES", 50000),
		},
		Fetch: FetchConfig{
			Timeout:        getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:      getEnvOrDefault("FETCH_USER_AGENT", "summary-lab/1.0"),
			MaxRedirects:   getEnvInt("FETCH_MAX_REDIRECTS", 3),
			MaxBodyBytes:   getEnvInt64("FETCH_MAX_BODY_BYTES", 10*1024*1024),
			DenyPrivateIPs: getEnvBool("FETCH_DENY_PRIVATE_IPS", true),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 50),
			PerHour:   getEnvInt("RATE_LIMIT_PER_HOUR", 1000),
		},
		Web: WebServerConfig{
			Port:       getEnvInt("PORT", 8501),
			ConfigFile: os.Getenv("WEB_CONFIG_FILE"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
			RequestLogFile: getEnvOrDefault("REQUEST_LOG_FILE", "summary_lab.log"),
			ExportFile:     getEnvOrDefault("ANALYTICS_EXPORT_FILE", "summary_lab_analytics.json"),
			EnableMetrics:  getEnvBool("METRICS_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// apiKeyFor returns the credential for the given provider.
func apiKeyFor(provider string) string {
	switch provider {
	case ProviderClaude:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}

// Validate checks configuration correctness. The API key is deliberately not
// checked here; its absence surfaces as a missing-credential pipeline error.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderClaude, ProviderOpenAI, ProviderNoop:
	default:
		return fmt.Errorf("SUMMARIZER_PROVIDER must be one of claude, openai, noop (got %q)", c.Provider.Name)
	}

	if c.Provider.MaxTokens <= 0 || c.Provider.MaxTokens > 8192 {
		return fmt.Errorf("SUMMARIZER_MAX_TOKENS must be between 1 and 8192")
	}

	if c.Provider.Temperature < 0 || c.Provider.Temperature > 1 {
		return fmt.Errorf("SUMMARIZER_TEMPERATURE must be between 0.0 and 1.0")
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("SUMMARIZER_TIMEOUT must be positive")
	}

	if c.Pipeline.MinChars <= 0 {
		return fmt.Errorf("SUMMARY_MIN_CHARS must be positive")
	}

	if c.Pipeline.MaxContentBytes < 1024 {
		return fmt.Errorf("SUMMARY_MAX_CONTENT_BYTES must be at least 1024")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.Fetch.UserAgent == "" {
		return fmt.Errorf("FETCH_USER_AGENT cannot be empty")
	}

	if c.Fetch.MaxRedirects < 0 || c.Fetch.MaxRedirects > 10 {
		return fmt.Errorf("FETCH_MAX_REDIRECTS must be between 0 and 10")
	}

	if c.Fetch.MaxBodyBytes < 1024 || c.Fetch.MaxBodyBytes > 100*1024*1024 {
		return fmt.Errorf("FETCH_MAX_BODY_BYTES must be between 1KiB and 100MiB")
	}

	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	if c.RateLimit.PerHour < c.RateLimit.PerMinute {
		return fmt.Errorf("RATE_LIMIT_PER_HOUR must be at least RATE_LIMIT_PER_MINUTE")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses boolean environment variable with default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt64 parses 64-bit integer environment variable with default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
