package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// WebConfig represents the web variant's YAML file configuration. All fields
// are optional; anything absent keeps its built-in default.
type WebConfig struct {
	Web struct {
		Server struct {
			// ReadTimeoutSeconds bounds reading one request.
			ReadTimeoutSeconds int `yaml:"read_timeout_seconds"`
			// WriteTimeoutSeconds bounds writing one response. Must exceed
			// the provider timeout or long summarizations get cut off.
			WriteTimeoutSeconds    int `yaml:"write_timeout_seconds"`
			IdleTimeoutSeconds     int `yaml:"idle_timeout_seconds"`
			ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
			// AllowedOrigins enables CORS for the listed origins. Empty
			// keeps the API same-origin only.
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"server"`
		Limits struct {
			// MaxBodyBytes caps one request body, uploads included.
			MaxBodyBytes int64 `yaml:"max_body_bytes"`
			// PerIPPerMinute is the per-client request ceiling.
			PerIPPerMinute int `yaml:"per_ip_per_minute"`
		} `yaml:"limits"`
		// Models lists additional model identifiers offered in the UI
		// selector, on top of the configured default. All models use the
		// provider selected by SUMMARIZER_PROVIDER.
		Models []string `yaml:"models"`
		Analytics struct {
			// SnapshotSchedule is the cron spec for the periodic analytics
			// snapshot log line.
			SnapshotSchedule string `yaml:"snapshot_schedule"`
		} `yaml:"analytics"`
		UI struct {
			// Title shown in the page header.
			Title string `yaml:"title"`
			// ShowAnalytics exposes the analytics panel in the UI.
			ShowAnalytics bool `yaml:"show_analytics"`
		} `yaml:"ui"`
	} `yaml:"web"`
}

// DefaultWebConfig returns the built-in web settings.
func DefaultWebConfig() *WebConfig {
	var c WebConfig
	c.Web.Server.ReadTimeoutSeconds = 30
	// 要約はプロバイダ待ちで数十秒かかることがある
	c.Web.Server.WriteTimeoutSeconds = 120
	c.Web.Server.IdleTimeoutSeconds = 120
	c.Web.Server.ShutdownTimeoutSeconds = 10
	c.Web.Limits.MaxBodyBytes = 10 * 1024 * 1024
	c.Web.Limits.PerIPPerMinute = 20
	c.Web.Analytics.SnapshotSchedule = "@hourly"
	c.Web.UI.Title = "Summary Lab"
	c.Web.UI.ShowAnalytics = true
	return &c
}

// LoadWebConfig loads the web configuration from a YAML file. An empty path
// returns the defaults. The path parameter is expected to come from a trusted
// source (environment variable or hardcoded default).
func LoadWebConfig(path string) (*WebConfig, error) {
	config := DefaultWebConfig()
	if path == "" {
		return config, nil
	}

	// #nosec G304 -- path is provided by trusted source (env var), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read web config file: %w", err)
	}

	// デフォルト値の上に重ねるので、書かれていない項目はそのまま残る
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse web config: %w", err)
	}

	if err := validateWebConfig(config); err != nil {
		return nil, fmt.Errorf("web config validation failed: %w", err)
	}

	return config, nil
}

// validateWebConfig validates the loaded configuration.
func validateWebConfig(config *WebConfig) error {
	if config.Web.Server.ReadTimeoutSeconds <= 0 {
		return fmt.Errorf("read_timeout_seconds must be positive")
	}

	if config.Web.Server.WriteTimeoutSeconds <= 0 {
		return fmt.Errorf("write_timeout_seconds must be positive")
	}

	if config.Web.Server.IdleTimeoutSeconds <= 0 {
		return fmt.Errorf("idle_timeout_seconds must be positive")
	}

	if config.Web.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown_timeout_seconds must be positive")
	}

	if config.Web.Limits.MaxBodyBytes < 1024 {
		return fmt.Errorf("max_body_bytes must be at least 1024")
	}

	if config.Web.Limits.PerIPPerMinute <= 0 {
		return fmt.Errorf("per_ip_per_minute must be positive")
	}

	if config.Web.Analytics.SnapshotSchedule == "" {
		return fmt.Errorf("snapshot_schedule must not be empty")
	}

	// 起動後の AddFunc で落ちる前に、ここで cron 式を検証する
	if _, err := cron.ParseStandard(config.Web.Analytics.SnapshotSchedule); err != nil {
		return fmt.Errorf("invalid snapshot_schedule '%s': %w", config.Web.Analytics.SnapshotSchedule, err)
	}

	for _, model := range config.Web.Models {
		if model == "" {
			return fmt.Errorf("models must not contain empty entries")
		}
	}

	return nil
}

// ReadTimeout returns the server read timeout.
func (c *WebConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Web.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c *WebConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Web.Server.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the keep-alive idle timeout.
func (c *WebConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Web.Server.IdleTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *WebConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.Web.Server.ShutdownTimeoutSeconds) * time.Second
}
