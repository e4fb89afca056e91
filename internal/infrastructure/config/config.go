package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override (e.g. WMS_APP_PORT).
const EnvPrefix = "WMS"

// Bare environment names the deployment platforms set for the upstream secrets.
const (
	EnvManhattanPassword = "MANHATTAN_PASSWORD"
	EnvManhattanSecret   = "MANHATTAN_SECRET"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Manhattan ManhattanConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	// StaticDir is served by the local server for non-API paths.
	StaticDir string
	// RequestLog enables the per-request log line of the local server.
	RequestLog bool
}

// ManhattanConfig holds the upstream WMS settings. Hosts and the OAuth
// client id are fixed and not configurable.
type ManhattanConfig struct {
	Password           string
	Secret             string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled               bool    // Whether to enable OpenTelemetry
	CollectorEndpoint     string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio         float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName           string  // Service name for traces and metrics
	Insecure              bool    // Use insecure (non-TLS) connection (development only)
	MetricsExportInterval time.Duration
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WMS_ prefix (e.g., WMS_APP_PORT)
// 2. config.toml
// 3. Built-in defaults
//
// The upstream secrets are also read from MANHATTAN_PASSWORD and
// MANHATTAN_SECRET.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Prefixed names win over the bare ones.
	if err := v.BindEnv("manhattan.password", EnvPrefix+"_MANHATTAN_PASSWORD", EnvManhattanPassword); err != nil {
		return nil, fmt.Errorf("bind manhattan.password: %w", err)
	}
	if err := v.BindEnv("manhattan.secret", EnvPrefix+"_MANHATTAN_SECRET", EnvManhattanSecret); err != nil {
		return nil, fmt.Errorf("bind manhattan.secret: %w", err)
	}

	// Only booleans whose default is true need a viper default: an unset
	// bool cannot be told apart from false afterwards.
	v.SetDefault("manhattan.insecure_skip_verify", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			StaticDir:        v.GetString("http.static_dir"),
			RequestLog:       v.GetBool("http.request_log"),
		},
		Manhattan: ManhattanConfig{
			Password:           v.GetString("manhattan.password"),
			Secret:             v.GetString("manhattan.secret"),
			Timeout:            v.GetDuration("manhattan.timeout"),
			InsecureSkipVerify: v.GetBool("manhattan.insecure_skip_verify"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
		},
	}

	// Explicit zero sampling is valid; only fill the default when unset.
	samplingSet := v.IsSet("telemetry.sampling_ratio")

	applyDefaults(cfg)
	if !samplingSet {
		cfg.Telemetry.SamplingRatio = 1.0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wms-bridge"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Upstream calls may take up to a minute, the write timeout must cover them.
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 75 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 50 << 20 // 50MB
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Accept", "Origin"}
	}
	if cfg.Manhattan.Timeout == 0 {
		cfg.Manhattan.Timeout = 60 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 || c.HTTP.IdleTimeout < 0 {
		return fmt.Errorf("http timeouts must be positive")
	}
	if c.HTTP.MaxBodySize < 0 {
		return fmt.Errorf("http.max_body_size must be positive, got %d", c.HTTP.MaxBodySize)
	}
	if c.Manhattan.Timeout < 0 {
		return fmt.Errorf("manhattan.timeout must be positive, got %s", c.Manhattan.Timeout)
	}
	if c.Telemetry.MetricsExportInterval < 0 {
		return fmt.Errorf("telemetry.metrics_export_interval must be positive, got %s", c.Telemetry.MetricsExportInterval)
	}

	if c.IsProduction() {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
