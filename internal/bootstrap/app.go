// Package bootstrap assembles the application from its configuration. All
// entry points (local server, Vercel function, Lambda) share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	wmsapp "github.com/wmsbridge/backend/internal/application/wms"
	"github.com/wmsbridge/backend/internal/domain/wms"
	"github.com/wmsbridge/backend/internal/infrastructure/config"
	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/infrastructure/manhattan"
	"github.com/wmsbridge/backend/internal/infrastructure/telemetry"
	"github.com/wmsbridge/backend/internal/interfaces/http/handler"
	"github.com/wmsbridge/backend/internal/interfaces/http/middleware"
	"github.com/wmsbridge/backend/internal/interfaces/http/router"
)

// Mode selects how the engine is hosted.
type Mode int

const (
	// ModeServer is the long-running local server: request log and static
	// files are enabled when configured.
	ModeServer Mode = iota
	// ModeServerless is a function runtime: no request log, no static files.
	ModeServerless
)

const meterName = "github.com/wmsbridge/backend"

// App is the assembled application.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Engine *gin.Engine

	tracerProvider *telemetry.TracerProvider
	meterProvider  *telemetry.MeterProvider
}

// Option configures New.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	upstreamFn func(*manhattan.Config)
}

// WithLogger uses log instead of building one from the configuration.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithUpstream adjusts the Manhattan configuration before the adapter is built.
func WithUpstream(fn func(*manhattan.Config)) Option {
	return func(o *options) {
		o.upstreamFn = fn
	}
}

// New builds logger, telemetry providers, the Manhattan adapter, the
// application service and the gin engine.
func New(ctx context.Context, cfg *config.Config, mode Mode, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if log == nil {
		var err error
		log, err = logger.New(LoggerConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	app := &App{Config: cfg, Logger: log}

	tp, err := telemetry.NewTracerProvider(ctx, TracingConfig(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.tracerProvider = tp

	mp, err := telemetry.NewMeterProvider(ctx, MetricsConfig(cfg), log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	app.meterProvider = mp

	upstreamCfg := ManhattanConfig(cfg)
	if o.upstreamFn != nil {
		o.upstreamFn(upstreamCfg)
	}
	adapter, err := manhattan.NewAdapter(upstreamCfg,
		manhattan.WithLogger(log.Named("manhattan")),
		manhattan.WithTracer(tp.Tracer(telemetry.TracerName)),
		manhattan.WithMeter(mp.Meter(meterName)),
	)
	if err != nil {
		_ = app.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize manhattan adapter: %w", err)
	}

	creds := Credentials(cfg)
	if err := creds.Validate(); err != nil {
		// Not fatal: every request reports the configuration error instead.
		log.Warn("Manhattan credentials are not configured",
			zap.Bool("password_set", creds.HasPassword()),
			zap.Bool("secret_set", creds.HasSecret()),
		)
	}

	service := wmsapp.NewService(adapter, creds, log.Named("wms"))

	engineCfg := router.EngineConfig{
		Release:     cfg.IsProduction(),
		MaxBodySize: cfg.HTTP.MaxBodySize,
		CORS:        CORSConfig(cfg),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		Logger: log,
	}
	if mp.IsEnabled() {
		engineCfg.Meter = mp.Meter(meterName)
	}
	if mode == ModeServer {
		engineCfg.RequestLog = cfg.HTTP.RequestLog
		engineCfg.StaticDir = cfg.HTTP.StaticDir
	}

	app.Engine = router.NewEngine(engineCfg, router.Handlers{
		WMS:    handler.NewWMSHandler(service),
		System: handler.NewSystemHandler(),
	})
	return app, nil
}

// Shutdown flushes telemetry and the logger.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.tracerProvider != nil {
		errs = append(errs, a.tracerProvider.Shutdown(ctx))
	}
	if a.meterProvider != nil {
		errs = append(errs, a.meterProvider.Shutdown(ctx))
	}
	_ = logger.Sync(a.Logger)
	return errors.Join(errs...)
}

// LoggerConfig maps the log section to the logger configuration.
func LoggerConfig(cfg *config.Config) *logger.Config {
	out := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	if cfg.IsProduction() {
		out.Format = "json"
	}
	return out
}

// Credentials returns the immutable upstream secrets.
func Credentials(cfg *config.Config) wms.Credentials {
	return wms.NewCredentials(cfg.Manhattan.Password, cfg.Manhattan.Secret)
}

// ManhattanConfig maps the manhattan section onto the adapter configuration.
func ManhattanConfig(cfg *config.Config) *manhattan.Config {
	out := manhattan.NewConfig(Credentials(cfg))
	out.TimeoutSeconds = int(cfg.Manhattan.Timeout / time.Second)
	out.InsecureSkipVerify = cfg.Manhattan.InsecureSkipVerify
	return out
}

// CORSConfig maps the http section onto the CORS middleware configuration.
func CORSConfig(cfg *config.Config) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		out.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		out.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		out.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return out
}

// TracingConfig maps the telemetry section onto the tracer configuration.
func TracingConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
}

// MetricsConfig maps the telemetry section onto the meter configuration.
func MetricsConfig(cfg *config.Config) telemetry.MetricsConfig {
	return telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
}
