package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/interfaces/http/handler"
	"github.com/wmsbridge/backend/internal/interfaces/http/middleware"
)

// EngineConfig controls how the gin engine is assembled.
type EngineConfig struct {
	// Release switches gin to release mode.
	Release bool
	// RequestLog installs the per-request log line. Serverless front-ends
	// leave it off.
	RequestLog  bool
	MaxBodySize int64
	CORS        middleware.CORSConfig
	Tracing     middleware.TracingConfig
	// Meter enables HTTP server metrics when set.
	Meter metric.Meter
	// StaticDir, when set, is served for non-API GET requests with an
	// index.html fallback.
	StaticDir string
	Logger    *zap.Logger
}

// Handlers are the endpoint handlers mounted on the engine.
type Handlers struct {
	WMS    *handler.WMSHandler
	System *handler.SystemHandler
}

// NewEngine builds the engine with the middleware stack and all routes.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if h.System == nil {
		h.System = handler.NewSystemHandler()
	}

	engine := gin.New()
	// A known path with the wrong verb is a 405, not a 404.
	engine.HandleMethodNotAllowed = true

	// Order matters: request ID first so every later layer can read it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.RequestLog {
		engine.Use(logger.GinMiddleware(log))
	}
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	r := NewRouter(engine)
	api := NewDomainGroup("").
		POST("/auth", h.WMS.Auth).
		POST("/orderSearch", h.WMS.OrderSearch).
		GET("/ping", h.System.Ping)
	r.Register(api)
	r.Setup()

	engine.NoMethod(h.System.MethodNotAllowed)
	if cfg.StaticDir != "" {
		engine.NoRoute(h.System.StaticFallback(r.BasePath(), cfg.StaticDir))
	} else {
		engine.NoRoute(h.System.NotFound)
	}
	return engine
}
