// Package handler is the Vercel Go function serving every /api route.
package handler

import (
	"context"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/bootstrap"
	"github.com/wmsbridge/backend/internal/infrastructure/config"
	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
	"github.com/wmsbridge/backend/internal/interfaces/platform"
)

var (
	once    sync.Once
	entry   http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		reportInitError(os.Getenv(config.EnvPrefix+"_APP_ENV"), err)
		return
	}
	app, err := bootstrap.New(context.Background(), cfg, bootstrap.ModeServerless)
	if err != nil {
		initErr = err
		reportInitError(cfg.App.Env, err)
		return
	}
	entry = platform.HTTPHandler(platform.NewAdapter(app.Engine, app.Logger))
}

// reportInitError logs a failed cold start. The configured logger may be
// the thing that failed, so a default one is built.
func reportInitError(env string, err error) {
	log, logErr := logger.NewForEnvironment(env)
	if logErr != nil {
		return
	}
	log.Error("Function initialization failed", zap.Error(err))
	_ = logger.Sync(log)
}

// Handler is the Vercel entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"` + dto.MsgInternalServerError + `"}`))
		return
	}
	entry.ServeHTTP(w, r)
}
