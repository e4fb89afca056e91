// Command lambda serves the bridge from AWS Lambda behind an API Gateway
// HTTP API.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/bootstrap"
	"github.com/wmsbridge/backend/internal/infrastructure/config"
	"github.com/wmsbridge/backend/internal/interfaces/platform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	app, err := bootstrap.New(context.Background(), cfg, bootstrap.ModeServerless)
	if err != nil {
		panic("Failed to initialize application: " + err.Error())
	}
	app.Logger.Info("Lambda handler ready", zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	handler := platform.NewLambdaHandler(platform.NewAdapter(app.Engine, app.Logger))
	lambda.Start(handler.Invoke)
}
