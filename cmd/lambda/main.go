package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/silentequity/lead-intake/cmd/mainconfig"
	"github.com/silentequity/lead-intake/internal/app/bootstrap"
	appconfig "github.com/silentequity/lead-intake/internal/config"
	"github.com/silentequity/lead-intake/internal/lambdaapi"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// The app, and with it the lazily connected Postgres pool, is built once per
// execution environment and reused by every warm invocation.
func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	logger.Info("lead-intake lambda ready", "env", cfg.Env, "postgres", app.Pool.Configured())
	lambda.Start(lambdaapi.New(app.Handler).Handle)
}
