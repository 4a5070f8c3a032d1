package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New(os.Stderr, "json", "info").Error(ctx, "config error", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.RunAndClose(ctx); err != nil {
		os.Exit(1)
	}
}
