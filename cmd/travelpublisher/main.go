package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TravelPublisher/internal/app"
	"TravelPublisher/internal/config"
	"TravelPublisher/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.NewWithFile(cfg.Logging.Level, cfg.Logging.Dir)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
