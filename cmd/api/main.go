package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/xaenox/trendlens/internal/api"
	"github.com/xaenox/trendlens/internal/app"
	"github.com/xaenox/trendlens/pkg/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	logger, _ := zap.NewProduction()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	if logger, err = app.NewLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer application.Close()

	handler := api.NewHandler(
		application.Analyzer,
		application.Summarizer,
		application.Metrics,
		cfg.Analysis.RealtimeWindow,
		logger,
	)
	server := api.NewServer(handler, api.ServerConfig{
		Addr:            cfg.HTTP.Addr,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Debug:           cfg.Log.Development,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
