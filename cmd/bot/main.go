package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/xaenox/trendlens/internal/app"
	"github.com/xaenox/trendlens/internal/bot"
	"github.com/xaenox/trendlens/pkg/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Bootstrap logger until the config decides the real one
	logger, _ := zap.NewProduction()

	// Load configuration
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

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, application.Analyzer, application.Summarizer, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the bot
	if err := b.Start(ctx); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}
