// Package app wires configuration into the analyzer and its collaborators.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/classifier"
	"github.com/xaenox/trendlens/internal/insights"
	"github.com/xaenox/trendlens/internal/recommend"
	"github.com/xaenox/trendlens/internal/scraper"
	"github.com/xaenox/trendlens/internal/storage"
	"github.com/xaenox/trendlens/internal/telemetry"
	"github.com/xaenox/trendlens/pkg/config"
	"go.uber.org/zap"
)

type App struct {
	Store      storage.Storage
	Analyzer   *analyzer.Analyzer
	Summarizer insights.Summarizer
	Metrics    *telemetry.Metrics
}

// NewLogger returns a production logger unless development logging is on
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Analysis.Location()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	cls := classifier.NewRuleClassifier(classifier.Options{
		IconMaxSize:    cfg.Classifier.IconMaxSize,
		MaxKeywords:    cfg.Classifier.MaxKeywords,
		MaxTopics:      cfg.Classifier.MaxTopics,
		ExtraStopWords: cfg.Classifier.ExtraStopWords,
	})

	engine := recommend.NewEngine(loc)
	if cfg.Analysis.TopTopics > 0 {
		engine.TopTopics = cfg.Analysis.TopTopics
	}
	if cfg.Analysis.TopHours > 0 {
		engine.TopHours = cfg.Analysis.TopHours
	}

	fetcher := scraper.NewCollyFetcher(cfg.Scraper.UserAgent, cfg.Scraper.Timeout, logger,
		scraper.WithDisallowedDomains(cfg.Scraper.DisallowedDomains...))

	a := analyzer.New(store, cls, engine, fetcher, metrics, logger, analyzer.Options{
		RealtimeWindow:  cfg.Analysis.RealtimeWindow,
		MaxMediaPerPage: cfg.Scraper.MaxMediaPerPage,
		Alerts:          cfg.Analysis.Alerts,
	})

	var summarizer insights.Summarizer = insights.NewTemplateSummarizer()
	if cfg.OpenAI.Enabled {
		logger.Info("Using OpenAI summaries", zap.String("model", cfg.OpenAI.Model))
		summarizer = insights.NewGPTSummarizer(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	}

	return &App{
		Store:      store,
		Analyzer:   a,
		Summarizer: summarizer,
		Metrics:    metrics,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage", zap.Int("capacity", cfg.Storage.Capacity))
		return storage.NewMemoryStorage(cfg.Storage.Capacity), nil
	}

	logger.Info("Using PostgreSQL storage")
	store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Capacity: cfg.Storage.Capacity,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}
