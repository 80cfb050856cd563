// Package analyzer ties the classifier, the trend passes and the
// recommendation engine to a record store.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xaenox/trendlens/internal/classifier"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/recommend"
	"github.com/xaenox/trendlens/internal/scraper"
	"github.com/xaenox/trendlens/internal/storage"
	"github.com/xaenox/trendlens/internal/telemetry"
	"github.com/xaenox/trendlens/internal/trends"
	"go.uber.org/zap"
)

type Options struct {
	RealtimeWindow  time.Duration
	MaxMediaPerPage int
	Alerts          trends.AlertSettings
}

type Analyzer struct {
	store      storage.Storage
	classifier classifier.Classifier
	engine     *recommend.Engine
	fetcher    scraper.Fetcher
	metrics    *telemetry.Metrics
	logger     *zap.Logger
	opts       Options
	now        func() time.Time
}

// Report is the full analysis of one snapshot of the collection
type Report struct {
	GeneratedAt     int64                                      `json:"generated_at"`
	Total           int                                        `json:"total"`
	Summary         *trends.Summary                            `json:"summary"`
	Clusters        []*models.Cluster                          `json:"clusters"`
	Context         *models.ContextAnalysis                    `json:"context"`
	Realtime        map[models.MediaType]*models.RealtimeTrend `json:"realtime"`
	Recommendations *models.RecommendationSet                  `json:"recommendations"`
	Alerts          []trends.Alert                             `json:"alerts"`
}

// PageResult describes one page ingestion
type PageResult struct {
	PageURL string                 `json:"page_url"`
	Found   int                    `json:"found"`
	Skipped int                    `json:"skipped"`
	Records []models.ContentRecord `json:"records"`
}

func New(
	store storage.Storage,
	cls classifier.Classifier,
	engine *recommend.Engine,
	fetcher scraper.Fetcher,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
	opts Options,
) *Analyzer {
	if opts.RealtimeWindow <= 0 {
		opts.RealtimeWindow = trends.DefaultRealtimeWindow
	}
	if opts.MaxMediaPerPage <= 0 {
		opts.MaxMediaPerPage = scraper.DefaultMaxMedia
	}
	if engine == nil {
		engine = recommend.NewEngine(time.Local)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		store:      store,
		classifier: cls,
		engine:     engine,
		fetcher:    fetcher,
		metrics:    metrics,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Ingest classifies one descriptor and appends the record. The bool is false
// when the descriptor had no usable URL; nothing is stored then.
func (a *Analyzer) Ingest(ctx context.Context, d *models.RawDescriptor) (*models.ContentRecord, bool, error) {
	record, ok := a.classify(d)
	if !ok {
		return nil, false, nil
	}
	if err := a.store.AppendRecord(ctx, *record); err != nil {
		return nil, true, fmt.Errorf("failed to store record: %w", err)
	}
	return record, true, nil
}

// IngestBatch classifies descriptors in order and appends every usable record
// in one write. It returns the stored records and how many were skipped.
func (a *Analyzer) IngestBatch(ctx context.Context, descriptors []models.RawDescriptor) ([]models.ContentRecord, int, error) {
	records, skipped := a.classifyAll(descriptors)
	if len(records) == 0 {
		return records, skipped, nil
	}
	if err := a.store.AppendRecords(ctx, records); err != nil {
		return nil, skipped, fmt.Errorf("failed to store records: %w", err)
	}
	return records, skipped, nil
}

// IngestPage fetches a page, classifies its media and replaces the
// collection with the result.
func (a *Analyzer) IngestPage(ctx context.Context, pageURL string) (*PageResult, error) {
	if _, err := scraper.ValidatePageURL(pageURL); err != nil {
		return nil, err
	}
	if a.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", scraper.ErrFetchFailed)
	}

	doc, err := a.fetcher.Fetch(ctx, pageURL)
	a.recordPageFetch(err == nil)
	if err != nil {
		return nil, err
	}

	descriptors := scraper.ExtractDescriptors(doc, pageURL, a.opts.MaxMediaPerPage, a.now())
	records, skipped := a.classifyAll(descriptors)
	if err := a.store.SetRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to replace records: %w", err)
	}
	a.setStored(len(records))

	a.logger.Info("Analyzed page",
		zap.String("url", pageURL),
		zap.Int("found", len(descriptors)),
		zap.Int("recorded", len(records)),
		zap.Int("skipped", skipped),
	)

	return &PageResult{
		PageURL: pageURL,
		Found:   len(descriptors),
		Skipped: skipped,
		Records: records,
	}, nil
}

// Records returns a snapshot of the collection, oldest first
func (a *Analyzer) Records(ctx context.Context) ([]models.ContentRecord, error) {
	records, err := a.store.GetTrendRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	a.setStored(len(records))
	return records, nil
}

func (a *Analyzer) Reset(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	a.setStored(0)
	a.logger.Info("Cleared trend records")
	return nil
}

func (a *Analyzer) Clusters(ctx context.Context) ([]*models.Cluster, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	return trends.RankClusters(trends.BuildClusters(records)), nil
}

func (a *Analyzer) Context(ctx context.Context) (*models.ContextAnalysis, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	return trends.AnalyzeContext(records), nil
}

func (a *Analyzer) Realtime(ctx context.Context, now time.Time) (map[models.MediaType]*models.RealtimeTrend, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	return trends.DetectRealtimeTrends(records, now, a.opts.RealtimeWindow), nil
}

func (a *Analyzer) Summary(ctx context.Context) (*trends.Summary, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	return trends.Summarize(records), nil
}

func (a *Analyzer) Alerts(ctx context.Context, now time.Time) ([]trends.Alert, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	alerts := trends.CheckAlerts(records, a.opts.Alerts, now)
	a.recordAlerts(alerts)
	return alerts, nil
}

func (a *Analyzer) Recommendations(ctx context.Context) (*models.RecommendationSet, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}
	return a.engine.Generate(records, trends.BuildClusters(records), trends.AnalyzeContext(records)), nil
}

// Report reads one snapshot and runs every pass over it. The independent
// passes run concurrently; recommendations wait for clusters and context.
func (a *Analyzer) Report(ctx context.Context, now time.Time) (*Report, error) {
	records, err := a.Records(ctx)
	if err != nil {
		return nil, err
	}

	var (
		wg              sync.WaitGroup
		clusters        map[string]*models.Cluster
		contextAnalysis *models.ContextAnalysis
		realtime        map[models.MediaType]*models.RealtimeTrend
		summary         *trends.Summary
		alerts          []trends.Alert
	)

	a.run(&wg, "clusters", func() { clusters = trends.BuildClusters(records) })
	a.run(&wg, "context", func() { contextAnalysis = trends.AnalyzeContext(records) })
	a.run(&wg, "realtime", func() {
		realtime = trends.DetectRealtimeTrends(records, now, a.opts.RealtimeWindow)
	})
	a.run(&wg, "summary", func() { summary = trends.Summarize(records) })
	a.run(&wg, "alerts", func() { alerts = trends.CheckAlerts(records, a.opts.Alerts, now) })
	wg.Wait()

	started := time.Now()
	recs := a.engine.Generate(records, clusters, contextAnalysis)
	a.observePass("recommendations", started)
	a.recordAlerts(alerts)

	return &Report{
		GeneratedAt:     now.UnixMilli(),
		Total:           len(records),
		Summary:         summary,
		Clusters:        trends.RankClusters(clusters),
		Context:         contextAnalysis,
		Realtime:        realtime,
		Recommendations: recs,
		Alerts:          alerts,
	}, nil
}

func (a *Analyzer) run(wg *sync.WaitGroup, pass string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		started := time.Now()
		fn()
		a.observePass(pass, started)
	}()
}

func (a *Analyzer) classify(d *models.RawDescriptor) (*models.ContentRecord, bool) {
	record, ok := a.classifier.Classify(d)
	if !ok {
		if a.metrics != nil {
			a.metrics.RecordSkipped()
		}
		return nil, false
	}
	if a.metrics != nil {
		a.metrics.RecordClassified(string(record.Type))
	}
	return record, true
}

func (a *Analyzer) classifyAll(descriptors []models.RawDescriptor) ([]models.ContentRecord, int) {
	records := make([]models.ContentRecord, 0, len(descriptors))
	skipped := 0
	for i := range descriptors {
		record, ok := a.classify(&descriptors[i])
		if !ok {
			skipped++
			continue
		}
		records = append(records, *record)
	}
	return records, skipped
}

func (a *Analyzer) observePass(pass string, started time.Time) {
	if a.metrics != nil {
		a.metrics.ObservePass(pass, started)
	}
}

func (a *Analyzer) recordPageFetch(success bool) {
	if a.metrics != nil {
		a.metrics.RecordPageFetch(success)
	}
}

func (a *Analyzer) recordAlerts(alerts []trends.Alert) {
	if a.metrics == nil {
		return
	}
	for _, alert := range alerts {
		a.metrics.RecordAlert(string(alert.Kind))
	}
}

func (a *Analyzer) setStored(n int) {
	if a.metrics != nil {
		a.metrics.SetStoredRecords(n)
	}
}
