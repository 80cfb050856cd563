package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/insights"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/scraper"
	"github.com/xaenox/trendlens/internal/storage"
	"github.com/xaenox/trendlens/internal/telemetry"
	"github.com/xaenox/trendlens/internal/trends"
	"go.uber.org/zap"
)

const (
	topRealtimeCharacteristics = 3
	topContextEntries          = 10
)

// Handler handles HTTP requests for the trend API
type Handler struct {
	analyzer   *analyzer.Analyzer
	summarizer insights.Summarizer
	metrics    *telemetry.Metrics
	window     time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewHandler(
	a *analyzer.Analyzer,
	summarizer insights.Summarizer,
	metrics *telemetry.Metrics,
	window time.Duration,
	logger *zap.Logger,
) *Handler {
	if summarizer == nil {
		summarizer = insights.NewTemplateSummarizer()
	}
	if window <= 0 {
		window = trends.DefaultRealtimeWindow
	}
	return &Handler{
		analyzer:   a,
		summarizer: summarizer,
		metrics:    metrics,
		window:     window,
		logger:     logger,
		now:        time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics handles GET /metrics
func (h *Handler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// IngestRecord handles POST /api/v1/records
func (h *Handler) IngestRecord(c *gin.Context) {
	var d models.RawDescriptor
	if err := c.ShouldBindJSON(&d); err != nil {
		h.logger.Warn("Invalid descriptor", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	record, ok, err := h.analyzer.Ingest(c.Request.Context(), &d)
	if err != nil {
		h.fail(c, "Failed to ingest descriptor", err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, IngestResponse{Recorded: false})
		return
	}
	c.JSON(http.StatusCreated, IngestResponse{Recorded: true, Record: record})
}

// IngestBatch handles POST /api/v1/records/batch
func (h *Handler) IngestBatch(c *gin.Context) {
	var req BatchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	records, skipped, err := h.analyzer.IngestBatch(c.Request.Context(), req.Descriptors)
	if err != nil {
		h.fail(c, "Failed to ingest batch", err)
		return
	}

	h.logger.Info("Batch ingested",
		zap.Int("recorded", len(records)),
		zap.Int("skipped", skipped),
	)
	c.JSON(http.StatusOK, BatchIngestResponse{
		Records:  records,
		Recorded: len(records),
		Skipped:  skipped,
	})
}

// ListRecords handles GET /api/v1/records
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.analyzer.Records(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list records", err)
		return
	}
	c.JSON(http.StatusOK, RecordsResponse{Records: records, Total: len(records)})
}

// ClearRecords handles DELETE /api/v1/records
func (h *Handler) ClearRecords(c *gin.Context) {
	if err := h.analyzer.Reset(c.Request.Context()); err != nil {
		h.fail(c, "Failed to clear records", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AnalyzePage handles POST /api/v1/pages
func (h *Handler) AnalyzePage(c *gin.Context) {
	var req AnalyzePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.analyzer.IngestPage(c.Request.Context(), req.URL)
	if err != nil {
		h.fail(c, "Failed to analyze page", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetReport handles GET /api/v1/report
func (h *Handler) GetReport(c *gin.Context) {
	now, ok := h.parseNow(c)
	if !ok {
		return
	}
	report, err := h.analyzer.Report(c.Request.Context(), now)
	if err != nil {
		h.fail(c, "Failed to build report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetClusters handles GET /api/v1/clusters
func (h *Handler) GetClusters(c *gin.Context) {
	clusters, err := h.analyzer.Clusters(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to build clusters", err)
		return
	}
	c.JSON(http.StatusOK, ClustersResponse{Clusters: clusters, Total: len(clusters)})
}

// GetContext handles GET /api/v1/context
func (h *Handler) GetContext(c *gin.Context) {
	analysis, err := h.analyzer.Context(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to analyze context", err)
		return
	}
	c.JSON(http.StatusOK, ContextResponse{
		Analysis:        analysis,
		TopKeywords:     trends.TopKeywords(analysis, topContextEntries),
		TopTopics:       trends.TopTopics(analysis, topContextEntries),
		TopAssociations: trends.TopAssociations(analysis, topContextEntries),
	})
}

// GetRealtime handles GET /api/v1/realtime
func (h *Handler) GetRealtime(c *gin.Context) {
	now, ok := h.parseNow(c)
	if !ok {
		return
	}
	groups, err := h.analyzer.Realtime(c.Request.Context(), now)
	if err != nil {
		h.fail(c, "Failed to detect realtime trends", err)
		return
	}
	c.JSON(http.StatusOK, RealtimeResponse{
		Now:    now.UnixMilli(),
		Window: h.window.String(),
		Trends: toRealtimeResponse(groups),
	})
}

// GetRecommendations handles GET /api/v1/recommendations
func (h *Handler) GetRecommendations(c *gin.Context) {
	recs, err := h.analyzer.Recommendations(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to generate recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(c *gin.Context) {
	now, ok := h.parseNow(c)
	if !ok {
		return
	}
	alerts, err := h.analyzer.Alerts(c.Request.Context(), now)
	if err != nil {
		h.fail(c, "Failed to check alerts", err)
		return
	}
	c.JSON(http.StatusOK, AlertsResponse{Alerts: alerts, Total: len(alerts)})
}

// GetSummary handles GET /api/v1/summary
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.analyzer.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to summarize records", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetInsights handles GET /api/v1/insights
func (h *Handler) GetInsights(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.analyzer.Report(ctx, h.now())
	if err != nil {
		h.fail(c, "Failed to build report", err)
		return
	}
	text, err := h.summarizer.Summarize(ctx, report)
	if err != nil {
		h.fail(c, "Failed to summarize report", err)
		return
	}
	c.JSON(http.StatusOK, InsightsResponse{Summary: text})
}

// GetShareLink handles GET /api/v1/share/:platform
func (h *Handler) GetShareLink(c *gin.Context) {
	platform := c.Param("platform")
	link, err := insights.ShareLink(platform, c.Query("url"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, insights.ErrUnknownPlatform) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ShareResponse{Platform: platform, Link: link})
}

// parseNow reads the optional ?now=<unix ms> query parameter
func (h *Handler) parseNow(c *gin.Context) (time.Time, bool) {
	raw := c.Query("now")
	if raw == "" {
		return h.now(), true
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "now must be a unix timestamp in milliseconds"})
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, scraper.ErrInvalidURL):
		status = http.StatusBadRequest
	case errors.Is(err, scraper.ErrFetchFailed):
		status = http.StatusBadGateway
	}
	h.logger.Error(msg, zap.Error(err), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
