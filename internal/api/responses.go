package api

import (
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/trends"
)

// IngestResponse is returned for a single descriptor
type IngestResponse struct {
	Recorded bool                  `json:"recorded"`
	Record   *models.ContentRecord `json:"record,omitempty"`
}

// BatchIngestRequest carries descriptors to classify in order
type BatchIngestRequest struct {
	Descriptors []models.RawDescriptor `json:"descriptors" binding:"required,min=1,max=500"`
}

type BatchIngestResponse struct {
	Records  []models.ContentRecord `json:"records"`
	Recorded int                    `json:"recorded"`
	Skipped  int                    `json:"skipped"`
}

// AnalyzePageRequest names the page to scrape
type AnalyzePageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type RecordsResponse struct {
	Records []models.ContentRecord `json:"records"`
	Total   int                    `json:"total"`
}

type ClustersResponse struct {
	Clusters []*models.Cluster `json:"clusters"`
	Total    int               `json:"total"`
}

// ContextResponse carries the full analysis plus engagement-ranked views
type ContextResponse struct {
	Analysis        *models.ContextAnalysis `json:"analysis"`
	TopKeywords     []*models.KeywordStats  `json:"top_keywords"`
	TopTopics       []*models.TopicStats    `json:"top_topics"`
	TopAssociations []*models.Association   `json:"top_associations"`
}

// RealtimeTypeResponse is one media type's realtime trend with its top tags
type RealtimeTypeResponse struct {
	Count              int            `json:"count"`
	Characteristics    map[string]int `json:"characteristics"`
	TopCharacteristics []trends.Count `json:"top_characteristics"`
}

type RealtimeResponse struct {
	Now    int64                                     `json:"now"`
	Window string                                    `json:"window"`
	Trends map[models.MediaType]RealtimeTypeResponse `json:"trends"`
}

type AlertsResponse struct {
	Alerts []trends.Alert `json:"alerts"`
	Total  int            `json:"total"`
}

type InsightsResponse struct {
	Summary string `json:"summary"`
}

type ShareResponse struct {
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toRealtimeResponse(groups map[models.MediaType]*models.RealtimeTrend) map[models.MediaType]RealtimeTypeResponse {
	out := make(map[models.MediaType]RealtimeTypeResponse, len(groups))
	for t, g := range groups {
		out[t] = RealtimeTypeResponse{
			Count:              g.Count,
			Characteristics:    g.Characteristics,
			TopCharacteristics: trends.TopCharacteristics(g, topRealtimeCharacteristics),
		}
	}
	return out
}
