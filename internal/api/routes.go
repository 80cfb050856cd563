package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", handler.Metrics)

	v1 := router.Group("/api/v1")
	{
		records := v1.Group("/records")
		{
			records.POST("", handler.IngestRecord)      // POST /api/v1/records
			records.POST("/batch", handler.IngestBatch) // POST /api/v1/records/batch
			records.GET("", handler.ListRecords)        // GET /api/v1/records
			records.DELETE("", handler.ClearRecords)    // DELETE /api/v1/records
		}

		v1.POST("/pages", handler.AnalyzePage) // POST /api/v1/pages

		v1.GET("/report", handler.GetReport)                   // GET /api/v1/report?now=
		v1.GET("/clusters", handler.GetClusters)               // GET /api/v1/clusters
		v1.GET("/context", handler.GetContext)                 // GET /api/v1/context
		v1.GET("/realtime", handler.GetRealtime)               // GET /api/v1/realtime?now=
		v1.GET("/recommendations", handler.GetRecommendations) // GET /api/v1/recommendations
		v1.GET("/alerts", handler.GetAlerts)                   // GET /api/v1/alerts?now=
		v1.GET("/summary", handler.GetSummary)                 // GET /api/v1/summary
		v1.GET("/insights", handler.GetInsights)               // GET /api/v1/insights
		v1.GET("/share/:platform", handler.GetShareLink)       // GET /api/v1/share/:platform?url=
	}
}
