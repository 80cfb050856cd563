package trends

import (
	"time"

	"github.com/xaenox/trendlens/internal/models"
)

// DefaultRealtimeWindow is the trailing window used for realtime trends
const DefaultRealtimeWindow = time.Hour

// DetectRealtimeTrends groups the records observed in [now-window, now] by
// media type. The reference instant is always supplied by the caller.
func DetectRealtimeTrends(records []models.ContentRecord, now time.Time, window time.Duration) map[models.MediaType]*models.RealtimeTrend {
	if window <= 0 {
		window = DefaultRealtimeWindow
	}
	upper := now.UnixMilli()
	lower := now.Add(-window).UnixMilli()

	groups := make(map[models.MediaType]*models.RealtimeTrend)
	for i := range records {
		rec := &records[i]
		if rec.Timestamp < lower || rec.Timestamp > upper {
			continue
		}

		group, ok := groups[rec.Type]
		if !ok {
			group = &models.RealtimeTrend{Characteristics: make(map[string]int)}
			groups[rec.Type] = group
		}
		group.Count++
		for _, char := range uniqueTags(rec.Characteristics) {
			group.Characteristics[char]++
		}
	}
	return groups
}

// TopCharacteristics returns the most common traits of a realtime group
func TopCharacteristics(trend *models.RealtimeTrend, limit int) []Count {
	if trend == nil {
		return []Count{}
	}
	return TopCounts(trend.Characteristics, limit)
}
