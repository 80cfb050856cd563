package trends

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/xaenox/trendlens/internal/models"
)

const (
	// AlertWindow is how far back alerts look
	AlertWindow                = 24 * time.Hour
	defaultCompetitorThreshold = 10
)

// AlertKind names the rule that raised an alert
type AlertKind string

const (
	AlertThreshold      AlertKind = "threshold"
	AlertCharacteristic AlertKind = "characteristic"
	AlertCompetitor     AlertKind = "competitor"
)

// Severity of an alert
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// AlertSettings configures which alerts are raised
type AlertSettings struct {
	ContentTypeThresholds map[models.MediaType]int `json:"content_type_thresholds" mapstructure:"content_type_thresholds"`
	CharacteristicAlerts  []string                 `json:"characteristic_alerts" mapstructure:"characteristic_alerts"`
	CompetitorAlerts      bool                     `json:"competitor_alerts" mapstructure:"competitor_alerts"`
	CompetitorThreshold   int                      `json:"competitor_threshold" mapstructure:"competitor_threshold"`
}

// IsZero reports whether no alert rule is configured
func (s AlertSettings) IsZero() bool {
	return len(s.ContentTypeThresholds) == 0 && len(s.CharacteristicAlerts) == 0 && !s.CompetitorAlerts
}

// Alert is one raised trend alert
type Alert struct {
	Kind     AlertKind `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// CheckAlerts evaluates the alert rules over the records observed in the 24
// hours before now. Alerts come out grouped by kind in a stable order.
func CheckAlerts(records []models.ContentRecord, settings AlertSettings, now time.Time) []Alert {
	alerts := []Alert{}
	if settings.IsZero() {
		return alerts
	}

	lower := now.Add(-AlertWindow).UnixMilli()
	upper := now.UnixMilli()
	recent := make([]*models.ContentRecord, 0, len(records))
	for i := range records {
		if ts := records[i].Timestamp; ts >= lower && ts <= upper {
			recent = append(recent, &records[i])
		}
	}

	types := make([]models.MediaType, 0, len(settings.ContentTypeThresholds))
	for t := range settings.ContentTypeThresholds {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		threshold := settings.ContentTypeThresholds[t]
		if threshold <= 0 {
			continue
		}
		count := 0
		for _, rec := range recent {
			if rec.Type == t {
				count++
			}
		}
		if count >= threshold {
			alerts = append(alerts, Alert{
				Kind:     AlertThreshold,
				Message:  fmt.Sprintf("%s content has reached %d items (threshold: %d)", t, count, threshold),
				Severity: SeverityHigh,
			})
		}
	}

	for _, char := range settings.CharacteristicAlerts {
		count := 0
		for _, rec := range recent {
			if rec.HasCharacteristic(char) {
				count++
			}
		}
		if count > 0 {
			alerts = append(alerts, Alert{
				Kind:     AlertCharacteristic,
				Message:  fmt.Sprintf("New content with %q detected (%d items)", char, count),
				Severity: SeverityMedium,
			})
		}
	}

	if settings.CompetitorAlerts {
		threshold := settings.CompetitorThreshold
		if threshold <= 0 {
			threshold = defaultCompetitorThreshold
		}
		domains := make([]string, 0)
		perDomain := make(map[string]int)
		for _, rec := range recent {
			u, err := url.Parse(rec.URL)
			if err != nil || u.Hostname() == "" {
				continue
			}
			host := u.Hostname()
			if _, ok := perDomain[host]; !ok {
				domains = append(domains, host)
			}
			perDomain[host]++
		}
		for _, host := range domains {
			if perDomain[host] >= threshold {
				alerts = append(alerts, Alert{
					Kind:     AlertCompetitor,
					Message:  fmt.Sprintf("High activity detected on %s (%d items)", host, perDomain[host]),
					Severity: SeverityHigh,
				})
			}
		}
	}

	return alerts
}
