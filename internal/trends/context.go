package trends

import (
	"sort"

	"github.com/xaenox/trendlens/internal/models"
)

// AnalyzeContext builds keyword and topic statistics plus the
// characteristic associations for a snapshot.
//
// Keyword and topic engagement is added once per record carrying the term,
// while counts follow every occurrence. Association engagement is added once
// per keyword-or-topic occurrence, so a record with two topics counts twice
// toward each of its characteristics.
func AnalyzeContext(records []models.ContentRecord) *models.ContextAnalysis {
	ctx := &models.ContextAnalysis{
		Keywords:     make(map[string]*models.KeywordStats),
		Topics:       make(map[string]*models.TopicStats),
		Associations: make(map[string]*models.Association),
	}

	for i := range records {
		rec := &records[i]

		seenKeywords := make(map[string]struct{}, len(rec.Metadata.Keywords))
		for _, kw := range rec.Metadata.Keywords {
			stats, ok := ctx.Keywords[kw]
			if !ok {
				stats = &models.KeywordStats{
					Keyword:   kw,
					Types:     make(map[models.MediaType]int),
					FirstSeen: len(ctx.Keywords),
				}
				ctx.Keywords[kw] = stats
			}
			stats.Count++
			stats.Types[rec.Type]++
			if _, dup := seenKeywords[kw]; !dup {
				seenKeywords[kw] = struct{}{}
				stats.Engagement = models.AddEngagement(stats.Engagement, rec.Engagement)
			}
		}

		seenTopics := make(map[string]struct{}, len(rec.Metadata.Topics))
		for _, topic := range rec.Metadata.Topics {
			stats, ok := ctx.Topics[topic]
			if !ok {
				stats = &models.TopicStats{
					Topic:     topic,
					Content:   []models.TopicItem{},
					FirstSeen: len(ctx.Topics),
				}
				ctx.Topics[topic] = stats
			}
			stats.Count++
			if _, dup := seenTopics[topic]; dup {
				continue
			}
			seenTopics[topic] = struct{}{}
			stats.Engagement = models.AddEngagement(stats.Engagement, rec.Engagement)
			stats.Content = append(stats.Content, models.TopicItem{
				Type:       rec.Type,
				URL:        rec.URL,
				Engagement: rec.Engagement,
			})
		}

		for _, char := range uniqueTags(rec.Characteristics) {
			assoc, ok := ctx.Associations[char]
			if !ok {
				assoc = &models.Association{
					Characteristic: char,
					Keywords:       make(map[string]int),
					Topics:         make(map[string]int),
					FirstSeen:      len(ctx.Associations),
				}
				ctx.Associations[char] = assoc
			}
			for _, kw := range rec.Metadata.Keywords {
				assoc.Keywords[kw]++
				assoc.Engagement = models.AddEngagement(assoc.Engagement, rec.Engagement)
			}
			for _, topic := range rec.Metadata.Topics {
				assoc.Topics[topic]++
				assoc.Engagement = models.AddEngagement(assoc.Engagement, rec.Engagement)
			}
		}
	}

	return ctx
}

// TopKeywords returns keywords by engagement descending, first seen on ties
func TopKeywords(ctx *models.ContextAnalysis, limit int) []*models.KeywordStats {
	out := make([]*models.KeywordStats, 0, len(ctx.Keywords))
	for _, k := range ctx.Keywords {
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Engagement != out[j].Engagement {
			return out[i].Engagement > out[j].Engagement
		}
		return out[i].FirstSeen < out[j].FirstSeen
	})
	return truncate(out, limit)
}

// TopTopics returns topics by engagement descending, first seen on ties
func TopTopics(ctx *models.ContextAnalysis, limit int) []*models.TopicStats {
	out := make([]*models.TopicStats, 0, len(ctx.Topics))
	for _, t := range ctx.Topics {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Engagement != out[j].Engagement {
			return out[i].Engagement > out[j].Engagement
		}
		return out[i].FirstSeen < out[j].FirstSeen
	})
	return truncate(out, limit)
}

// TopAssociations returns associations by engagement descending, first seen on ties
func TopAssociations(ctx *models.ContextAnalysis, limit int) []*models.Association {
	out := make([]*models.Association, 0, len(ctx.Associations))
	for _, a := range ctx.Associations {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Engagement != out[j].Engagement {
			return out[i].Engagement > out[j].Engagement
		}
		return out[i].FirstSeen < out[j].FirstSeen
	})
	return truncate(out, limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
