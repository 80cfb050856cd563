// Package recommend scores media types, topics and posting hours from a
// snapshot and its aggregates. Scores are only comparable inside one run.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/trends"
)

const (
	engagementWeight = 0.5
	topicWeight      = 0.3
	keywordWeight    = 0.2

	defaultTopTopics = 5
	defaultTopHours  = 3
	hoursPerDay      = 24
)

// Engine generates recommendations. Location decides which hour of the day
// a timestamp falls in.
type Engine struct {
	Location  *time.Location
	TopTopics int
	TopHours  int
}

// NewEngine returns an engine using loc for hour bucketing (UTC when nil)
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		Location:  loc,
		TopTopics: defaultTopTopics,
		TopHours:  defaultTopHours,
	}
}

type typePerformance struct {
	mediaType  models.MediaType
	count      int
	engagement int64
	topics     []string
	keywords   []string
	topicSet   map[string]struct{}
	keywordSet map[string]struct{}
}

type hourPerformance struct {
	count      int
	engagement int64
	types      map[models.MediaType]struct{}
	best       *models.ContentRecord
}

// Generate joins the snapshot, clusters and context into ranked recommendations.
// An empty snapshot yields three empty lists.
func (e *Engine) Generate(records []models.ContentRecord, clusters map[string]*models.Cluster, ctx *models.ContextAnalysis) *models.RecommendationSet {
	set := &models.RecommendationSet{
		ContentTypes: e.contentTypes(records, clusters),
		Topics:       e.topics(ctx),
		Timing:       e.timing(records),
	}

	// join, not a per-hour computation
	var best models.MediaType
	for _, rec := range set.ContentTypes {
		if rec.Score > 0 {
			best = rec.Type
			break
		}
	}
	for i := range set.Timing {
		set.Timing[i].BestContentType = best
	}

	return set
}

func (e *Engine) contentTypes(records []models.ContentRecord, clusters map[string]*models.Cluster) []models.ContentTypeRecommendation {
	order := make([]*typePerformance, 0, len(models.MediaTypes))
	byType := make(map[models.MediaType]*typePerformance)

	for i := range records {
		rec := &records[i]
		if rec.Type == "" {
			continue
		}
		perf, ok := byType[rec.Type]
		if !ok {
			perf = &typePerformance{
				mediaType:  rec.Type,
				topicSet:   make(map[string]struct{}),
				keywordSet: make(map[string]struct{}),
			}
			byType[rec.Type] = perf
			order = append(order, perf)
		}
		perf.count++
		perf.engagement = models.AddEngagement(perf.engagement, rec.Engagement)
		for _, topic := range rec.Metadata.Topics {
			if _, ok := perf.topicSet[topic]; !ok {
				perf.topicSet[topic] = struct{}{}
				perf.topics = append(perf.topics, topic)
			}
		}
		for _, kw := range rec.Metadata.Keywords {
			if _, ok := perf.keywordSet[kw]; !ok {
				perf.keywordSet[kw] = struct{}{}
				perf.keywords = append(perf.keywords, kw)
			}
		}
	}

	ranked := trends.RankClusters(clusters)
	recs := make([]models.ContentTypeRecommendation, 0, len(order))
	for _, perf := range order {
		if perf.count == 0 {
			continue
		}
		avg := float64(perf.engagement) / float64(perf.count)
		diversity := len(perf.topics)
		relevance := len(perf.keywords)
		score := avg*engagementWeight + float64(diversity)*topicWeight + float64(relevance)*keywordWeight

		recs = append(recs, models.ContentTypeRecommendation{
			Type:                  perf.mediaType,
			Score:                 score,
			Reason:                fmt.Sprintf("High engagement (%.1f) with diverse topics (%d) and relevant keywords (%d)", avg, diversity, relevance),
			AvgEngagement:         avg,
			TopicDiversity:        diversity,
			KeywordRelevance:      relevance,
			Topics:                nonNil(perf.topics),
			Keywords:              nonNil(perf.keywords),
			LeadingCharacteristic: leadingCharacteristic(ranked, perf.mediaType),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return recs
}

// leadingCharacteristic picks the cluster with the most records of the type;
// the cluster ranking breaks ties.
func leadingCharacteristic(ranked []*models.Cluster, t models.MediaType) string {
	best, bestCount := "", 0
	for _, c := range ranked {
		if n := c.Types[t]; n > bestCount {
			best, bestCount = c.Characteristic, n
		}
	}
	return best
}

func (e *Engine) topics(ctx *models.ContextAnalysis) []models.TopicRecommendation {
	recs := make([]models.TopicRecommendation, 0, e.topTopics())
	if ctx == nil {
		return recs
	}
	for _, stats := range trends.TopTopics(ctx, e.topTopics()) {
		if stats.Count == 0 {
			continue
		}
		recs = append(recs, models.TopicRecommendation{
			Topic:   stats.Topic,
			Score:   float64(stats.Engagement),
			Reason:  fmt.Sprintf("High engagement (%d) across %d pieces of content", stats.Engagement, len(stats.Content)),
			Content: append([]models.TopicItem{}, stats.Content...),
		})
	}
	return recs
}

func (e *Engine) timing(records []models.ContentRecord) []models.TimingRecommendation {
	var hours [hoursPerDay]hourPerformance
	for i := range records {
		rec := &records[i]
		hour := time.UnixMilli(rec.Timestamp).In(e.location()).Hour()
		h := &hours[hour]
		if h.types == nil {
			h.types = make(map[models.MediaType]struct{})
		}
		h.count++
		h.engagement = models.AddEngagement(h.engagement, rec.Engagement)
		h.types[rec.Type] = struct{}{}
		if h.best == nil || rec.Engagement > h.best.Engagement {
			h.best = rec
		}
	}

	recs := make([]models.TimingRecommendation, 0, hoursPerDay)
	for hour := range hours {
		h := &hours[hour]
		if h.count == 0 {
			continue
		}
		avg := float64(h.engagement) / float64(h.count)
		best := *h.best
		recs = append(recs, models.TimingRecommendation{
			Hour:         hour,
			Score:        avg,
			Reason:       fmt.Sprintf("Best engagement (%.1f) with %d content types", avg, len(h.types)),
			ContentTypes: len(h.types),
			BestContent:  &best,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if limit := e.topHours(); len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

func (e *Engine) topTopics() int {
	if e.TopTopics <= 0 {
		return defaultTopTopics
	}
	return e.TopTopics
}

func (e *Engine) topHours() int {
	if e.TopHours <= 0 {
		return defaultTopHours
	}
	return e.TopHours
}

// Proportion scales a score against the best score of its category, for bar widths
func Proportion(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return score / maxScore
}

// MaxScore returns the highest score in a list, zero for an empty list
func MaxScore(scores ...float64) float64 {
	var m float64
	for i, s := range scores {
		if i == 0 || s > m {
			m = s
		}
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
