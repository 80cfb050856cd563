// Package trends aggregates a snapshot of content records into clusters,
// keyword/topic context, realtime windows, alerts and dashboard totals.
// Every function here is a pure projection of its inputs.
package trends

import (
	"sort"

	"github.com/xaenox/trendlens/internal/models"
)

// BuildClusters groups records by characteristic. A record with k
// characteristics contributes to k clusters. Cluster content is
// deduplicated by URL, first seen wins.
func BuildClusters(records []models.ContentRecord) map[string]*models.Cluster {
	clusters := make(map[string]*models.Cluster)
	seenURLs := make(map[string]map[string]struct{})

	for i := range records {
		rec := &records[i]
		chars := uniqueTags(rec.Characteristics)

		for _, char := range chars {
			cluster, ok := clusters[char]
			if !ok {
				cluster = newCluster(char, len(clusters))
				clusters[char] = cluster
				seenURLs[char] = make(map[string]struct{})
			}

			cluster.Total++
			if rec.Type != "" {
				cluster.Types[rec.Type]++
			}

			if rec.URL != "" {
				if _, dup := seenURLs[char][rec.URL]; !dup {
					seenURLs[char][rec.URL] = struct{}{}
					cluster.Content = append(cluster.Content, projectRecord(rec))
				}
			}

			for _, other := range chars {
				if other != char {
					cluster.RelatedChars[other]++
				}
			}
		}
	}

	return clusters
}

// RankClusters orders clusters by total descending; ties keep the order in
// which characteristics were first encountered.
func RankClusters(clusters map[string]*models.Cluster) []*models.Cluster {
	ranked := make([]*models.Cluster, 0, len(clusters))
	for _, c := range clusters {
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].FirstSeen < ranked[j].FirstSeen
	})
	return ranked
}

// Count is a key with its frequency
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopCounts sorts a frequency map descending, ties broken by key, and keeps
// at most limit entries (all of them when limit <= 0).
func TopCounts(freq map[string]int, limit int) []Count {
	counts := make([]Count, 0, len(freq))
	for k, v := range freq {
		counts = append(counts, Count{Key: k, Count: v})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Key < counts[j].Key
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func newCluster(char string, order int) *models.Cluster {
	types := make(map[models.MediaType]int, len(models.MediaTypes))
	for _, t := range models.MediaTypes {
		types[t] = 0
	}
	return &models.Cluster{
		Characteristic: char,
		Types:          types,
		Content:        []models.ClusterItem{},
		RelatedChars:   make(map[string]int),
		FirstSeen:      order,
	}
}

func projectRecord(rec *models.ContentRecord) models.ClusterItem {
	return models.ClusterItem{
		Type:            rec.Type,
		URL:             rec.URL,
		Timestamp:       rec.Timestamp,
		Characteristics: append([]string(nil), rec.Characteristics...),
		Metadata: models.Metadata{
			Keywords: append([]string(nil), rec.Metadata.Keywords...),
			Topics:   append([]string(nil), rec.Metadata.Topics...),
		},
		Engagement: rec.Engagement,
	}
}

// uniqueTags drops empty and repeated tags so a malformed record cannot
// count twice toward one cluster.
func uniqueTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
