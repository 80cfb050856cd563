package classifier

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xaenox/trendlens/internal/models"
)

var (
	wordPattern    = regexp.MustCompile(`\w+`)
	integerPattern = regexp.MustCompile(`\d+`)
)

const minKeywordLength = 4

// defaultStopWords never become keywords
var defaultStopWords = []string{
	"that", "have", "with", "this", "from", "they", "will", "would",
	"there", "their", "what", "about", "which", "when", "your", "more",
	"been", "were", "into", "than", "then", "them", "these", "some",
	"only", "also", "just",
}

// EstimateEngagement sums every integer token in the text of the nearest
// article, post or product container. Zero when there is no container or no digits.
func EstimateEngagement(d *models.RawDescriptor) int64 {
	container := closest(d, engagementSelector)
	if container == nil {
		return 0
	}

	var total int64
	for _, token := range integerPattern.FindAllString(container.Text, -1) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			// overflowing token
			n = math.MaxInt64
		}
		total = models.AddEngagement(total, n)
	}
	return total
}

// ExtractKeywords returns up to limit distinct lowercase words longer than
// three characters from alt, title, aria-label and container text, in scan order.
func ExtractKeywords(d *models.RawDescriptor, stopWords map[string]struct{}, limit int) []string {
	parts := []string{d.Alt, d.Title, d.AriaLabel}
	if container := closest(d, engagementSelector); container != nil {
		parts = append(parts, container.Text)
	}
	text := strings.ToLower(strings.Join(parts, " "))

	keywords := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, word := range wordPattern.FindAllString(text, -1) {
		if len(keywords) >= limit {
			break
		}
		if len(word) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// ExtractTopics returns up to limit distinct trimmed labels of the nearest
// article, section, post or product container, in document order.
func ExtractTopics(d *models.RawDescriptor, limit int) []string {
	topics := make([]string, 0, limit)
	container := closest(d, topicSelector)
	if container == nil {
		return topics
	}

	seen := make(map[string]struct{}, limit)
	for _, label := range container.Labels {
		if len(topics) >= limit {
			break
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		topics = append(topics, label)
	}
	return topics
}

func buildStopWords(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopWords)+len(extra))
	for _, w := range defaultStopWords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
