package bot

import (
	"fmt"
	"strings"

	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/recommend"
	"github.com/xaenox/trendlens/internal/trends"
)

const (
	maxListed  = 5
	barWidth   = 10
	emptyNotes = "No media collected yet\\. Use /analyze <url> or send me media links\\."
)

func hashtag(tag string) string {
	return escapeMarkdown("#" + strings.ReplaceAll(tag, " ", "_"))
}

// bar renders score as a proportion of best using block characters
func bar(score, best float64) string {
	filled := int(recommend.Proportion(score, best)*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func formatRecorded(records []models.ContentRecord, skipped int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Recorded %d item\\(s\\)*\n", len(records))
	for _, rec := range records {
		line := fmt.Sprintf("%s %s", rec.Type, rec.Format)
		b.WriteString(escapeMarkdown(line))
		for _, c := range rec.Characteristics {
			b.WriteString(" " + hashtag(c))
		}
		b.WriteString("\n")
	}
	if skipped > 0 {
		b.WriteString(escapeMarkdown(fmt.Sprintf("Skipped %d link(s) without a usable URL.", skipped)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPageResult(result *analyzer.PageResult) string {
	counts := make(map[models.MediaType]int)
	for _, rec := range result.Records {
		counts[rec.Type]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Analyzed* %s\n", escapeMarkdown(result.PageURL))
	b.WriteString(escapeMarkdown(fmt.Sprintf("Found %d media element(s), recorded %d.", result.Found, len(result.Records))))
	for _, t := range models.MediaTypes {
		if counts[t] > 0 {
			b.WriteString("\n" + escapeMarkdown(fmt.Sprintf("%s: %d", t, counts[t])))
		}
	}
	return b.String()
}

func formatClusters(clusters []*models.Cluster) string {
	if len(clusters) == 0 {
		return emptyNotes
	}
	var b strings.Builder
	b.WriteString("*Trending characteristics*\n")
	top := clusters[0].Total
	for _, c := range clusters[:min(maxListed, len(clusters))] {
		types := make([]string, 0, len(models.MediaTypes))
		for _, t := range models.MediaTypes {
			if n := c.Types[t]; n > 0 {
				types = append(types, fmt.Sprintf("%s %d", t, n))
			}
		}
		fmt.Fprintf(&b, "%s `%s` %s\n",
			hashtag(c.Characteristic),
			bar(float64(c.Total), float64(top)),
			escapeMarkdown(fmt.Sprintf("%d (%s)", c.Total, strings.Join(types, ", "))))
		related := trends.TopCounts(c.RelatedChars, 3)
		if len(related) > 0 {
			names := make([]string, 0, len(related))
			for _, r := range related {
				names = append(names, hashtag(r.Key))
			}
			fmt.Fprintf(&b, "  _with_ %s\n", strings.Join(names, " "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatContext(analysis *models.ContextAnalysis) string {
	if len(analysis.Keywords) == 0 && len(analysis.Topics) == 0 {
		return emptyNotes
	}
	var b strings.Builder
	if keywords := trends.TopKeywords(analysis, maxListed); len(keywords) > 0 {
		b.WriteString("*Top keywords*\n")
		for _, k := range keywords {
			fmt.Fprintf(&b, "%s %s\n", hashtag(k.Keyword),
				escapeMarkdown(fmt.Sprintf("x%d, engagement %d", k.Count, k.Engagement)))
		}
	}
	if topics := trends.TopTopics(analysis, maxListed); len(topics) > 0 {
		b.WriteString("\n*Top topics*\n")
		for _, t := range topics {
			b.WriteString(escapeMarkdown(fmt.Sprintf("%s: x%d, engagement %d", t.Topic, t.Count, t.Engagement)) + "\n")
		}
	}
	if assocs := trends.TopAssociations(analysis, 3); len(assocs) > 0 {
		b.WriteString("\n*Associations*\n")
		for _, a := range assocs {
			words := make([]string, 0, 3)
			for _, kw := range trends.TopCounts(a.Keywords, 3) {
				words = append(words, kw.Key)
			}
			fmt.Fprintf(&b, "%s %s\n", hashtag(a.Characteristic), escapeMarkdown(strings.Join(words, ", ")))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRealtime(groups map[models.MediaType]*models.RealtimeTrend) string {
	if len(groups) == 0 {
		return "Nothing collected in the last hour\\."
	}
	var b strings.Builder
	b.WriteString("*Realtime trends*\n")
	for _, t := range models.MediaTypes {
		g, ok := groups[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s", escapeMarkdown(fmt.Sprintf("%s: %d", t, g.Count)))
		for _, c := range trends.TopCharacteristics(g, 3) {
			b.WriteString(" " + hashtag(c.Key))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRecommendations(set *models.RecommendationSet) string {
	if len(set.ContentTypes) == 0 {
		return emptyNotes
	}
	var b strings.Builder
	b.WriteString("*Content types*\n")
	scores := make([]float64, 0, len(set.ContentTypes))
	for _, r := range set.ContentTypes {
		scores = append(scores, r.Score)
	}
	best := recommend.MaxScore(scores...)
	for _, r := range set.ContentTypes {
		fmt.Fprintf(&b, "%s `%s` %s\n",
			escapeMarkdown(string(r.Type)),
			bar(r.Score, best),
			escapeMarkdown(r.Reason))
	}

	if len(set.Topics) > 0 {
		b.WriteString("\n*Topics*\n")
		for _, r := range set.Topics {
			b.WriteString(escapeMarkdown(fmt.Sprintf("%s: %s", r.Topic, r.Reason)) + "\n")
		}
	}

	if len(set.Timing) > 0 {
		b.WriteString("\n*Best hours*\n")
		for _, r := range set.Timing {
			line := fmt.Sprintf("%02d:00 %s", r.Hour, r.Reason)
			if r.BestContentType != "" {
				line += fmt.Sprintf(" (post %s)", r.BestContentType)
			}
			b.WriteString(escapeMarkdown(line) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAlerts(alerts []trends.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts\\."
	}
	var b strings.Builder
	b.WriteString("*Alerts*\n")
	for _, a := range alerts {
		icon := "🟡"
		if a.Severity == trends.SeverityHigh {
			icon = "🔴"
		}
		b.WriteString(icon + " " + escapeMarkdown(a.Message) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
