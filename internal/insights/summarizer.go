// Package insights turns an analysis report into a short narrative.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/models"
)

type Summarizer interface {
	Summarize(ctx context.Context, report *analyzer.Report) (string, error)
}

// TemplateSummarizer renders a fixed English narrative from the report numbers
type TemplateSummarizer struct {
	TopClusters int
}

func NewTemplateSummarizer() *TemplateSummarizer {
	return &TemplateSummarizer{TopClusters: 3}
}

func (s *TemplateSummarizer) Summarize(_ context.Context, report *analyzer.Report) (string, error) {
	if report == nil || report.Total == 0 {
		return "No media has been collected yet. Analyze a page to start spotting trends.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d media items", report.Total)
	if sum := report.Summary; sum != nil {
		parts := make([]string, 0, len(sum.Media))
		for _, t := range mediaOrder(sum.Media) {
			parts = append(parts, fmt.Sprintf("%d %s", sum.Media[t], t))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
	}
	b.WriteString(".")

	if n := min(s.TopClusters, len(report.Clusters)); n > 0 {
		names := make([]string, 0, n)
		for _, c := range report.Clusters[:n] {
			names = append(names, fmt.Sprintf("%s (%d)", c.Characteristic, c.Total))
		}
		fmt.Fprintf(&b, "\nLeading characteristics: %s.", strings.Join(names, ", "))
	}

	if recs := report.Recommendations; recs != nil {
		if len(recs.ContentTypes) > 0 && recs.ContentTypes[0].Score > 0 {
			top := recs.ContentTypes[0]
			fmt.Fprintf(&b, "\nBest performing content type: %s (score %.2f).", top.Type, top.Score)
		}
		if len(recs.Topics) > 0 {
			fmt.Fprintf(&b, "\nTop topic: %s.", recs.Topics[0].Topic)
		}
		if len(recs.Timing) > 0 {
			hours := make([]string, 0, len(recs.Timing))
			for _, t := range recs.Timing {
				hours = append(hours, fmt.Sprintf("%02d:00", t.Hour))
			}
			fmt.Fprintf(&b, "\nBest posting hours: %s.", strings.Join(hours, ", "))
		}
	}

	if len(report.Alerts) > 0 {
		fmt.Fprintf(&b, "\n%d active alert(s): %s", len(report.Alerts), report.Alerts[0].Message)
	}
	return b.String(), nil
}

func mediaOrder(media map[models.MediaType]int) []models.MediaType {
	out := make([]models.MediaType, 0, len(media))
	for _, t := range models.MediaTypes {
		if media[t] > 0 {
			out = append(out, t)
		}
	}
	return out
}
