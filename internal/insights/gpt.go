package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/trends"
	"go.uber.org/zap"
)

// reportDigest is the compact view of a report sent to the model
type reportDigest struct {
	Total        int            `json:"total"`
	Media        map[string]int `json:"media"`
	TopClusters  map[string]int `json:"top_clusters"`
	TopKeywords  []string       `json:"top_keywords"`
	BestType     string         `json:"best_type,omitempty"`
	TopTopics    []string       `json:"top_topics"`
	BestHours    []int          `json:"best_hours"`
	AlertSummary []string       `json:"alerts"`
}

// GPTSummarizer asks an OpenAI chat model for the narrative and falls back
// to the template summary when the call or the reply is unusable.
type GPTSummarizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    Summarizer
	logger      *zap.Logger
}

func NewGPTSummarizer(apiKey string, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTSummarizer {
	return newGPTSummarizer(openai.NewClient(apiKey), model, maxTokens, temperature, logger)
}

func newGPTSummarizer(client *openai.Client, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTSummarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GPTSummarizer{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		fallback:    NewTemplateSummarizer(),
		logger:      logger,
	}
}

func (s *GPTSummarizer) Summarize(ctx context.Context, report *analyzer.Report) (string, error) {
	if report == nil || report.Total == 0 {
		return s.fallback.Summarize(ctx, report)
	}

	digest, err := json.Marshal(digestOf(report))
	if err != nil {
		return "", fmt.Errorf("failed to encode report digest: %w", err)
	}

	prompt := fmt.Sprintf(`You are a social media analyst. Using the visual content statistics below,
write at most four short sentences for a content creator:
- which media types and characteristics are trending
- which topics and posting hours to target
- any alert worth acting on

Statistics (JSON): %s`, digest)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   s.maxTokens,
			Temperature: float32(s.temperature),
		},
	)
	if err != nil {
		s.logger.Error("Failed to get GPT response", zap.Error(err))
		return s.fallback.Summarize(ctx, report)
	}

	if len(resp.Choices) == 0 {
		s.logger.Error("Failed to parse GPT response", zap.Error(errors.New("no choices returned")))
		return s.fallback.Summarize(ctx, report)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		s.logger.Warn("GPT returned an empty summary")
		return s.fallback.Summarize(ctx, report)
	}
	return text, nil
}

func digestOf(report *analyzer.Report) reportDigest {
	d := reportDigest{
		Total:       report.Total,
		Media:       map[string]int{},
		TopClusters: map[string]int{},
	}
	if report.Summary != nil {
		for t, n := range report.Summary.Media {
			d.Media[string(t)] = n
		}
	}
	for i, c := range report.Clusters {
		if i == 5 {
			break
		}
		d.TopClusters[c.Characteristic] = c.Total
	}
	if report.Context != nil {
		for _, kw := range trends.TopKeywords(report.Context, 5) {
			d.TopKeywords = append(d.TopKeywords, kw.Keyword)
		}
	}
	if recs := report.Recommendations; recs != nil {
		if len(recs.ContentTypes) > 0 && recs.ContentTypes[0].Score > 0 {
			d.BestType = string(recs.ContentTypes[0].Type)
		}
		for _, t := range recs.Topics {
			d.TopTopics = append(d.TopTopics, t.Topic)
		}
		for _, t := range recs.Timing {
			d.BestHours = append(d.BestHours, t.Hour)
		}
	}
	for _, a := range report.Alerts {
		d.AlertSummary = append(d.AlertSummary, a.Message)
	}
	return d
}
