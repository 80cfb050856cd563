// Package classifier turns raw media descriptors into content records using a
// deterministic rule table.
package classifier

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/trendlens/internal/models"
)

type Classifier interface {
	// Classify returns false when the descriptor has no usable URL.
	Classify(d *models.RawDescriptor) (*models.ContentRecord, bool)
}

// Options tunes the rule classifier
type Options struct {
	IconMaxSize    float64
	MaxKeywords    int
	MaxTopics      int
	ExtraStopWords []string
}

// DefaultOptions returns the standard limits: 48px icons, 5 keywords, 3 topics
func DefaultOptions() Options {
	return Options{
		IconMaxSize: 48,
		MaxKeywords: 5,
		MaxTopics:   3,
	}
}

type RuleClassifier struct {
	rules     *RuleSet
	opts      Options
	stopWords map[string]struct{}
	now       func() time.Time
	newID     func() string
}

func NewRuleClassifier(opts Options) *RuleClassifier {
	defaults := DefaultOptions()
	if opts.IconMaxSize <= 0 {
		opts.IconMaxSize = defaults.IconMaxSize
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = defaults.MaxKeywords
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = defaults.MaxTopics
	}

	return &RuleClassifier{
		rules:     NewRuleSet(DefaultRules),
		opts:      opts,
		stopWords: buildStopWords(opts.ExtraStopWords),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock replaces the clock used for descriptors that carry no observation time
func (c *RuleClassifier) WithClock(now func() time.Time) *RuleClassifier {
	c.now = now
	return c
}

// Vocabulary lists every characteristic this classifier can emit
func (c *RuleClassifier) Vocabulary() []string {
	return c.rules.Vocabulary()
}

func (c *RuleClassifier) Classify(d *models.RawDescriptor) (*models.ContentRecord, bool) {
	if d == nil {
		return nil, false
	}
	mediaURL, ok := resolveMediaURL(d.Src, d.PageURL)
	if !ok {
		return nil, false
	}

	mediaType := detectMediaType(d.Tag, mediaURL)
	width, height := boxSize(d)

	timestamp := d.ObservedAt
	if timestamp <= 0 {
		timestamp = c.now().UnixMilli()
	}

	subject := newSubject(d, mediaType, mediaURL, c.opts.IconMaxSize)

	return &models.ContentRecord{
		ID:              c.newID(),
		URL:             mediaURL,
		Type:            mediaType,
		Format:          DetectFormat(width, height),
		Characteristics: c.rules.Evaluate(subject),
		Engagement:      EstimateEngagement(d),
		Metadata: models.Metadata{
			Keywords: ExtractKeywords(d, c.stopWords, c.opts.MaxKeywords),
			Topics:   ExtractTopics(d, c.opts.MaxTopics),
		},
		Timestamp: timestamp,
		PageURL:   d.PageURL,
	}, true
}

func detectMediaType(tag models.TagKind, mediaURL string) models.MediaType {
	switch models.TagKind(strings.ToLower(string(tag))) {
	case models.TagVideo, models.TagIFrame:
		return models.VideoMedia
	}
	if isGIF(mediaURL) {
		return models.GIFMedia
	}
	return models.ImageMedia
}
