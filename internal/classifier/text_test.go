package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xaenox/trendlens/internal/models"
)

func TestEstimateEngagement(t *testing.T) {
	tests := []struct {
		name      string
		ancestors []models.Ancestor
		want      int64
	}{
		{"no container", nil, 0},
		{"container without digits", []models.Ancestor{{Tag: "article", Text: "hello"}}, 0},
		{"sums integers", []models.Ancestor{{Tag: "article", Text: "12 likes, 3 comments and 1.5k views"}}, 21},
		{
			"nearest container wins",
			[]models.Ancestor{
				{Tag: "div", Classes: []string{"post"}, Text: "7"},
				{Tag: "article", Text: "100"},
			},
			7,
		},
		{
			"section is not an engagement container",
			[]models.Ancestor{{Tag: "section", Text: "99"}},
			0,
		},
		{
			"saturates on overflow",
			[]models.Ancestor{{Tag: "article", Text: "99999999999999999999 1"}},
			math.MaxInt64,
		},
		{
			"overflowing token followed by a count",
			[]models.Ancestor{{Tag: "article", Text: "Order #123456789012345678901 - 12 likes"}},
			math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateEngagement(&models.RawDescriptor{Ancestors: tt.ancestors})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	stop := buildStopWords([]string{"Banana"})

	d := &models.RawDescriptor{
		Alt:       "The Sunset over THE beach",
		Title:     "sunset with banana",
		AriaLabel: "golden hour",
		Ancestors: []models.Ancestor{{Tag: "article", Text: "Travel diary entries"}},
	}

	got := ExtractKeywords(d, stop, 5)
	assert.Equal(t, []string{"sunset", "over", "beach", "golden", "hour"}, got)
}

func TestExtractKeywords_IgnoresTextOutsideContainers(t *testing.T) {
	d := &models.RawDescriptor{
		Alt:       "cat",
		Ancestors: []models.Ancestor{{Tag: "section", Text: "lots of section words"}},
	}
	assert.Empty(t, ExtractKeywords(d, buildStopWords(nil), 5))
}

func TestExtractTopics(t *testing.T) {
	d := &models.RawDescriptor{
		Ancestors: []models.Ancestor{
			{Tag: "figure", Labels: []string{"ignored"}},
			{Tag: "section", Labels: []string{"  Recipes ", "", "Baking", "Recipes", "Desserts", "Bread"}},
		},
	}
	assert.Equal(t, []string{"Recipes", "Baking", "Desserts"}, ExtractTopics(d, 3))
	assert.Empty(t, ExtractTopics(&models.RawDescriptor{}, 3))
}

func TestDefaultStopWords_AllReachKeywordLength(t *testing.T) {
	for _, w := range defaultStopWords {
		assert.GreaterOrEqual(t, len(w), minKeywordLength, w)
	}
}
