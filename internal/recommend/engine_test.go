package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/trends"
)

func at(hour, minute int) int64 {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func fixture() []models.ContentRecord {
	return []models.ContentRecord{
		{
			URL: "https://a.test/1.png", Type: models.ImageMedia, Engagement: 10, Timestamp: at(9, 0),
			Characteristics: []string{"icon"},
			Metadata:        models.Metadata{Keywords: []string{"shoes", "sale"}, Topics: []string{"Fashion"}},
		},
		{
			URL: "https://a.test/2.png", Type: models.ImageMedia, Engagement: 30, Timestamp: at(9, 30),
			Characteristics: []string{"icon", "product-photo"},
			Metadata:        models.Metadata{Keywords: []string{"shoes"}, Topics: []string{"Fashion", "Sport"}},
		},
		{
			URL: "https://a.test/v.mp4", Type: models.VideoMedia, Engagement: 100, Timestamp: at(20, 0),
			Characteristics: []string{"ugc"},
			Metadata:        models.Metadata{Keywords: []string{"goal"}, Topics: []string{"Sport"}},
		},
		{
			URL: "https://a.test/g.gif", Type: models.GIFMedia, Engagement: 0, Timestamp: at(3, 0),
		},
	}
}

func generate(records []models.ContentRecord) *models.RecommendationSet {
	return NewEngine(time.UTC).Generate(records, trends.BuildClusters(records), trends.AnalyzeContext(records))
}

func TestGenerate_Empty(t *testing.T) {
	set := generate(nil)

	require.NotNil(t, set.ContentTypes)
	require.NotNil(t, set.Topics)
	require.NotNil(t, set.Timing)
	assert.Empty(t, set.ContentTypes)
	assert.Empty(t, set.Topics)
	assert.Empty(t, set.Timing)
}

func TestGenerate_ContentTypes(t *testing.T) {
	set := generate(fixture())

	require.Len(t, set.ContentTypes, 3)

	video := set.ContentTypes[0]
	assert.Equal(t, models.VideoMedia, video.Type)
	assert.InDelta(t, 100*0.5+1*0.3+1*0.2, video.Score, 1e-9)
	assert.Equal(t, "High engagement (100.0) with diverse topics (1) and relevant keywords (1)", video.Reason)
	assert.Equal(t, "ugc", video.LeadingCharacteristic)

	image := set.ContentTypes[1]
	assert.Equal(t, models.ImageMedia, image.Type)
	assert.InDelta(t, 20*0.5+2*0.3+2*0.2, image.Score, 1e-9)
	assert.Equal(t, []string{"Fashion", "Sport"}, image.Topics)
	assert.Equal(t, []string{"shoes", "sale"}, image.Keywords)
	assert.Equal(t, "icon", image.LeadingCharacteristic)

	gif := set.ContentTypes[2]
	assert.Equal(t, models.GIFMedia, gif.Type)
	assert.Zero(t, gif.Score)
	assert.Empty(t, gif.LeadingCharacteristic)

	for i := 1; i < len(set.ContentTypes); i++ {
		assert.GreaterOrEqual(t, set.ContentTypes[i-1].Score, set.ContentTypes[i].Score)
	}
}

func TestGenerate_Topics(t *testing.T) {
	set := generate(fixture())

	require.Len(t, set.Topics, 2)
	assert.Equal(t, "Sport", set.Topics[0].Topic)
	assert.Equal(t, float64(130), set.Topics[0].Score)
	assert.Equal(t, "High engagement (130) across 2 pieces of content", set.Topics[0].Reason)
	assert.Len(t, set.Topics[0].Content, 2)
	assert.Equal(t, "Fashion", set.Topics[1].Topic)
	assert.Equal(t, float64(40), set.Topics[1].Score)
}

func TestGenerate_TopicsCappedAtFive(t *testing.T) {
	var records []models.ContentRecord
	for i, topic := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		records = append(records, models.ContentRecord{
			URL: "https://a.test/" + topic, Type: models.ImageMedia, Engagement: int64(i),
			Metadata: models.Metadata{Topics: []string{topic}},
		})
	}

	set := generate(records)

	require.Len(t, set.Topics, 5)
	assert.Equal(t, "g", set.Topics[0].Topic)
	assert.Equal(t, "c", set.Topics[4].Topic)
}

func TestGenerate_Timing(t *testing.T) {
	set := generate(fixture())

	require.Len(t, set.Timing, 3)

	assert.Equal(t, 20, set.Timing[0].Hour)
	assert.Equal(t, float64(100), set.Timing[0].Score)

	morning := set.Timing[1]
	assert.Equal(t, 9, morning.Hour)
	assert.Equal(t, float64(20), morning.Score)
	assert.Equal(t, "Best engagement (20.0) with 1 content types", morning.Reason)
	require.NotNil(t, morning.BestContent)
	assert.Equal(t, "https://a.test/2.png", morning.BestContent.URL)

	assert.Equal(t, 3, set.Timing[2].Hour)

	for _, slot := range set.Timing {
		assert.Equal(t, models.VideoMedia, slot.BestContentType, "every slot joins the top content type")
	}
}

func TestGenerate_TimingUsesLocation(t *testing.T) {
	records := []models.ContentRecord{{URL: "https://a.test/1", Type: models.ImageMedia, Engagement: 1, Timestamp: at(23, 0)}}
	loc := time.FixedZone("UTC+2", 2*60*60)

	set := NewEngine(loc).Generate(records, nil, nil)

	require.Len(t, set.Timing, 1)
	assert.Equal(t, 1, set.Timing[0].Hour)
	assert.Empty(t, set.Topics)
}

func TestGenerate_NoPositiveTypeLeavesBestTypeEmpty(t *testing.T) {
	records := []models.ContentRecord{{URL: "https://a.test/1", Type: models.ImageMedia, Timestamp: at(1, 0)}}

	set := generate(records)

	require.Len(t, set.Timing, 1)
	assert.Empty(t, set.Timing[0].BestContentType)
}

func TestGenerate_Idempotent(t *testing.T) {
	records := fixture()
	assert.Equal(t, generate(records), generate(records))
}

func TestProportion(t *testing.T) {
	scores := []float64{4, 2, 1}
	maxScore := MaxScore(scores...)

	assert.Equal(t, 4.0, maxScore)
	assert.Equal(t, 0.5, Proportion(2, maxScore))
	assert.Zero(t, Proportion(3, 0))
	assert.Zero(t, MaxScore())
}

func TestGenerate_SaturatedEngagementStaysPositive(t *testing.T) {
	records := []models.ContentRecord{
		{
			URL: "https://a.test/1.png", Type: models.ImageMedia, Engagement: math.MaxInt64, Timestamp: at(10, 0),
			Metadata: models.Metadata{Topics: []string{"Deals"}},
		},
		{
			URL: "https://a.test/2.png", Type: models.ImageMedia, Engagement: math.MaxInt64, Timestamp: at(10, 15),
			Metadata: models.Metadata{Topics: []string{"Deals"}},
		},
	}

	set := generate(records)

	require.Len(t, set.ContentTypes, 1)
	assert.Greater(t, set.ContentTypes[0].AvgEngagement, float64(0))
	assert.Greater(t, set.ContentTypes[0].Score, float64(0))
	require.Len(t, set.Topics, 1)
	assert.Greater(t, set.Topics[0].Score, float64(0))
	require.Len(t, set.Timing, 1)
	assert.Equal(t, 10, set.Timing[0].Hour)
	assert.Greater(t, set.Timing[0].Score, float64(0))
}
