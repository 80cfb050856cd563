package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/trendlens/internal/classifier"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/recommend"
	"github.com/xaenox/trendlens/internal/scraper"
	"github.com/xaenox/trendlens/internal/storage"
	"github.com/xaenox/trendlens/internal/telemetry"
	"github.com/xaenox/trendlens/internal/trends"
	"go.uber.org/zap"
)

var observed = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

type failingStorage struct {
	storage.Storage
}

func (failingStorage) GetTrendRecords(ctx context.Context) ([]models.ContentRecord, error) {
	return nil, fmt.Errorf("%w: connection reset", storage.ErrStorageUnavailable)
}

func (failingStorage) AppendRecord(ctx context.Context, record models.ContentRecord) error {
	return fmt.Errorf("%w: connection reset", storage.ErrStorageUnavailable)
}

func newTestAnalyzer(t *testing.T, store storage.Storage, fetcher scraper.Fetcher, opts Options) (*Analyzer, *telemetry.Metrics) {
	t.Helper()
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	cls := classifier.NewRuleClassifier(classifier.DefaultOptions()).WithClock(func() time.Time { return observed })
	a := New(store, cls, recommend.NewEngine(time.UTC), fetcher, metrics, zap.NewNop(), opts)
	a.now = func() time.Time { return observed }
	return a, metrics
}

func memeImage() models.RawDescriptor {
	return models.RawDescriptor{
		Tag:        models.TagImage,
		Src:        "https://cdn.example.com/funny-meme.jpg",
		Box:        models.Box{Width: 800, Height: 600},
		ObservedAt: observed.UnixMilli(),
	}
}

func youtubeEmbed() models.RawDescriptor {
	return models.RawDescriptor{
		Tag:        models.TagIFrame,
		Src:        "https://www.youtube.com/embed/abc",
		Box:        models.Box{Width: 360, Height: 640},
		ObservedAt: observed.UnixMilli(),
	}
}

func TestAnalyzer_Ingest(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	a, metrics := newTestAnalyzer(t, store, nil, Options{})
	ctx := context.Background()

	d := memeImage()
	record, ok, err := a.Ingest(ctx, &d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.ImageMedia, record.Type)
	assert.Equal(t, models.LandscapeFormat, record.Format)
	assert.Equal(t, []string{classifier.CharMeme}, record.Characteristics)

	invalid := models.RawDescriptor{Tag: models.TagImage, Src: ""}
	record, ok, err = a.Ingest(ctx, &invalid)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, record)

	records, err := a.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DescriptorsSkipped))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RecordsClassified.WithLabelValues("image")))
}

func TestAnalyzer_IngestBatch(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	a, _ := newTestAnalyzer(t, store, nil, Options{})

	records, skipped, err := a.IngestBatch(context.Background(), []models.RawDescriptor{
		memeImage(),
		{Tag: models.TagImage, Src: "data:image/png;base64,AAAA"},
		youtubeEmbed(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, models.VideoMedia, records[1].Type)
	assert.Equal(t, models.VerticalFormat, records[1].Format)
	assert.Contains(t, records[1].Characteristics, classifier.CharYouTube)

	stored, err := store.GetTrendRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAnalyzer_IngestPageReplacesCollection(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	fetcher := &fakeFetcher{html: `<html><body>
		<article class="post"><h2>Travel</h2>
			<img src="/photos/beach.jpg" width="800" height="600" alt="Sunny beach">
			<p>120 likes</p>
		</article>
		<img src="">
	</body></html>`}
	a, metrics := newTestAnalyzer(t, store, fetcher, Options{})
	ctx := context.Background()

	old := memeImage()
	_, _, err := a.Ingest(ctx, &old)
	require.NoError(t, err)

	result, err := a.IngestPage(ctx, "https://blog.example.com/trip")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Found)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "https://blog.example.com/photos/beach.jpg", rec.URL)
	assert.Equal(t, int64(120), rec.Engagement)
	assert.Equal(t, []string{"Travel"}, rec.Metadata.Topics)
	assert.Equal(t, observed.UnixMilli(), rec.Timestamp)

	records, err := a.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.URL, records[0].URL)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PagesFetched.WithLabelValues("ok")))
}

func TestAnalyzer_IngestPageFetchError(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	fetcher := &fakeFetcher{err: fmt.Errorf("%w: timeout", scraper.ErrFetchFailed)}
	a, _ := newTestAnalyzer(t, store, fetcher, Options{})
	ctx := context.Background()

	d := memeImage()
	_, _, err := a.Ingest(ctx, &d)
	require.NoError(t, err)

	_, err = a.IngestPage(ctx, "https://blog.example.com")
	assert.ErrorIs(t, err, scraper.ErrFetchFailed)

	records, err := a.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAnalyzer_IngestPageWithoutFetcher(t *testing.T) {
	a, _ := newTestAnalyzer(t, storage.NewMemoryStorage(10), nil, Options{})
	_, err := a.IngestPage(context.Background(), "https://blog.example.com")
	assert.ErrorIs(t, err, scraper.ErrFetchFailed)
}

func TestAnalyzer_IngestPageRejectsNonHTTPURLs(t *testing.T) {
	tests := []string{
		"ftp://files.example.com/page.html",
		"/relative/page",
		"file:///etc/passwd",
		"gopher://127.0.0.1:6379/_INFO",
		"",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			store := storage.NewMemoryStorage(10)
			fetcher := &fakeFetcher{html: `<img src="/a.png">`}
			a, metrics := newTestAnalyzer(t, store, fetcher, Options{})
			ctx := context.Background()

			d := memeImage()
			_, _, err := a.Ingest(ctx, &d)
			require.NoError(t, err)

			_, err = a.IngestPage(ctx, raw)
			assert.ErrorIs(t, err, scraper.ErrInvalidURL)
			assert.Zero(t, fetcher.calls)
			assert.Zero(t, testutil.CollectAndCount(metrics.PagesFetched))

			records, err := a.Records(ctx)
			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}
}

func TestAnalyzer_Report(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	a, metrics := newTestAnalyzer(t, store, nil, Options{
		Alerts: trends.AlertSettings{
			ContentTypeThresholds: map[models.MediaType]int{models.VideoMedia: 1},
		},
	})
	ctx := context.Background()

	_, _, err := a.IngestBatch(ctx, []models.RawDescriptor{memeImage(), youtubeEmbed()})
	require.NoError(t, err)

	report, err := a.Report(ctx, observed.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Summary.Total)
	require.Len(t, report.Clusters, 2)
	assert.Equal(t, classifier.CharMeme, report.Clusters[0].Characteristic)
	assert.Equal(t, classifier.CharYouTube, report.Clusters[1].Characteristic)
	assert.Equal(t, 1, report.Realtime[models.VideoMedia].Count)
	assert.Equal(t, 1, report.Realtime[models.ImageMedia].Count)
	require.NotNil(t, report.Recommendations)
	assert.Len(t, report.Recommendations.ContentTypes, 2)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, trends.AlertThreshold, report.Alerts[0].Kind)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AlertsRaised.WithLabelValues(string(trends.AlertThreshold))))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.StoredRecords))
}

func TestAnalyzer_ReportEmpty(t *testing.T) {
	a, _ := newTestAnalyzer(t, storage.NewMemoryStorage(10), nil, Options{})

	report, err := a.Report(context.Background(), observed)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Empty(t, report.Clusters)
	assert.Empty(t, report.Alerts)
	assert.Empty(t, report.Context.Keywords)
}

func TestAnalyzer_Reset(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	a, _ := newTestAnalyzer(t, store, nil, Options{})
	ctx := context.Background()

	d := memeImage()
	_, _, err := a.Ingest(ctx, &d)
	require.NoError(t, err)
	require.NoError(t, a.Reset(ctx))

	records, err := a.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyzer_StorageUnavailable(t *testing.T) {
	a, _ := newTestAnalyzer(t, failingStorage{}, nil, Options{})
	ctx := context.Background()

	_, err := a.Report(ctx, observed)
	assert.True(t, errors.Is(err, storage.ErrStorageUnavailable))

	d := memeImage()
	_, ok, err := a.Ingest(ctx, &d)
	assert.True(t, ok)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
}
