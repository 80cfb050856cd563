package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/trendlens/internal/insights"
	"github.com/xaenox/trendlens/internal/models"
	"github.com/xaenox/trendlens/internal/storage"
	"github.com/xaenox/trendlens/pkg/config"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{UseInMemory: true},
		Storage:  config.StorageConfig{Capacity: 2},
		Analysis: config.AnalysisConfig{Timezone: "UTC", RealtimeWindow: time.Hour},
	}
}

func TestNew_InMemory(t *testing.T) {
	a, err := New(testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &storage.MemoryStorage{}, a.Store)
	assert.IsType(t, &insights.TemplateSummarizer{}, a.Summarizer)

	ctx := context.Background()
	for _, src := range []string{"https://a.example/1.png", "https://a.example/2.png", "https://a.example/3.png"} {
		_, ok, err := a.Analyzer.Ingest(ctx, &models.RawDescriptor{Tag: models.TagImage, Src: src})
		require.NoError(t, err)
		require.True(t, ok)
	}

	records, err := a.Analyzer.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://a.example/2.png", records[0].URL)
}

func TestNew_OpenAI(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI = config.OpenAIConfig{Enabled: true, APIKey: "sk-test", Model: "gpt-4o-mini"}

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &insights.GPTSummarizer{}, a.Summarizer)
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.Timezone = "Nowhere/Special"

	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Development: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
