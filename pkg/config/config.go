package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xaenox/trendlens/internal/trends"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type StorageConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type ClassifierConfig struct {
	IconMaxSize    float64  `mapstructure:"icon_max_size"`
	MaxKeywords    int      `mapstructure:"max_keywords"`
	MaxTopics      int      `mapstructure:"max_topics"`
	ExtraStopWords []string `mapstructure:"extra_stop_words"`
}

type AnalysisConfig struct {
	Timezone       string               `mapstructure:"timezone"`
	RealtimeWindow time.Duration        `mapstructure:"realtime_window"`
	TopTopics      int                  `mapstructure:"top_topics"`
	TopHours       int                  `mapstructure:"top_hours"`
	Alerts         trends.AlertSettings `mapstructure:"alerts"`
}

// Location resolves the configured timezone used for hour-of-day bucketing
func (a AnalysisConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}

type ScraperConfig struct {
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxMediaPerPage int           `mapstructure:"max_media_per_page"`
	// hosts the fetcher never visits
	DisallowedDomains []string `mapstructure:"disallowed_domains"`
}

type OpenAIConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		if _, err := fmt.Sscanf(u.Port(), "%d", &port); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		// Remove leading slash from path to get database name
		DBName:  strings.TrimPrefix(u.Path, "/"),
		SSLMode: sslMode,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "trendlens")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", true)
	v.SetDefault("storage.capacity", 1000)
	v.SetDefault("classifier.icon_max_size", 48)
	v.SetDefault("classifier.max_keywords", 5)
	v.SetDefault("classifier.max_topics", 3)
	v.SetDefault("analysis.timezone", "Local")
	v.SetDefault("analysis.realtime_window", time.Hour)
	v.SetDefault("analysis.top_topics", 5)
	v.SetDefault("analysis.top_hours", 3)
	v.SetDefault("analysis.alerts.competitor_threshold", 10)
	v.SetDefault("scraper.user_agent", "trendlens/1.0")
	v.SetDefault("scraper.timeout", 15*time.Second)
	v.SetDefault("scraper.max_media_per_page", 100)
	v.SetDefault("scraper.disallowed_domains", []string{"169.254.169.254", "metadata.google.internal"})
	v.SetDefault("openai.enabled", false)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.development", false)
}

// LoadConfig reads the YAML file at path. An empty path skips the file and
// uses defaults plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the analysis cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Storage.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("storage.capacity must be positive, got %d", c.Storage.Capacity))
	}
	if _, err := c.Analysis.Location(); err != nil {
		errs = append(errs, fmt.Errorf("analysis.timezone: %w", err))
	}
	if c.Analysis.RealtimeWindow <= 0 {
		errs = append(errs, errors.New("analysis.realtime_window must be positive"))
	}
	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("openai.enabled requires openai.api_key or OPENAI_API_KEY"))
	}
	return errors.Join(errs...)
}
