package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// ErrFetchFailed wraps every failure to download or parse a page
var ErrFetchFailed = errors.New("failed to fetch page")

const (
	defaultUserAgent = "trendlens/1.0"
	defaultTimeout   = 15 * time.Second
)

// Fetcher downloads a page and returns its parsed document
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

type CollyFetcher struct {
	userAgent         string
	timeout           time.Duration
	disallowedDomains []string
	logger            *zap.Logger
}

type FetcherOption func(*CollyFetcher)

// WithDisallowedDomains refuses to visit the given hosts
func WithDisallowedDomains(domains ...string) FetcherOption {
	return func(f *CollyFetcher) {
		for _, d := range domains {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				f.disallowedDomains = append(f.disallowedDomains, d)
			}
		}
	}
}

func NewCollyFetcher(userAgent string, timeout time.Duration, logger *zap.Logger, opts ...FetcherOption) *CollyFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &CollyFetcher{userAgent: userAgent, timeout: timeout, logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch visits a single page without following links.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if _, err := ValidatePageURL(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	options := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.UserAgent(f.userAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	}
	if len(f.disallowedDomains) > 0 {
		options = append(options, colly.DisallowedDomains(f.disallowedDomains...))
	}
	c := colly.NewCollector(options...)
	c.SetRequestTimeout(f.timeout)

	var (
		doc      *goquery.Document
		parseErr error
	)
	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		f.logger.Debug("Fetched page",
			zap.String("url", pageURL),
			zap.Int("status", r.StatusCode),
			zap.Int("bytes", len(r.Body)),
		)
	})

	if err := c.Visit(pageURL); err != nil {
		f.logger.Warn("Failed to fetch page", zap.String("url", pageURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, pageURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, pageURL, parseErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: empty response", ErrFetchFailed, pageURL)
	}
	return doc, nil
}
