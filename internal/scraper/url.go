package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL rejects page addresses that are not absolute http(s) URLs
var ErrInvalidURL = errors.New("invalid page url")

// ValidatePageURL accepts only absolute http and https URLs with a host.
func ValidatePageURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidURL, raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidURL, raw)
	}
	return u, nil
}
