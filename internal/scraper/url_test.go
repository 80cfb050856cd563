package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePageURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"https", "https://news.example.com/feed", false},
		{"http with port", "http://127.0.0.1:8080/page", false},
		{"upper case scheme", "HTTPS://example.com", false},
		{"file", "file:///etc/passwd", true},
		{"ftp", "ftp://files.example.com/page.html", true},
		{"gopher", "gopher://example.com:70/_stats", true},
		{"relative path", "/relative/page", true},
		{"no scheme", "example.com/page", true},
		{"missing host", "http:///page", true},
		{"empty", "", true},
		{"unparseable", "::not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ValidatePageURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidURL)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.Hostname())
		})
	}
}
