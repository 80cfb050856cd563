package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLink(t *testing.T) {
	const target = "https://dash.example.com/report?id=1"
	escaped := "https%3A%2F%2Fdash.example.com%2Freport%3Fid%3D1"

	tests := []struct {
		platform string
		prefix   string
	}{
		{"twitter", "https://twitter.com/intent/tweet?text="},
		{"linkedin", "https://www.linkedin.com/sharing/share-offsite/?url=" + escaped},
		{"instagram", "https://www.instagram.com/share?url=" + escaped},
		{"pinterest", "https://pinterest.com/pin/create/button/?url=" + escaped + "&description="},
		{"reddit", "https://www.reddit.com/submit?url=" + escaped + "&title="},
		{"tiktok", "https://www.tiktok.com/share?url=" + escaped + "&text="},
		{"snapchat", "https://snapchat.com/scan?attachmentUrl=" + escaped},
		{" Twitter ", "https://twitter.com/intent/tweet?text="},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			link, err := ShareLink(tt.platform, target)
			require.NoError(t, err)
			assert.Contains(t, link, tt.prefix)
			assert.Contains(t, link, escaped)
		})
	}
}

func TestShareLink_Errors(t *testing.T) {
	_, err := ShareLink("myspace", "https://dash.example.com")
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = ShareLink("twitter", "")
	assert.Error(t, err)
}

func TestSharePlatforms(t *testing.T) {
	assert.Equal(t, []string{"instagram", "linkedin", "pinterest", "reddit", "snapchat", "tiktok", "twitter"}, SharePlatforms())
}
