package insights

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var ErrUnknownPlatform = errors.New("unknown share platform")

const shareText = "Check out these visual content trends I discovered with trendlens!"

// shareTemplates take the escaped target URL and the escaped share text
var shareTemplates = map[string]func(target, text string) string{
	"twitter": func(target, text string) string {
		return fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&url=%s", text, target)
	},
	"linkedin": func(target, _ string) string {
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + target
	},
	"instagram": func(target, _ string) string {
		return "https://www.instagram.com/share?url=" + target
	},
	"pinterest": func(target, text string) string {
		return fmt.Sprintf("https://pinterest.com/pin/create/button/?url=%s&description=%s", target, text)
	},
	"reddit": func(target, text string) string {
		return fmt.Sprintf("https://www.reddit.com/submit?url=%s&title=%s", target, text)
	},
	"tiktok": func(target, text string) string {
		return fmt.Sprintf("https://www.tiktok.com/share?url=%s&text=%s", target, text)
	},
	"snapchat": func(target, _ string) string {
		return "https://snapchat.com/scan?attachmentUrl=" + target
	},
}

// SharePlatforms lists the supported platforms alphabetically
func SharePlatforms() []string {
	platforms := make([]string, 0, len(shareTemplates))
	for p := range shareTemplates {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	return platforms
}

// ShareLink builds the share-intent URL for a dashboard link on platform
func ShareLink(platform, target string) (string, error) {
	build, ok := shareTemplates[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	if target == "" {
		return "", errors.New("share target url is empty")
	}
	return build(url.QueryEscape(target), url.QueryEscape(shareText)), nil
}
