package classifier

import (
	"net/url"
	"path"
	"strings"
)

// resolveMediaURL turns a raw src into an absolute URL. Relative
// sources are resolved against the page URL. data: and blob: sources are
// rejected.
func resolveMediaURL(src, pageURL string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "blob:") {
		return "", false
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if !u.IsAbs() {
		if pageURL == "" {
			return "", false
		}
		base, err := url.Parse(pageURL)
		if err != nil || !base.IsAbs() {
			return "", false
		}
		u = base.ResolveReference(u)
	}
	if u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// isGIF reports whether the URL path ends in .gif
func isGIF(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".gif")
}
