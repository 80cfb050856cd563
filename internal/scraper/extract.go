// Package scraper pulls media descriptors out of HTML pages.
package scraper

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xaenox/trendlens/internal/models"
)

// DefaultMaxMedia caps how many media elements are taken from one page
const DefaultMaxMedia = 100

const (
	mediaSelector = `img, video, iframe[src*="youtube"], iframe[src*="youtu.be"], iframe[src*="vimeo"]`
	labelSelector = `h1, h2, h3, h4, h5, h6, [class*="category"], [class*="tag"]`
)

// ExtractDescriptors walks the document in order and describes every media
// element it finds, up to maxMedia. A non-positive maxMedia uses DefaultMaxMedia.
func ExtractDescriptors(doc *goquery.Document, pageURL string, maxMedia int, observedAt time.Time) []models.RawDescriptor {
	if doc == nil {
		return nil
	}
	if maxMedia <= 0 {
		maxMedia = DefaultMaxMedia
	}

	ts := observedAt.UnixMilli()
	descriptors := make([]models.RawDescriptor, 0)
	doc.Find(mediaSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		d := describe(s)
		d.PageURL = pageURL
		d.ObservedAt = ts
		descriptors = append(descriptors, d)
		return len(descriptors) < maxMedia
	})
	return descriptors
}

func describe(s *goquery.Selection) models.RawDescriptor {
	tag := strings.ToLower(goquery.NodeName(s))
	d := models.RawDescriptor{
		Tag:       models.TagKind(tag),
		Src:       mediaSource(s),
		Alt:       attr(s, "alt"),
		Title:     attr(s, "title"),
		AriaLabel: attr(s, "aria-label"),
		ClassList: strings.Fields(attr(s, "class")),
		Width:     dimension(attr(s, "width")),
		Height:    dimension(attr(s, "height")),
		Ancestors: ancestors(s),
	}

	// No layout engine here, so the declared size doubles as the rendered box.
	d.Box = models.Box{Width: d.Width, Height: d.Height}

	_, live := s.Attr("live")
	_, dataLive := s.Attr("data-live")
	d.Live = live || dataLive
	return d
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

// mediaSource prefers src, then a lazy-load attribute, then a nested <source>.
func mediaSource(s *goquery.Selection) string {
	if v := attr(s, "src"); v != "" {
		return v
	}
	if v := attr(s, "data-src"); v != "" {
		return v
	}
	return attr(s.Find("source").First(), "src")
}

// dimension parses "320" or "320px"; percentages and junk yield 0.
func dimension(raw string) float64 {
	raw = strings.TrimSuffix(strings.ToLower(raw), "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func ancestors(s *goquery.Selection) []models.Ancestor {
	parents := s.Parents()
	out := make([]models.Ancestor, 0, parents.Length())
	parents.Each(func(_ int, p *goquery.Selection) {
		tag := strings.ToLower(goquery.NodeName(p))
		if tag == "html" {
			return
		}
		a := models.Ancestor{
			Tag:     tag,
			ID:      attr(p, "id"),
			Classes: strings.Fields(attr(p, "class")),
		}
		if isContextContainer(tag, a.Classes) {
			a.Text = strings.Join(strings.Fields(p.Text()), " ")
			a.Labels = labels(p)
		}
		out = append(out, a)
	})
	return out
}

func isContextContainer(tag string, classes []string) bool {
	switch tag {
	case "article", "section":
		return true
	}
	class := strings.ToLower(strings.Join(classes, " "))
	return strings.Contains(class, "post") ||
		strings.Contains(class, "product") ||
		strings.Contains(class, "comment")
}

func labels(container *goquery.Selection) []string {
	var out []string
	container.Find(labelSelector).Each(func(_ int, l *goquery.Selection) {
		if text := strings.Join(strings.Fields(l.Text()), " "); text != "" {
			out = append(out, text)
		}
	})
	return out
}
