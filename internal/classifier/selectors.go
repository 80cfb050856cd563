package classifier

import (
	"strings"

	"github.com/xaenox/trendlens/internal/models"
)

// ancestorMatcher is the DOM-free counterpart of a CSS selector used with closest().
type ancestorMatcher func(a *models.Ancestor) bool

func classAttr(a *models.Ancestor) string {
	return strings.ToLower(strings.Join(a.Classes, " "))
}

func hasTag(tags ...string) ancestorMatcher {
	return func(a *models.Ancestor) bool {
		for _, t := range tags {
			if strings.EqualFold(a.Tag, t) {
				return true
			}
		}
		return false
	}
}

// classContains mirrors [class*="x"]
func classContains(substrs ...string) ancestorMatcher {
	return func(a *models.Ancestor) bool {
		attr := classAttr(a)
		for _, s := range substrs {
			if strings.Contains(attr, s) {
				return true
			}
		}
		return false
	}
}

// idContains mirrors [id*="x"]
func idContains(substr string) ancestorMatcher {
	return func(a *models.Ancestor) bool {
		return strings.Contains(strings.ToLower(a.ID), substr)
	}
}

func anyOf(matchers ...ancestorMatcher) ancestorMatcher {
	return func(a *models.Ancestor) bool {
		for _, m := range matchers {
			if m(a) {
				return true
			}
		}
		return false
	}
}

var (
	// nav, header, footer
	landmarkSelector = hasTag("nav", "header", "footer")
	// .product, [class*="product"], [id*="product"]
	productSelector = anyOf(classContains("product"), idContains("product"))
	// article, [class*="post"], [class*="comment"]
	postSelector = anyOf(hasTag("article"), classContains("post", "comment"))
	// article, [class*="post"], [class*="product"]
	engagementSelector = anyOf(hasTag("article"), classContains("post", "product"))
	// article, section, [class*="post"], [class*="product"]
	topicSelector = anyOf(hasTag("article", "section"), classContains("post", "product"))
)

// closest returns the nearest ancestor matching m, or nil.
func closest(d *models.RawDescriptor, m ancestorMatcher) *models.Ancestor {
	for i := range d.Ancestors {
		if m(&d.Ancestors[i]) {
			return &d.Ancestors[i]
		}
	}
	return nil
}
