package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy locates candidate tool elements on a listing page.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) *goquery.Selection
}

// SelectorStrategy matches every element for a CSS selector.
func SelectorStrategy(name, selector string) Strategy {
	return Strategy{
		Name: name,
		Find: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(selector)
		},
	}
}

// DefaultStrategies is the ordered container list. Earlier entries are more specific.
var DefaultStrategies = []Strategy{
	SelectorStrategy("tool-card", ".tool-card"),
	SelectorStrategy("ai-tool", ".ai-tool"),
	SelectorStrategy("tool", ".tool"),
	SelectorStrategy("testid-tool-card", `[data-testid="tool-card"]`),
	SelectorStrategy("grid-child", ".grid > div"),
	SelectorStrategy("list-item", ".list-item"),
	SelectorStrategy("article", "article"),
	SelectorStrategy("card", ".card"),
	SelectorStrategy("tool-detail-link", `a[href*="/tool/"]`),
	SelectorStrategy("tools-detail-link", `a[href*="/tools/"]`),
	SelectorStrategy("product-item", ".product-item"),
	SelectorStrategy("tool-item", ".tool-item"),
}

// FirstMatch runs strategies in order and returns the first one that matched at least one
// element. Matches from different strategies are never mixed.
func FirstMatch(doc *goquery.Document, strategies []Strategy) (Strategy, *goquery.Selection, bool) {
	for _, s := range strategies {
		sel := s.Find(doc)
		if sel != nil && sel.Length() > 0 {
			return s, sel, true
		}
	}
	return Strategy{}, nil, false
}

var (
	toolPathMarkers = []string{"/tool/", "/tools/", "/ai-"}
	toolTextMarkers = []string{"ai", "tool", "generate", "create", "auto"}
)

const (
	anchorTextMin = 5
	anchorTextMax = 100
)

// AnchorFallback keeps anchors that link to a tool-like path or whose visible text reads
// like a tool name.
var AnchorFallback = Strategy{
	Name: "anchor-heuristic",
	Find: func(doc *goquery.Document) *goquery.Selection {
		return doc.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if containsAny(href, toolPathMarkers) {
				return true
			}
			text := strings.TrimSpace(a.Text())
			n := len([]rune(text))
			if n <= anchorTextMin || n >= anchorTextMax {
				return false
			}
			return containsAny(strings.ToLower(text), toolTextMarkers)
		})
	},
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
