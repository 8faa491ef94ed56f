package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// FieldRule reads one field from a matched element.
type FieldRule func(el *goquery.Selection) (string, bool)

// FirstOf returns the first rule that produced a value.
func FirstOf(rules ...FieldRule) FieldRule {
	return func(el *goquery.Selection) (string, bool) {
		for _, r := range rules {
			if v, ok := r(el); ok {
				return v, true
			}
		}
		return "", false
	}
}

// TextOf reads the text of the first descendant matching selector when accept approves it.
func TextOf(selector string, accept func(string) bool) FieldRule {
	return func(el *goquery.Selection) (string, bool) {
		text := collapse(el.Find(selector).First().Text())
		if text == "" || (accept != nil && !accept(text)) {
			return "", false
		}
		return text, true
	}
}

const (
	maxNameLength = 100
	minNameLength = 2
)

var (
	nameSelectors = []string{"h3", "h2", "h1", ".title", ".name", ".tool-name", `[data-testid="tool-name"]`}
	descSelectors = []string{".description", ".summary", "p", ".excerpt", ".tagline", ".subtitle"}

	whitespace = regexp.MustCompile(`\s+`)
	decimal    = regexp.MustCompile(`\d+(?:\.\d+)?`)
	digits     = regexp.MustCompile(`\d[\d,]*`)
)

func nameRule() FieldRule {
	rules := make([]FieldRule, 0, len(nameSelectors)+1)
	for _, sel := range nameSelectors {
		rules = append(rules, TextOf(sel, func(s string) bool { return utf8.RuneCountInString(s) >= minNameLength }))
	}
	return FirstOf(append(rules, ownText)...)
}

// ownText falls back to the element's full text, preferring title/alt attributes when the
// text is too long to be a name.
func ownText(el *goquery.Selection) (string, bool) {
	text := collapse(el.Text())
	if utf8.RuneCountInString(text) > maxNameLength {
		if attr := firstAttr(el, "title", "alt"); attr != "" {
			text = collapse(attr)
		}
	}
	return text, text != ""
}

func descriptionRule(name string) FieldRule {
	longer := func(s string) bool { return utf8.RuneCountInString(s) > utf8.RuneCountInString(name) }
	rules := make([]FieldRule, 0, len(descSelectors))
	for _, sel := range descSelectors {
		rules = append(rules, TextOf(sel, longer))
	}
	return FirstOf(rules...)
}

// extractLink returns the element's own href or the first descendant link, resolved
// against base. Non-navigational schemes are ignored.
func extractLink(el *goquery.Selection, base *url.URL) string {
	href, ok := el.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		href, ok = el.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

// DetectPricing maps badge or price text onto a pricing model.
func DetectPricing(text string) domain.Pricing {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "freemium"):
		return domain.PricingFreemium
	case strings.Contains(t, "trial"):
		return domain.PricingFreeTrial
	case strings.Contains(t, "free"):
		return domain.PricingFree
	case strings.Contains(t, "paid"):
		return domain.PricingPaid
	default:
		return domain.PricingUnknown
	}
}

func extractPricing(el *goquery.Selection) domain.Pricing {
	return DetectPricing(el.Find(".price, .pricing, .badge").Text())
}

// extractRating reads a 0..5 score from a rating badge or data attribute.
func extractRating(el *goquery.Selection) float64 {
	raw, ok := el.Find("[data-rating]").First().Attr("data-rating")
	if !ok {
		raw = el.Find(".rating, .stars").First().Text()
	}
	m := decimal.FindString(raw)
	if m == "" {
		return 0
	}
	r, err := strconv.ParseFloat(m, 64)
	if err != nil || r <= 0 || r > 5 {
		return 0
	}
	return r
}

func extractVotes(el *goquery.Selection) (int, bool) {
	m := digits.FindString(el.Find(".votes, .upvotes, .vote-count").First().Text())
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func firstAttr(el *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := el.Attr(n); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
