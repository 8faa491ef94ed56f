// Package extractor turns listing-page markup into candidate tools.
package extractor

import (
	"bytes"
	"iter"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

// DefaultMaxPerPage caps the candidates taken from one page.
const DefaultMaxPerPage = 25

// Extractor walks a page with an ordered strategy list and an anchor fallback.
type Extractor struct {
	strategies []Strategy
	fallback   Strategy
	maxPerPage int
	log        logger.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategies replaces the container strategy list.
func WithStrategies(s ...Strategy) Option {
	return func(e *Extractor) { e.strategies = s }
}

// WithMaxPerPage caps how many matched elements are examined per page.
func WithMaxPerPage(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxPerPage = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Extractor with the default strategies.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		strategies: DefaultStrategies,
		fallback:   AnchorFallback,
		maxPerPage: DefaultMaxPerPage,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract yields candidates found in body. Elements without a usable name are skipped.
// Markup that cannot be parsed yields nothing.
func (e *Extractor) Extract(body []byte, pageURL, category string) iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			e.log.Warn("Unparseable page", logger.URL(pageURL), logger.Error(err))
			return
		}

		base, err := url.Parse(pageURL)
		if err != nil {
			base = nil
		}

		strategy, matches, ok := FirstMatch(doc, e.strategies)
		if !ok {
			strategy, matches, ok = FirstMatch(doc, []Strategy{e.fallback})
		}
		if !ok {
			e.log.Debug("No tool elements matched", logger.URL(pageURL))
			return
		}
		e.log.Debug("Matched tool elements",
			logger.URL(pageURL),
			logger.String("strategy", strategy.Name),
			logger.Int("matches", matches.Length()),
		)

		name := nameRule()
		matches.EachWithBreak(func(i int, el *goquery.Selection) bool {
			if i >= e.maxPerPage {
				return false
			}
			c, ok := e.candidate(el, name, base, category)
			if !ok {
				return true
			}
			return yield(c)
		})
	}
}

// ExtractAll collects Extract into a slice.
func (e *Extractor) ExtractAll(body []byte, pageURL, category string) []domain.Candidate {
	var out []domain.Candidate
	for c := range e.Extract(body, pageURL, category) {
		out = append(out, c)
	}
	return out
}

func (e *Extractor) candidate(
	el *goquery.Selection, name FieldRule, base *url.URL, category string,
) (domain.Candidate, bool) {
	n, ok := name(el)
	if !ok {
		return domain.Candidate{}, false
	}
	n = truncate(n, maxNameLength)

	c := domain.Candidate{
		Name:    n,
		URL:     extractLink(el, base),
		Pricing: extractPricing(el),
		Rating:  extractRating(el),
	}
	if desc, ok := descriptionRule(n)(el); ok {
		c.Description = desc
	}
	if c.URL == "" && base != nil {
		c.URL = base.String()
	}
	c.Website = c.URL
	c.Votes, c.VotesKnown = extractVotes(el)
	if category != "" {
		c.Topics = []string{category}
	}
	return c, true
}
