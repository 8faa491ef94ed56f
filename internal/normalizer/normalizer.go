// Package normalizer turns extracted candidates into canonical catalog tools.
package normalizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// ErrRejected marks a candidate too thin to become a tool.
var ErrRejected = errors.New("candidate rejected")

const (
	minNameLength    = 3
	maxNameLength    = 150
	maxTaglineLength = 120

	maxRating = 5.0
)

// engagement is the range placeholder ratings and votes are drawn from.
type engagement struct {
	ratingFloor float64
	minVotes    int
	maxVotes    int
}

var (
	scrapedEngagement = engagement{ratingFloor: 3.5, minVotes: 100, maxVotes: 900}

	sourceEngagement = map[string]engagement{
		domain.SourceProductHunt:    {ratingFloor: 3.0, minVotes: 100, maxVotes: 900},
		domain.SourceGoogleTrending: {ratingFloor: 4.5, minVotes: 500, maxVotes: 1499},
	}
)

func engagementFor(source string) engagement {
	if e, ok := sourceEngagement[source]; ok {
		return e
	}
	return scrapedEngagement
}

var spaces = regexp.MustCompile(`\s+`)

// Normalizer assembles Tools. Placeholder ratings and votes keep popularity sorting usable
// for sources without engagement data; they are not real popularity figures.
type Normalizer struct {
	rnd   Rand
	now   func() time.Time
	newID func() string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(n *Normalizer) { n.rnd = r }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithIDGenerator injects the id generator.
func WithIDGenerator(f func() string) Option {
	return func(n *Normalizer) { n.newID = f }
}

// New creates a Normalizer seeded from the current time unless WithRand is given.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.rnd == nil {
		n.rnd = NewSeededRand(uint64(n.now().UnixNano()))
	}
	return n
}

// Normalize validates c and fills in synthesized fields. It returns ErrRejected for
// candidates whose name is missing, shorter than 3 or at least 150 characters.
func (n *Normalizer) Normalize(c domain.Candidate, category, source string) (*domain.Tool, error) {
	name := clean(c.Name)
	size := utf8.RuneCountInString(name)
	if size < minNameLength || size >= maxNameLength {
		return nil, fmt.Errorf("%w: name %q has %d characters", ErrRejected, name, size)
	}

	if category == "" {
		category = domain.CategoryGeneral
	}

	description := clean(c.Description)
	if description == "" {
		description = fmt.Sprintf("%s - AI-powered %s tool to enhance your workflow", name, strings.ToLower(category))
	}

	tagline := clean(c.Tagline)
	if tagline == "" {
		tagline = truncate(description, maxTaglineLength)
	}
	if tagline == "" {
		tagline = fmt.Sprintf("AI %s Tool", category)
	}

	now := n.now()
	featured := c.FeaturedAt
	if featured.IsZero() {
		featured = now
	}

	website := c.Website
	if website == "" {
		website = c.URL
	}

	pricing := c.Pricing
	if pricing == "" {
		pricing = domain.PricingUnknown
	}

	topics := c.Topics
	if len(topics) == 0 {
		topics = []string{category}
	}

	return &domain.Tool{
		ID:            n.newID(),
		PHID:          c.PHID,
		Name:          name,
		Tagline:       tagline,
		Description:   description,
		URL:           c.URL,
		Website:       website,
		Category:      category,
		Pricing:       pricing,
		Rating:        n.rating(c.Rating, source),
		Votes:         n.votes(c, source),
		Makers:        nonNil(c.Makers),
		Topics:        topics,
		Source:        source,
		TrendingScore: c.TrendingScore,
		FeaturedAt:    featured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (n *Normalizer) rating(parsed float64, source string) float64 {
	if parsed > 0 {
		return math.Min(parsed, maxRating)
	}
	floor := engagementFor(source).ratingFloor
	r := floor + n.rnd.Float64()*(maxRating-floor)
	return math.Round(r*10) / 10
}

func (n *Normalizer) votes(c domain.Candidate, source string) int {
	if c.VotesKnown {
		return max(c.Votes, 0)
	}
	e := engagementFor(source)
	return e.minVotes + n.rnd.IntN(e.maxVotes-e.minVotes+1)
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
