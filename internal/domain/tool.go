// Package domain holds the catalog types shared by the sync pipeline, the store and the API.
package domain

import (
	"errors"
	"time"
)

// Provenance tags.
const (
	SourceProductHunt    = "Product Hunt"
	SourceAIToolsFyi     = "AITools.fyi"
	SourceGoogleTrending = "Google Trending"
)

// Category labels with special meaning.
const (
	CategoryGeneral  = "General"
	CategoryFeatured = "Featured"
)

var (
	// ErrNotFound is returned by stores when no record matches an identity key.
	ErrNotFound = errors.New("tool not found")
	// ErrConflict is returned by stores when an insert races another writer on the same identity key.
	ErrConflict = errors.New("tool already exists")
)

// Pricing is the coarse pricing model of a tool.
type Pricing string

const (
	PricingFree      Pricing = "Free"
	PricingFreemium  Pricing = "Freemium"
	PricingPaid      Pricing = "Paid"
	PricingFreeTrial Pricing = "Free Trial"
	PricingUnknown   Pricing = "Unknown"
)

// Tool is one catalog entry.
type Tool struct {
	ID            string    `json:"id"`
	PHID          string    `json:"ph_id,omitempty"`
	Name          string    `json:"name"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	Website       string    `json:"website"`
	Category      string    `json:"category"`
	Pricing       Pricing   `json:"pricing"`
	Rating        float64   `json:"rating"`
	Votes         int       `json:"votes"`
	Makers        []string  `json:"makers"`
	Topics        []string  `json:"topics"`
	Source        string    `json:"source"`
	TrendingScore int       `json:"trending_score,omitempty"`
	FeaturedAt    time.Time `json:"featured_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity returns the key used to detect the same tool across runs.
// Product Hunt tools are keyed by their native id, everything else by name and source.
func (t *Tool) Identity() IdentityKey {
	if t.PHID != "" {
		return IdentityKey{PHID: t.PHID}
	}
	return IdentityKey{Name: t.Name, Source: t.Source}
}

// IdentityKey is either a Product Hunt id or a (name, source) pair, never both.
type IdentityKey struct {
	PHID   string
	Name   string
	Source string
}

func (k IdentityKey) String() string {
	if k.PHID != "" {
		return "ph_id=" + k.PHID
	}
	return "name=" + k.Name + " source=" + k.Source
}

// Candidate is a provisionally extracted tool that has not been validated yet.
// Zero values mean the source did not provide the field.
type Candidate struct {
	PHID        string
	Name        string
	Tagline     string
	Description string
	URL         string
	Website     string
	Pricing     Pricing
	Rating      float64
	Votes       int
	// VotesKnown distinguishes a real zero vote count from a missing one.
	VotesKnown    bool
	TrendingScore int
	Makers        []string
	Topics        []string
	FeaturedAt    time.Time
}

// Target is one scraped listing page.
type Target struct {
	URL      string `json:"url"      yaml:"url"`
	Category string `json:"category" yaml:"category"`
}

// SyncResult is what every sync trigger reports to its caller.
type SyncResult struct {
	Synced     int `json:"synced"`
	TotalFound int `json:"total_found"`
}
