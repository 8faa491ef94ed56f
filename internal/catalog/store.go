// Package catalog persists tools and answers catalog queries.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// SortField orders query results.
type SortField string

const (
	SortFeatured SortField = "featured_at"
	SortVotes    SortField = "votes"
	SortName     SortField = "name"
	SortRating   SortField = "rating"
	SortTrending SortField = "trending"
)

// Field is a keyword field that can be grouped on.
type Field string

const (
	FieldCategory Field = "category"
	FieldSource   Field = "source"
	FieldPricing  Field = "pricing"
)

const (
	defaultLimit = 12
	maxLimit     = 100
	allValues    = "all"
)

// Query filters and pages tool listings. Search is a case-insensitive substring match over
// name, tagline and description. Category matches case-insensitively; "all" in Category or
// Source disables that filter.
type Query struct {
	Search   string
	Category string
	Source   string
	Sort     SortField
	Page     int
	Limit    int
}

// WithDefaults clamps paging, clears "all" filters and fills the default sort.
func (q Query) WithDefaults() Query {
	if strings.EqualFold(q.Category, allValues) {
		q.Category = ""
	}
	if strings.EqualFold(q.Source, allValues) {
		q.Source = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	q.Limit = min(q.Limit, maxLimit)
	switch q.Sort {
	case SortVotes, SortName, SortRating, SortTrending:
	default:
		q.Sort = SortFeatured
	}
	return q
}

// Offset is the zero-based index of the first result.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of results.
type Page struct {
	Tools []*domain.Tool
	Total int64
	Page  int
	Limit int
}

// Pages is the number of pages for Total at the page's Limit.
func (p Page) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Bucket is one group of an aggregation.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Store is the document store the sync pipeline and the API share. Insert fails with
// domain.ErrConflict when the identity key is already taken; Update replaces the record
// stored under the tool's identity key.
type Store interface {
	FindOne(ctx context.Context, key domain.IdentityKey) (*domain.Tool, error)
	Find(ctx context.Context, q Query) (*Page, error)
	Insert(ctx context.Context, tool *domain.Tool) error
	Update(ctx context.Context, tool *domain.Tool) error
	Distinct(ctx context.Context, field Field) ([]string, error)
	Aggregate(ctx context.Context, field Field) ([]Bucket, error)
	Count(ctx context.Context) (int64, error)
}

var documentNamespace = uuid.MustParse("6f1d8f5e-2a8b-4a7e-9d0c-3f5b7a9c1e24")

// DocumentID derives a stable storage id from an identity key so concurrent writers for the
// same tool address the same document.
func DocumentID(key domain.IdentityKey) string {
	if key.PHID != "" {
		return uuid.NewSHA1(documentNamespace, []byte("ph\x00"+key.PHID)).String()
	}
	return uuid.NewSHA1(documentNamespace, []byte("tool\x00"+key.Source+"\x00"+key.Name)).String()
}
