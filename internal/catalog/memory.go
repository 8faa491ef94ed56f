package catalog

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// MemoryStore keeps the catalog in process. It backs tests and the --memory dev mode.
type MemoryStore struct {
	mu    sync.RWMutex
	tools map[string]domain.Tool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tools: make(map[string]domain.Tool)}
}

func (s *MemoryStore) FindOne(_ context.Context, key domain.IdentityKey) (*domain.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tools[DocumentID(key)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) Insert(_ context.Context, tool *domain.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := DocumentID(tool.Identity())
	if _, exists := s.tools[id]; exists {
		return domain.ErrConflict
	}
	s.tools[id] = *tool
	return nil
}

func (s *MemoryStore) Update(_ context.Context, tool *domain.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[DocumentID(tool.Identity())] = *tool
	return nil
}

func (s *MemoryStore) Find(_ context.Context, q Query) (*Page, error) {
	q = q.WithDefaults()

	s.mu.RLock()
	matched := make([]*domain.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		if matches(&t, q) {
			matched = append(matched, &t)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, compareBy(q.Sort))

	page := &Page{Total: int64(len(matched)), Page: q.Page, Limit: q.Limit, Tools: []*domain.Tool{}}
	if off := q.Offset(); off < len(matched) {
		page.Tools = matched[off:min(off+q.Limit, len(matched))]
	}
	return page, nil
}

func (s *MemoryStore) Distinct(ctx context.Context, field Field) ([]string, error) {
	buckets, err := s.Aggregate(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Key)
	}
	slices.Sort(out)
	return out, nil
}

func (s *MemoryStore) Aggregate(_ context.Context, field Field) ([]Bucket, error) {
	s.mu.RLock()
	counts := make(map[string]int64)
	for _, t := range s.tools {
		counts[fieldValue(&t, field)]++
	}
	s.mu.RUnlock()

	out := make([]Bucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, Bucket{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tools)), nil
}

func matches(t *domain.Tool, q Query) bool {
	if q.Category != "" && !strings.EqualFold(t.Category, q.Category) {
		return false
	}
	if q.Source != "" && t.Source != q.Source {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Tagline), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func compareBy(sort SortField) func(a, b *domain.Tool) int {
	return func(a, b *domain.Tool) int {
		var c int
		switch sort {
		case SortVotes:
			c = cmp.Compare(b.Votes, a.Votes)
		case SortName:
			c = cmp.Compare(a.Name, b.Name)
		case SortRating:
			c = cmp.Compare(b.Rating, a.Rating)
		case SortTrending:
			c = cmp.Or(cmp.Compare(b.TrendingScore, a.TrendingScore), cmp.Compare(b.Votes, a.Votes))
		default:
			c = b.FeaturedAt.Compare(a.FeaturedAt)
		}
		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	}
}

func fieldValue(t *domain.Tool, f Field) string {
	switch f {
	case FieldSource:
		return t.Source
	case FieldPricing:
		return string(t.Pricing)
	default:
		return t.Category
	}
}
