package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) *catalog.MemoryStore {
	t.Helper()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := catalog.NewMemoryStore()
	tools := []domain.Tool{
		{ID: "1", Name: "Copy Pilot", Tagline: "Marketing copy", Category: "Writing", Source: domain.SourceAIToolsFyi, Votes: 500, Rating: 4.1, FeaturedAt: base},
		{ID: "2", Name: "Draftly", Description: "Blog WRITING assistant", Category: "Writing", Source: domain.SourceAIToolsFyi, Votes: 120, Rating: 4.9, FeaturedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Pixel Forge", Category: "Image Generation", Source: domain.SourceAIToolsFyi, Votes: 900, Rating: 3.7, FeaturedAt: base.Add(2 * time.Hour)},
		{ID: "4", PHID: "77", Name: "Launchpad", Category: "General", Source: domain.SourceProductHunt, Votes: 50, Rating: 3.2, FeaturedAt: base.Add(3 * time.Hour)},
		{ID: "5", Name: "ChatGPT", Category: "Chatbots", Source: domain.SourceGoogleTrending, Votes: 10, TrendingScore: 98, FeaturedAt: base},
	}
	for i := range tools {
		require.NoError(t, store.Insert(context.Background(), &tools[i]))
	}
	return store
}

func TestMemoryStore_InsertConflictAndUpdate(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()

	err := store.Insert(ctx, &domain.Tool{ID: "dup", Name: "Copy Pilot", Source: domain.SourceAIToolsFyi})
	require.ErrorIs(t, err, domain.ErrConflict)

	// Same name from another source is a different identity.
	require.NoError(t, store.Insert(ctx, &domain.Tool{ID: "6", Name: "Copy Pilot", Source: domain.SourceProductHunt, PHID: "88"}))

	require.NoError(t, store.Update(ctx, &domain.Tool{ID: "1", Name: "Copy Pilot", Source: domain.SourceAIToolsFyi, Votes: 501}))
	got, err := store.FindOne(ctx, domain.IdentityKey{Name: "Copy Pilot", Source: domain.SourceAIToolsFyi})
	require.NoError(t, err)
	assert.Equal(t, 501, got.Votes)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)

	_, err = store.FindOne(ctx, domain.IdentityKey{PHID: "404"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_Find(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query catalog.Query
		want  []string
		total int64
	}{
		{"default sort is newest featured", catalog.Query{}, []string{"4", "3", "2", "1", "5"}, 5},
		{"votes", catalog.Query{Sort: catalog.SortVotes}, []string{"3", "1", "2", "4", "5"}, 5},
		{"name", catalog.Query{Sort: catalog.SortName, Limit: 2}, []string{"5", "1"}, 5},
		{"rating page 2", catalog.Query{Sort: catalog.SortRating, Page: 2, Limit: 2}, []string{"3", "4"}, 5},
		{"category", catalog.Query{Category: "Writing", Sort: catalog.SortVotes}, []string{"1", "2"}, 2},
		{"category ignores case", catalog.Query{Category: "image generation"}, []string{"3"}, 1},
		{"all category is no filter", catalog.Query{Category: "all", Source: "All"}, []string{"4", "3", "2", "1", "5"}, 5},
		{"source", catalog.Query{Source: domain.SourceProductHunt}, []string{"4"}, 1},
		{"search is case insensitive", catalog.Query{Search: "writing"}, []string{"2"}, 1},
		{"search matches mid-word", catalog.Query{Search: "ETING"}, []string{"1"}, 1},
		{"trending", catalog.Query{Sort: catalog.SortTrending, Limit: 1}, []string{"5"}, 5},
		{"past the end", catalog.Query{Page: 9}, []string{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := store.Find(ctx, tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(page.Tools))
			for _, tool := range page.Tools {
				ids = append(ids, tool.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestMemoryStore_DistinctAndAggregate(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()

	categories, err := store.Distinct(ctx, catalog.FieldCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chatbots", "General", "Image Generation", "Writing"}, categories)

	sources, err := store.Aggregate(ctx, catalog.FieldSource)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Bucket{
		{Key: domain.SourceAIToolsFyi, Count: 3},
		{Key: domain.SourceGoogleTrending, Count: 1},
		{Key: domain.SourceProductHunt, Count: 1},
	}, sources)
}

func TestQuery_WithDefaults(t *testing.T) {
	t.Parallel()

	q := catalog.Query{Page: -1, Limit: 1000, Sort: "bogus"}.WithDefaults()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, catalog.SortFeatured, q.Sort)
	assert.Equal(t, 12, catalog.Query{}.WithDefaults().Limit)
	assert.Empty(t, catalog.Query{Category: "ALL"}.WithDefaults().Category)
}

func TestDocumentID_StableAndDistinct(t *testing.T) {
	t.Parallel()

	a := catalog.DocumentID(domain.IdentityKey{Name: "Copy Pilot", Source: domain.SourceAIToolsFyi})
	b := catalog.DocumentID(domain.IdentityKey{Name: "Copy Pilot", Source: domain.SourceAIToolsFyi})
	c := catalog.DocumentID(domain.IdentityKey{Name: "Copy Pilot", Source: domain.SourceProductHunt})
	d := catalog.DocumentID(domain.IdentityKey{PHID: "Copy Pilot"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Len(t, a, len(fmt.Sprint("00000000-0000-0000-0000-000000000000")))
}
