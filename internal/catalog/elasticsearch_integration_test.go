//go:build integration

package catalog_test

import (
	"context"
	"testing"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"

	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.11.0"

func startElasticsearch(t *testing.T) *es.Client {
	t.Helper()

	ctx := context.Background()
	ctr, err := elasticsearch.Run(ctx, elasticsearchImage, elasticsearch.WithPassword("changeme"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	client, err := es.NewClient(es.Config{
		Addresses: []string{ctr.Settings.Address},
		Username:  "elastic",
		Password:  ctr.Settings.Password,
		CACert:    ctr.Settings.CACert,
	})
	require.NoError(t, err)
	return client
}

func TestElasticsearchStore_Integration(t *testing.T) {
	client := startElasticsearch(t)
	store := catalog.NewElasticsearchStore(client, "ai_tools_it", logger.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureIndex(ctx))
	require.NoError(t, store.EnsureIndex(ctx), "creating an existing index is a no-op")

	featured := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	writer := &domain.Tool{
		ID: "1", PHID: "101", Name: "WriteBot", Tagline: "AI writing assistant",
		Category: "Writing", Source: domain.SourceProductHunt, Votes: 120, FeaturedAt: featured,
	}
	pixel := &domain.Tool{
		ID: "2", Name: "PixelForge", Tagline: "Image generation",
		Category: "Image Generation", Source: domain.SourceAIToolsFyi, Votes: 8, FeaturedAt: featured.Add(time.Hour),
	}

	require.NoError(t, store.Insert(ctx, writer))
	require.NoError(t, store.Insert(ctx, pixel))
	require.ErrorIs(t, store.Insert(ctx, writer), domain.ErrConflict)

	got, err := store.FindOne(ctx, domain.IdentityKey{PHID: "101"})
	require.NoError(t, err)
	assert.Equal(t, "WriteBot", got.Name)

	_, err = store.FindOne(ctx, domain.IdentityKey{Name: "Missing", Source: domain.SourceAIToolsFyi})
	require.ErrorIs(t, err, domain.ErrNotFound)

	writer.Votes = 150
	require.NoError(t, store.Update(ctx, writer))
	got, err = store.FindOne(ctx, writer.Identity())
	require.NoError(t, err)
	assert.Equal(t, 150, got.Votes)

	page, err := store.Find(ctx, catalog.Query{Search: "image"})
	require.NoError(t, err)
	require.Len(t, page.Tools, 1)
	assert.Equal(t, "PixelForge", page.Tools[0].Name)

	page, err = store.Find(ctx, catalog.Query{Sort: catalog.SortVotes})
	require.NoError(t, err)
	require.Len(t, page.Tools, 2)
	assert.Equal(t, "WriteBot", page.Tools[0].Name)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	categories, err := store.Distinct(ctx, catalog.FieldCategory)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Image Generation", "Writing"}, categories)
}
