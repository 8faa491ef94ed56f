package sources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/sources"
)

func TestDefaultTargets(t *testing.T) {
	t.Parallel()

	targets := sources.DefaultTargets()
	require.Len(t, targets, 20)

	assert.Equal(t, domain.Target{URL: "https://aitools.fyi/", Category: domain.CategoryFeatured}, targets[0])
	assert.Equal(t, "https://aitools.fyi/category/ai-image-generation", targets[1].URL)
	assert.Equal(t, "Image Generation", targets[1].Category)
	assert.Equal(t, "Customer Support", targets[17].Category)
	assert.Equal(t, "Health", targets[19].Category)

	seen := make(map[string]bool)
	for _, tg := range targets {
		assert.False(t, seen[tg.URL], "duplicate target %s", tg.URL)
		seen[tg.URL] = true
		assert.NotEqual(t, domain.CategoryGeneral, tg.Category, tg.URL)
	}
}

func TestParseTargets(t *testing.T) {
	t.Parallel()

	doc := []byte(`
targets:
  - url: https://aitools.fyi/category/ai-writing
  - url: " https://example.com/list "
    category: Picks
`)
	targets, err := sources.ParseTargets(doc)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "Writing", targets[0].Category)
	assert.Equal(t, domain.Target{URL: "https://example.com/list", Category: "Picks"}, targets[1])
}

func TestParseTargets_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: "targets: []"},
		{name: "relative url", doc: "targets:\n  - url: /category/ai-code"},
		{name: "ftp scheme", doc: "targets:\n  - url: ftp://example.com/x"},
		{name: "bad yaml", doc: "targets: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := sources.ParseTargets([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := sources.ParseTargets([]byte("targets: []"))
	assert.ErrorIs(t, err, sources.ErrNoTargets)
}

func TestLoadTargets(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "targets.yml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  - url: https://aitools.fyi/\n"), 0o600))

	targets, err := sources.LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Target{{URL: "https://aitools.fyi/", Category: domain.CategoryFeatured}}, targets)

	_, err = sources.LoadTargets(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestTrendingSeeds(t *testing.T) {
	t.Parallel()

	seeds := sources.TrendingSeeds()
	require.Len(t, seeds, 5)

	prev := 101
	for _, s := range seeds {
		assert.Less(t, s.Candidate.TrendingScore, prev)
		prev = s.Candidate.TrendingScore
		assert.Equal(t, []string{s.Category}, s.Candidate.Topics)
		assert.Equal(t, domain.PricingFreemium, s.Candidate.Pricing)
	}
	assert.Equal(t, "ChatGPT", seeds[0].Candidate.Name)
	assert.Equal(t, "Video Generation", seeds[4].Category)
}
