package extractor_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://aitools.fyi/category/ai-writing"

const toolCardPage = `<!DOCTYPE html>
<html><body>
<div class="grid">
  <div class="tool-card">
    <a href="/tool/copy-pilot"><h3>Copy   Pilot</h3></a>
    <p class="description">Writes marketing copy from a short brief.</p>
    <span class="badge">Freemium</span>
    <span class="rating">4.7</span>
    <span class="votes">1,204 upvotes</span>
  </div>
  <div class="tool-card">
    <h3>Draftly</h3>
    <a href="https://draftly.example.com">Visit</a>
    <div class="summary">Long-form drafting assistant for blogs.</div>
    <span class="price">Paid plans from $9</span>
  </div>
  <div class="tool-card">
    <h3>X</h3>
  </div>
</div>
<div class="card"><h3>Should Not Appear</h3></div>
</body></html>`

func TestExtract_FirstStrategyWins(t *testing.T) {
	t.Parallel()

	got := extractor.New().ExtractAll([]byte(toolCardPage), pageURL, "Writing")
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, "Copy Pilot", first.Name)
	assert.Equal(t, "Writes marketing copy from a short brief.", first.Description)
	assert.Equal(t, "https://aitools.fyi/tool/copy-pilot", first.URL)
	assert.Equal(t, domain.PricingFreemium, first.Pricing)
	assert.InDelta(t, 4.7, first.Rating, 0.0001)
	assert.Equal(t, 1204, first.Votes)
	assert.True(t, first.VotesKnown)
	assert.Equal(t, []string{"Writing"}, first.Topics)

	second := got[1]
	assert.Equal(t, "Draftly", second.Name)
	assert.Equal(t, "https://draftly.example.com", second.URL)
	assert.Equal(t, "Long-form drafting assistant for blogs.", second.Description)
	assert.Equal(t, domain.PricingPaid, second.Pricing)
	assert.False(t, second.VotesKnown)

	for _, c := range got {
		assert.NotEqual(t, "Should Not Appear", c.Name)
	}
}

func TestExtract_AnchorFallback(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
<nav><a href="/about">About us</a><a href="/blog">Blog</a></nav>
<ul>
  <li><a href="/ai-voice-clone">Voice Clone</a></li>
  <li><a href="https://example.com/x">Generate logos instantly</a></li>
  <li><a href="/ai-music">Tune</a></li>
</ul>
</body></html>`

	got := extractor.New().ExtractAll([]byte(page), pageURL, "Audio")
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"Voice Clone", "Generate logos instantly", "Tune"}, names)
	assert.Equal(t, "https://aitools.fyi/ai-voice-clone", got[0].URL)
}

func TestExtract_NameFallsBackToElementText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("very long label ", 10)
	page := fmt.Sprintf(`<html><body>
<div class="ai-tool"><span>Summarize It</span></div>
<div class="ai-tool" title="Titled Tool"><span>%s</span></div>
<div class="ai-tool"><span>%s</span></div>
</body></html>`, long, long)

	got := extractor.New().ExtractAll([]byte(page), pageURL, "")
	require.Len(t, got, 3)

	assert.Equal(t, "Summarize It", got[0].Name)
	assert.Equal(t, "Titled Tool", got[1].Name)
	assert.Len(t, []rune(got[2].Name), 100)
	assert.Equal(t, pageURL, got[0].URL)
	assert.Empty(t, got[0].Topics)
}

func TestExtract_DescriptionMustBeLongerThanName(t *testing.T) {
	t.Parallel()

	const page = `<html><body><article>
<h2>Meeting Notes Taker</h2>
<div class="summary">Notes</div>
<p>Records calls and produces action items automatically.</p>
<span class="tagline">Short</span>
</article></body></html>`

	got := extractor.New().ExtractAll([]byte(page), pageURL, "Productivity")
	require.Len(t, got, 1)
	assert.Equal(t, "Records calls and produces action items automatically.", got[0].Description)
}

func TestExtract_SkipsEmptyElementsAndGarbage(t *testing.T) {
	t.Parallel()

	const page = `<div class="tool-card"><h3></h3></div><div class="tool-card"><h3>Valid Tool</h3`

	got := extractor.New().ExtractAll([]byte(page), pageURL, "")
	require.Len(t, got, 1)
	assert.Equal(t, "Valid Tool", got[0].Name)

	assert.Empty(t, extractor.New().ExtractAll([]byte("not html at all"), pageURL, ""))
	assert.Empty(t, extractor.New().ExtractAll(nil, pageURL, ""))
}

func TestExtract_MaxPerPage(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range 40 {
		fmt.Fprintf(&b, `<div class="tool"><h3>Tool %02d</h3></div>`, i)
	}
	b.WriteString("</body></html>")

	assert.Len(t, extractor.New().ExtractAll([]byte(b.String()), pageURL, ""), 25)
	assert.Len(t, extractor.New(extractor.WithMaxPerPage(5)).ExtractAll([]byte(b.String()), pageURL, ""), 5)
}

func TestExtract_StopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	count := 0
	for range extractor.New().Extract([]byte(toolCardPage), pageURL, "") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFirstMatch(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div class="card">a</div><article>b</article>`))
	require.NoError(t, err)

	s, sel, ok := extractor.FirstMatch(doc, extractor.DefaultStrategies)
	require.True(t, ok)
	assert.Equal(t, "article", s.Name)
	assert.Equal(t, 1, sel.Length())

	_, _, ok = extractor.FirstMatch(doc, []extractor.Strategy{extractor.SelectorStrategy("none", ".missing")})
	assert.False(t, ok)
}

func TestDetectPricing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want domain.Pricing
	}{
		{"Free", domain.PricingFree},
		{"100% FREE forever", domain.PricingFree},
		{"Freemium", domain.PricingFreemium},
		{"7-day free trial", domain.PricingFreeTrial},
		{"Paid", domain.PricingPaid},
		{"$29/mo", domain.PricingUnknown},
		{"", domain.PricingUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractor.DetectPricing(tt.text), tt.text)
	}
}
