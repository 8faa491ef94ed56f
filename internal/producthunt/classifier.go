package producthunt

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// DefaultKeywords flag a post as AI-related. Matching is substring-based, so short terms
// such as "ai" and "ml" also hit inside longer words.
var DefaultKeywords = []string{
	"ai",
	"artificial intelligence",
	"machine learning",
	"ml",
	"deep learning",
	"neural network",
	"chatbot",
	"gpt",
	"llm",
	"large language model",
	"computer vision",
	"nlp",
	"natural language processing",
	"automation",
	"intelligent",
	"smart",
	"assistant",
	"generative",
	"predictive",
}

// Classifier decides AI relevance with a single Aho-Corasick pass.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewClassifier builds a Classifier over lowercase copies of keywords.
func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Classifier{matcher: ahocorasick.NewStringMatcher(lowered), keywords: lowered}
}

// Matches returns the keywords found in text.
func (c *Classifier) Matches(text string) []string {
	hits := c.matcher.Match([]byte(strings.ToLower(text)))
	out := make([]string, 0, len(hits))
	for _, i := range hits {
		out = append(out, c.keywords[i])
	}
	return out
}

// IsAITool checks name, tagline and description together.
func (c *Classifier) IsAITool(p Post) bool {
	return len(c.Matches(p.Name+" "+p.Tagline+" "+p.Description)) > 0
}

// Filter keeps AI-related posts in their original order.
func (c *Classifier) Filter(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if c.IsAITool(p) {
			out = append(out, p)
		}
	}
	return out
}
