// Package category maps listing URLs to human-readable category labels.
package category

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// DefaultPrefix is the generic slug prefix used by aitools.fyi category pages.
const DefaultPrefix = "ai-"

var categoryPath = regexp.MustCompile(`/category/([^/]+)/?$`)

// Resolver derives a label from a URL of the form .../category/<prefix><slug>.
type Resolver struct {
	Prefix string
}

// NewResolver returns a Resolver stripping prefix from slugs.
func NewResolver(prefix string) Resolver {
	return Resolver{Prefix: prefix}
}

// Resolve never fails: the bare site root is "Featured", anything unrecognised is "General".
func (r Resolver) Resolve(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return domain.CategoryGeneral
	}
	if u.Path == "" || u.Path == "/" {
		return domain.CategoryFeatured
	}

	m := categoryPath.FindStringSubmatch(u.Path)
	if m == nil {
		return domain.CategoryGeneral
	}
	slug := strings.TrimPrefix(strings.ToLower(m[1]), r.Prefix)

	words := strings.FieldsFunc(slug, func(c rune) bool { return c == '-' || c == '_' })
	if len(words) == 0 {
		return domain.CategoryGeneral
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Resolve uses the default aitools.fyi prefix.
func Resolve(rawURL string) string {
	return NewResolver(DefaultPrefix).Resolve(rawURL)
}
