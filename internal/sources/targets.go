// Package sources lists the pages and seed data the sync pipeline reads from.
package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pruthviraj-chavan/happytools1/internal/category"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// AIToolsFyiBase is the root of the scraped directory site.
const AIToolsFyiBase = "https://aitools.fyi"

// ErrNoTargets is returned when a targets file contains no usable entry.
var ErrNoTargets = errors.New("no targets defined")

var aiToolsFyiCategories = []string{
	"ai-image-generation",
	"ai-web-apps",
	"ai-marketing",
	"ai-analytics",
	"ai-content-creation",
	"ai-productivity",
	"ai-writing",
	"ai-video",
	"ai-audio",
	"ai-code",
	"ai-design",
	"ai-automation",
	"ai-sales",
	"ai-email",
	"ai-social-media",
	"ai-seo",
	"ai-customer-support",
	"ai-finance",
	"ai-health",
}

// DefaultTargets returns the aitools.fyi home page followed by its category pages.
func DefaultTargets() []domain.Target {
	urls := make([]string, 0, len(aiToolsFyiCategories)+1)
	urls = append(urls, AIToolsFyiBase+"/")
	for _, slug := range aiToolsFyiCategories {
		urls = append(urls, AIToolsFyiBase+"/category/"+slug)
	}

	targets := make([]domain.Target, len(urls))
	for i, u := range urls {
		targets[i] = domain.Target{URL: u, Category: category.Resolve(u)}
	}
	return targets
}

type targetsFile struct {
	Targets []domain.Target `yaml:"targets"`
}

// LoadTargets reads a YAML targets file. Entries without a category get one from the URL.
func LoadTargets(path string) ([]domain.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file %s: %w", path, err)
	}
	return ParseTargets(data)
}

// ParseTargets decodes and validates a targets document.
func ParseTargets(data []byte) ([]domain.Target, error) {
	var f targetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}

	targets := make([]domain.Target, 0, len(f.Targets))
	for i, t := range f.Targets {
		t.URL = strings.TrimSpace(t.URL)
		u, err := url.Parse(t.URL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("target %d: invalid url %q", i, t.URL)
		}
		if strings.TrimSpace(t.Category) == "" {
			t.Category = category.Resolve(t.URL)
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}
