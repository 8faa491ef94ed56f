// Package fetcher retrieves listing pages with browser-like request headers.
package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"

	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

// browserHeaders are sent with every request in addition to the User-Agent.
// Only gzip is advertised because the collector decodes gzip bodies itself.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept-Encoding":           "gzip",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// RawPage is a successfully fetched document.
type RawPage struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher issues single GET requests. It never retries; that is the caller's call.
type Fetcher struct {
	cfg Config
	log logger.Logger
}

// New creates a Fetcher.
func New(cfg Config, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{cfg: cfg.WithDefaults(), log: log}
}

// Fetch downloads rawURL. Every failure is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*RawPage, error) {
	c := f.newCollector(ctx)

	var page *RawPage
	var status int

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		page = &RawPage{
			URL:         rawURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(rawURL); err != nil {
		f.log.Debug("Fetch failed", logger.URL(rawURL), logger.Int("status", status), logger.Error(err))
		return nil, &FetchError{URL: rawURL, StatusCode: status, Err: err}
	}
	if page == nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("%w: no response", ErrUnexpectedStatus)}
	}
	if page.StatusCode < http.StatusOK || page.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: rawURL, StatusCode: page.StatusCode, Err: ErrUnexpectedStatus}
	}

	f.log.Debug("Fetched page",
		logger.URL(rawURL),
		logger.Int("status", page.StatusCode),
		logger.Int("bytes", len(page.Body)),
	)

	return page, nil
}

// newCollector builds a synchronous single-use collector bound to ctx.
func (f *Fetcher) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxBodySize(f.cfg.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(f.cfg.Timeout)
	c.SetRedirectHandler(RedirectPolicy(f.cfg.MaxRedirects))
	c.OnRequest(func(r *colly.Request) {
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
	})
	return c
}
