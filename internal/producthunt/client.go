// Package producthunt queries the Product Hunt GraphQL API for recently launched AI tools.
package producthunt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const (
	defaultEndpoint = "https://api.producthunt.com/v2/api/graphql"
	defaultPageSize = 10
	defaultTimeout  = 30 * time.Second
	defaultRetries  = 2

	// Product Hunt meters GraphQL complexity per 15 minute window.
	defaultMinInterval = time.Second
)

// ErrMissingAPIKey is returned when no developer token is configured.
var ErrMissingAPIKey = errors.New("product hunt api key is not configured")

// postsQuery asks for a small page to keep query complexity within the API's budget.
const postsQuery = `query GetAITools($first: Int!) {
  posts(first: $first, order: NEWEST) {
    edges {
      node {
        id
        name
        tagline
        description
        votesCount
        createdAt
        url
        website
      }
    }
  }
}`

// Config holds Product Hunt API settings.
type Config struct {
	APIKey     string        `env:"PRODUCT_HUNT_API_KEY"  yaml:"api_key"`
	Endpoint   string        `env:"PRODUCT_HUNT_ENDPOINT" yaml:"endpoint"`
	PageSize   int           `yaml:"page_size"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	// MinInterval spaces consecutive FetchPosts calls on one Client.
	MinInterval time.Duration `yaml:"min_interval"`
}

// WithDefaults returns a copy with zero-value fields defaulted.
func (c Config) WithDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = defaultRetries
	}
	if c.MinInterval <= 0 {
		c.MinInterval = defaultMinInterval
	}
	return c
}

// Post is one launch returned by the API.
type Post struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	VotesCount  int       `json:"votesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	URL         string    `json:"url"`
	Website     string    `json:"website"`
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node Post `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client talks to the GraphQL endpoint.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	cfg     Config
	log     logger.Logger
}

// NewClient creates a Client. Requests retry on 5xx and transport errors.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg = cfg.WithDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if cfg.APIKey != "" {
		rc.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		cfg:     cfg,
		log:     log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// FetchPosts returns the newest posts, newest first.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("product hunt rate limit: %w", err)
	}

	var out graphQLResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(graphQLRequest{
			OperationName: "GetAITools",
			Query:         postsQuery,
			Variables:     map[string]any{"first": c.cfg.PageSize},
		}).
		SetResult(&out).
		Post(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("product hunt request: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("product hunt returned %d: %s", res.StatusCode(), strings.TrimSpace(res.String()))
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("product hunt graphql: %s", strings.Join(msgs, "; "))
	}

	posts := make([]Post, 0, len(out.Data.Posts.Edges))
	for _, edge := range out.Data.Posts.Edges {
		posts = append(posts, edge.Node)
	}

	c.log.Debug("Fetched Product Hunt posts", logger.Int("count", len(posts)))
	return posts, nil
}
