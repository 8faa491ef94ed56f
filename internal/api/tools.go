package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
)

// Catalog is the read side of the tool store.
type Catalog interface {
	Find(ctx context.Context, q catalog.Query) (*catalog.Page, error)
	Distinct(ctx context.Context, field catalog.Field) ([]string, error)
	Aggregate(ctx context.Context, field catalog.Field) ([]catalog.Bucket, error)
	Count(ctx context.Context) (int64, error)
}

// ToolHandler serves catalog listings.
type ToolHandler struct {
	catalog Catalog
	log     logger.Logger
}

func NewToolHandler(c Catalog, log logger.Logger) *ToolHandler {
	return &ToolHandler{catalog: c, log: log}
}

// Pagination describes the page returned by List.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// ListResponse is the body of GET /api/v1/ai-tools.
type ListResponse struct {
	Tools      []*domain.Tool `json:"tools"`
	Pagination Pagination     `json:"pagination"`
}

// TrendingResponse is the body of GET /api/v1/ai-tools/trending.
type TrendingResponse struct {
	Tools []*domain.Tool `json:"tools"`
}

// CategoriesResponse is the body of GET /api/v1/ai-tools/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// StatsResponse is the body of GET /api/v1/ai-tools/stats.
type StatsResponse struct {
	Total      int64            `json:"total"`
	Categories []catalog.Bucket `json:"categories"`
	Sources    []catalog.Bucket `json:"sources"`
}

// List handles GET /api/v1/ai-tools.
func (h *ToolHandler) List(c *gin.Context) {
	q := catalog.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Sort:     catalog.SortField(c.Query("sort")),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 0),
	}.WithDefaults()

	page, err := h.catalog.Find(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "Failed to list tools", err)
		return
	}

	pages := page.Pages()
	c.JSON(http.StatusOK, ListResponse{
		Tools: nonNil(page.Tools),
		Pagination: Pagination{
			Page:    page.Page,
			Limit:   page.Limit,
			Total:   page.Total,
			Pages:   pages,
			HasMore: page.Page < pages,
		},
	})
}

// Trending handles GET /api/v1/ai-tools/trending.
func (h *ToolHandler) Trending(c *gin.Context) {
	limit := min(queryInt(c, "limit", defaultTrendingLimit), maxTrendingLimit)
	if limit < 1 {
		limit = defaultTrendingLimit
	}

	page, err := h.catalog.Find(c.Request.Context(), catalog.Query{Sort: catalog.SortTrending, Limit: limit})
	if err != nil {
		h.fail(c, "Failed to load trending tools", err)
		return
	}
	c.JSON(http.StatusOK, TrendingResponse{Tools: nonNil(page.Tools)})
}

// Categories handles GET /api/v1/ai-tools/categories. The General fallback is not listed.
func (h *ToolHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Distinct(c.Request.Context(), catalog.FieldCategory)
	if err != nil {
		h.fail(c, "Failed to load categories", err)
		return
	}
	categories = slices.DeleteFunc(categories, func(s string) bool {
		return s == "" || s == domain.CategoryGeneral
	})
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// Stats handles GET /api/v1/ai-tools/stats.
func (h *ToolHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.catalog.Count(ctx)
	if err != nil {
		h.fail(c, "Failed to count tools", err)
		return
	}
	categories, err := h.catalog.Aggregate(ctx, catalog.FieldCategory)
	if err != nil {
		h.fail(c, "Failed to aggregate categories", err)
		return
	}
	sourceBuckets, err := h.catalog.Aggregate(ctx, catalog.FieldSource)
	if err != nil {
		h.fail(c, "Failed to aggregate sources", err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Total:      total,
		Categories: nonNil(categories),
		Sources:    nonNil(sourceBuckets),
	})
}

func (h *ToolHandler) fail(c *gin.Context, msg string, err error) {
	logger.FromContext(c.Request.Context(), h.log).Error(msg, logger.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
