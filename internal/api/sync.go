package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const (
	defaultRunsLimit   = 20
	defaultSyncTimeout = 10 * time.Minute
)

// Syncer runs the sync paths. Each method reports its counts and never fails.
type Syncer interface {
	SyncProductHunt(ctx context.Context) domain.SyncResult
	SyncScrapedTargets(ctx context.Context) domain.SyncResult
	SyncTrending(ctx context.Context) domain.SyncResult
	SyncAll(ctx context.Context) domain.SyncResult
}

// RunLister reads recorded sync runs.
type RunLister interface {
	ListRecent(ctx context.Context, kind domain.RunKind, limit int) ([]*domain.SyncRun, error)
}

// SyncResponse is the body of every sync trigger.
type SyncResponse struct {
	Message    string `json:"message"`
	Synced     int    `json:"synced"`
	TotalFound int    `json:"total_found"`
}

// SyncHandler triggers sync runs and lists their history.
type SyncHandler struct {
	syncer  Syncer
	runs    RunLister
	timeout time.Duration
	log     logger.Logger
}

// NewSyncHandler creates a handler. runs may be nil when run history is not persisted.
func NewSyncHandler(s Syncer, runs RunLister, timeout time.Duration, log logger.Logger) *SyncHandler {
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &SyncHandler{syncer: s, runs: runs, timeout: timeout, log: log}
}

// ProductHunt handles POST /api/v1/sync/producthunt.
func (h *SyncHandler) ProductHunt(c *gin.Context) {
	h.trigger(c, domain.RunKindProductHunt, h.syncer.SyncProductHunt, "from Product Hunt")
}

// Scraped handles POST /api/v1/sync/scraped.
func (h *SyncHandler) Scraped(c *gin.Context) {
	h.trigger(c, domain.RunKindScraped, h.syncer.SyncScrapedTargets, "from targeted pages")
}

// Trending handles POST /api/v1/sync/trending.
func (h *SyncHandler) Trending(c *gin.Context) {
	h.trigger(c, domain.RunKindTrending, h.syncer.SyncTrending, "from Google Trending")
}

// All handles POST /api/v1/sync/all.
func (h *SyncHandler) All(c *gin.Context) {
	h.trigger(c, domain.RunKindAll, h.syncer.SyncAll, "from all sources")
}

func (h *SyncHandler) trigger(
	c *gin.Context,
	kind domain.RunKind,
	run func(context.Context) domain.SyncResult,
	from string,
) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	log := logger.FromContext(c.Request.Context(), h.log)
	log.Info("Sync triggered", logger.String("kind", string(kind)))

	result := run(ctx)

	c.JSON(http.StatusOK, SyncResponse{
		Message:    fmt.Sprintf("Successfully synced %d new AI tools %s", result.Synced, from),
		Synced:     result.Synced,
		TotalFound: result.TotalFound,
	})
}

// Runs handles GET /api/v1/sync/runs.
func (h *SyncHandler) Runs(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is not enabled"})
		return
	}

	kind := domain.RunKind(c.Query("kind"))
	switch kind {
	case "", domain.RunKindProductHunt, domain.RunKindScraped, domain.RunKindTrending, domain.RunKindAll:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown run kind %q", kind)})
		return
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), kind, queryInt(c, "limit", defaultRunsLimit))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.FromContext(c.Request.Context(), h.log).Error("Failed to list sync runs", logger.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sync runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": nonNil(runs), "count": len(runs)})
}
