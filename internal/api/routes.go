package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups what the HTTP surface serves.
type Routes struct {
	Tools        *ToolHandler
	Sync         *SyncHandler
	Service      string
	Version      string
	HealthChecks map[string]HealthCheck
	// Gatherer exposes /metrics when set.
	Gatherer prometheus.Gatherer
}

// Register mounts every route on router.
func (r Routes) Register(router *gin.Engine) {
	health := HealthHandler(r.Service, r.Version, r.HealthChecks)
	router.GET("/health", health)
	router.HEAD("/health", health)

	if r.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")

	tools := v1.Group("/ai-tools")
	tools.GET("", r.Tools.List)
	tools.GET("/trending", r.Tools.Trending)
	tools.GET("/categories", r.Tools.Categories)
	tools.GET("/stats", r.Tools.Stats)

	sync := v1.Group("/sync")
	sync.POST("/producthunt", r.Sync.ProductHunt)
	sync.POST("/scraped", r.Sync.Scraped)
	sync.POST("/trending", r.Sync.Trending)
	sync.POST("/all", r.Sync.All)
	sync.GET("/runs", r.Sync.Runs)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
