package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirrorkit/mirrorkit/api/handler"
	"github.com/mirrorkit/mirrorkit/api/middleware"
	"github.com/mirrorkit/mirrorkit/config"
	"github.com/mirrorkit/mirrorkit/fetch"
	"github.com/mirrorkit/mirrorkit/history"
	"github.com/mirrorkit/mirrorkit/runstore"
)

// NewRouter creates a configured Gin engine with all routes and
// middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(client *fetch.Client, runs *runstore.Store, hist *history.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(runs, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Runs
	protected.POST("/runs", handler.PostRun(client, runs, hist, cfg))
	protected.GET("/runs/:id", handler.GetRun(runs))
	protected.POST("/runs/:id/stop", handler.StopRun(runs))
	protected.POST("/runs/:id/publish", handler.PublishRun(runs))

	// History
	protected.GET("/history", handler.GetHistory(hist))
	protected.DELETE("/history", handler.ClearHistory(hist))

	return r
}
