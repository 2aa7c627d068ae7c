package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirrorkit/mirrorkit/models"
	"github.com/mirrorkit/mirrorkit/runstore"
)

// Health returns a handler for GET /api/v1/health.
func Health(runs *runstore.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     "healthy",
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			ActiveRuns: runs.Active(),
			Version:    "0.1.0",
		})
	}
}
