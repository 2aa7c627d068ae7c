package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirrorkit/mirrorkit/models"
	"github.com/mirrorkit/mirrorkit/publish"
	"github.com/mirrorkit/mirrorkit/runstore"
)

// publishTimeout bounds the whole git init/commit/push sequence.
const publishTimeout = 2 * time.Minute

// PublishRun returns a handler for POST /api/v1/runs/:id/publish. The
// run must have finished successfully; the engine's only obligation to
// this step is the complete directory tree it left at the mirror root.
func PublishRun(runs *runstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, ok := runs.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeNotFound,
					Message: "run not found",
				},
			})
			return
		}

		if !entry.Run.Finished() {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRunActive,
					Message: "run is still in progress",
				},
			})
			return
		}
		if _, err := entry.Run.Outcome(); err != nil {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRunActive,
					Message: "run did not finish successfully",
				},
			})
			return
		}

		var req models.PublishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), publishTimeout)
		defer cancel()

		p := &publish.Publisher{
			Dir:     entry.Root,
			Remote:  req.RemoteURL,
			Message: req.Message,
		}
		if err := p.Push(ctx); err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error: models.NewMirrorError(models.ErrCodePublish, err.Error(), err).ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": entry.ID, "published": true})
	}
}
