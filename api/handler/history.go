package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirrorkit/mirrorkit/history"
	"github.com/mirrorkit/mirrorkit/models"
)

// GetHistory returns a handler for GET /api/v1/history.
func GetHistory(hist *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls, err := hist.Recent()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: err.Error(),
				},
			})
			return
		}
		if urls == nil {
			urls = []string{}
		}
		c.JSON(http.StatusOK, models.HistoryResponse{URLs: urls})
	}
}

// ClearHistory returns a handler for DELETE /api/v1/history.
func ClearHistory(hist *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hist.Clear(); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}
