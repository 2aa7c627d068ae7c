package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirrorkit/mirrorkit/config"
	"github.com/mirrorkit/mirrorkit/fetch"
	"github.com/mirrorkit/mirrorkit/history"
	"github.com/mirrorkit/mirrorkit/mirror"
	"github.com/mirrorkit/mirrorkit/models"
	"github.com/mirrorkit/mirrorkit/runstore"
	"github.com/mirrorkit/mirrorkit/webhook"
)

// PostRun returns a handler for POST /api/v1/runs. It launches the
// mirror engine in the background and returns a run handle immediately.
func PostRun(client *fetch.Client, runs *runstore.Store, hist *history.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		root := req.OutputDir
		if root == "" {
			root = defaultRoot(req.URL)
		}

		run, err := mirror.StartRun(client, req.URL, root, optionsFrom(&req, cfg.Mirror))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeMirrorRoot,
					Message: err.Error(),
				},
			})
			return
		}

		if err := hist.Append(req.URL); err != nil {
			slog.Warn("history append failed", "url", req.URL, "error", err)
		}

		entry := &runstore.Entry{
			ID:        runstore.NewID(),
			Seed:      req.URL,
			Root:      root,
			Run:       run,
			CreatedAt: time.Now(),
		}
		runs.Add(entry)

		go watchRun(entry, req.WebhookURL, req.WebhookSecret)

		slog.Info("run started", "id", entry.ID, "seed", req.URL, "root", root)
		c.JSON(http.StatusOK, models.RunResponse{
			ID:     entry.ID,
			Status: models.StatusRunning,
		})
	}
}

// GetRun returns a handler for GET /api/v1/runs/:id.
func GetRun(runs *runstore.Store) gin.HandlerFunc {
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

		resp := models.RunStatusResponse{
			ID:       entry.ID,
			Status:   models.StatusRunning,
			Seed:     entry.Seed,
			Root:     entry.Root,
			Progress: entry.Log(),
		}

		if entry.Run.Finished() {
			res, err := entry.Run.Outcome()
			resp.Stopped = res.Stopped
			switch {
			case err != nil:
				resp.Status = models.StatusFailed
				resp.Error = models.NewMirrorError(models.ErrCodeInternal, err.Error(), err).ToDetail()
			case res.Stopped:
				// A stopped run reports a count of zero; the Stopped flag
				// is what tells it apart from an empty site.
				resp.Status = models.StatusStopped
			default:
				resp.Status = models.StatusCompleted
				resp.Visited = res.Visited
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// StopRun returns a handler for POST /api/v1/runs/:id/stop.
func StopRun(runs *runstore.Store) gin.HandlerFunc {
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

		entry.Run.RequestStop()
		slog.Info("stop requested", "id", entry.ID)
		c.JSON(http.StatusOK, models.RunResponse{
			ID:     entry.ID,
			Status: models.StatusRunning,
		})
	}
}

// watchRun drains the run's progress into its log entry and fires the
// webhook once the run reaches a terminal state.
func watchRun(entry *runstore.Entry, hookURL, hookSecret string) {
	for msg := range entry.Run.Events() {
		entry.AppendLog(msg)
		slog.Info("run progress", "id", entry.ID, "message", msg)
	}

	res, err := entry.Run.Outcome()
	if hookURL == "" {
		return
	}

	eventType := webhook.EventRunCompleted
	visited := res.Visited
	switch {
	case err != nil:
		eventType = webhook.EventRunFailed
	case res.Stopped:
		// Stopped runs report a count of zero everywhere.
		eventType = webhook.EventRunStopped
		visited = 0
	}

	webhook.DeliverAsync(hookURL, hookSecret, &webhook.Event{
		Type:      eventType,
		RunID:     entry.ID,
		Timestamp: time.Now().Unix(),
		Data: gin.H{
			"seed":    entry.Seed,
			"root":    entry.Root,
			"visited": visited,
			"stopped": res.Stopped,
		},
	})
}

// optionsFrom merges the request with the configured defaults.
func optionsFrom(req *models.RunRequest, defaults config.MirrorConfig) mirror.Options {
	opts := mirror.Options{
		MaxDepth: defaults.MaxDepth,
		Delay:    defaults.Delay,
		Images:   defaults.Images,
		CSS:      defaults.CSS,
		JS:       defaults.JS,
	}
	if req.MaxDepth != nil {
		opts.MaxDepth = *req.MaxDepth
	}
	if req.DelaySeconds != nil {
		opts.Delay = time.Duration(*req.DelaySeconds) * time.Second
	}
	if req.Images != nil {
		opts.Images = *req.Images
	}
	if req.CSS != nil {
		opts.CSS = *req.CSS
	}
	if req.JS != nil {
		opts.JS = *req.JS
	}
	return opts
}

// defaultRoot derives a mirror root from the seed host, dots replaced
// with underscores.
func defaultRoot(seed string) string {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return "mirrored_site"
	}
	return strings.ReplaceAll(strings.ReplaceAll(u.Host, ".", "_"), ":", "_")
}
