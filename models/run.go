package models

// Run states reported by the API.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
	StatusFailed    = "failed"
)

// RunRequest is the payload for POST /api/v1/runs.
type RunRequest struct {
	// URL is the seed page of the mirror. Required.
	URL string `json:"url" binding:"required,url"`

	// OutputDir is the mirror root. Defaults to the seed host with dots
	// replaced by underscores.
	OutputDir string `json:"output_dir,omitempty"`

	// MaxDepth limits the crawl depth from the seed (depth 0).
	// Default: 3. Max: 10.
	MaxDepth *int `json:"max_depth,omitempty" binding:"omitempty,min=0,max=10"`

	// DelaySeconds is the politeness pause after each page. Default: 1.
	DelaySeconds *int `json:"delay_seconds,omitempty" binding:"omitempty,min=0,max=30"`

	// Resource toggles, all defaulting to true.
	Images *bool `json:"images,omitempty"`
	CSS    *bool `json:"css,omitempty"`
	JS     *bool `json:"js,omitempty"`

	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// RunResponse is the immediate response for POST /api/v1/runs.
type RunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RunStatusResponse is the response for GET /api/v1/runs/:id.
//
// Visited is 0 for stopped runs, matching the engine's stopped contract;
// Stopped tells an empty site apart from a user stop.
type RunStatusResponse struct {
	ID       string       `json:"id"`
	Status   string       `json:"status"`
	Seed     string       `json:"seed"`
	Root     string       `json:"root"`
	Visited  int          `json:"visited"`
	Stopped  bool         `json:"stopped"`
	Progress []string     `json:"progress,omitempty"`
	Error    *ErrorDetail `json:"error,omitempty"`
}

// PublishRequest is the payload for POST /api/v1/runs/:id/publish.
type PublishRequest struct {
	RemoteURL string `json:"remote_url" binding:"required,url"`
	Message   string `json:"message,omitempty"`
}

// HistoryResponse lists previously mirrored seed URLs, most recent
// first.
type HistoryResponse struct {
	URLs []string `json:"urls"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	ActiveRuns int    `json:"active_runs"`
	Version    string `json:"version"`
}

// ErrorResponse wraps an ErrorDetail for non-2xx API responses.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}
