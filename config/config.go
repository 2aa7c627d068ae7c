package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Fetch     FetchConfig
	Mirror    MirrorConfig
	History   HistoryConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP control surface.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// FetchConfig controls the outbound HTTP client.
type FetchConfig struct {
	// Timeout bounds each request. default: 10s
	Timeout time.Duration

	// UserAgent overrides the built-in Chrome identification.
	UserAgent string
}

// MirrorConfig holds the default crawl options applied when a run
// request leaves them unset.
type MirrorConfig struct {
	MaxDepth int           // default: 3
	Delay    time.Duration // default: 1s
	Images   bool          // default: true
	CSS      bool          // default: true
	JS       bool          // default: true

	// RunTTL is how long finished runs stay queryable. default: 1h
	RunTTL time.Duration
}

// HistoryConfig controls the seed-URL history store.
type HistoryConfig struct {
	Path string // default: "mirror_history.jsonl"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MIRROR_HOST", "0.0.0.0"),
			Port: envIntOr("MIRROR_PORT", 8080),
			Mode: envOr("MIRROR_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MIRROR_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MIRROR_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MIRROR_RATE_RPS", 5.0),
			Burst:             envIntOr("MIRROR_RATE_BURST", 10),
		},
		Fetch: FetchConfig{
			Timeout:   envDurationOr("MIRROR_FETCH_TIMEOUT", 10*time.Second),
			UserAgent: os.Getenv("MIRROR_USER_AGENT"),
		},
		Mirror: MirrorConfig{
			MaxDepth: envIntOr("MIRROR_MAX_DEPTH", 3),
			Delay:    envDurationOr("MIRROR_DELAY", time.Second),
			Images:   envBoolOr("MIRROR_IMAGES", true),
			CSS:      envBoolOr("MIRROR_CSS", true),
			JS:       envBoolOr("MIRROR_JS", true),
			RunTTL:   envDurationOr("MIRROR_RUN_TTL", time.Hour),
		},
		History: HistoryConfig{
			Path: envOr("MIRROR_HISTORY_FILE", "mirror_history.jsonl"),
		},
		Log: LogConfig{
			Level:  envOr("MIRROR_LOG_LEVEL", "info"),
			Format: envOr("MIRROR_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
