package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	AknetlAPIKey string

	// Semantic boundary confirmation. Leaving the key empty disables
	// the suggester; the pipeline then runs pattern-only.
	AnthropicAPIKey string
	AnthropicModel  string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Confirmation
	MaxConcurrentSuggest int
	MatchWindow          int
	SuggestTimeout       time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Boundary patterns. Empty means built-in defaults.
	PatternFile string

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		AknetlAPIKey: os.Getenv("AKNETL_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxConcurrentSuggest: envInt("MAX_CONCURRENT_SUGGEST", 4),
		MatchWindow:          envInt("MATCH_WINDOW", 3),
		SuggestTimeout:       envDuration("SUGGEST_TIMEOUT", 60*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PatternFile: os.Getenv("PATTERN_FILE"),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentSuggest <= 0 {
		cfg.MaxConcurrentSuggest = 4
	}
	if cfg.MatchWindow <= 0 {
		cfg.MatchWindow = 3
	}
	if cfg.SuggestTimeout <= 0 {
		cfg.SuggestTimeout = 60 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings the server cannot run without. The
// suggester key is deliberately not required: without it the pipeline
// falls back to pattern-only confirmation.
func (c Config) Validate() error {
	if c.AknetlAPIKey == "" {
		return fmt.Errorf("AKNETL_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
