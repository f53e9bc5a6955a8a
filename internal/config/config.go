package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// APIKey guards the HTTP API when set; empty leaves it open.
	APIKey string

	// Document limits
	MaxDocumentBytes int64
	MaxNestingLevel  int

	// Markdown extensions
	EnableTables        bool
	EnableStrikethrough bool
	EnableTaskLists     bool
	AllowUnsafeHTML     bool

	// Security
	BlockedElements []string
	AllowedSchemes  []string

	// Partitioning / rendering
	SectionLines        int
	LineHeight          float64
	ViewportBuffer      int
	FastScrollThreshold float64

	// Reading time
	WordsPerMinute int

	// Server document store
	StoreTTL     time.Duration
	MaxDocuments int
}

func Load() Config {
	cfg := Config{
		Port:   envOr("PORT", "8091"),
		APIKey: os.Getenv("MDVIEW_API_KEY"),

		MaxDocumentBytes: envInt64("MDVIEW_MAX_DOCUMENT_BYTES", 2*1024*1024),
		MaxNestingLevel:  envInt("MDVIEW_MAX_NESTING_LEVEL", 16),

		EnableTables:        envBool("MDVIEW_TABLES", true),
		EnableStrikethrough: envBool("MDVIEW_STRIKETHROUGH", true),
		EnableTaskLists:     envBool("MDVIEW_TASK_LISTS", true),
		AllowUnsafeHTML:     envBool("MDVIEW_ALLOW_UNSAFE_HTML", false),

		BlockedElements: envList("MDVIEW_BLOCKED_ELEMENTS", []string{"script", "iframe", "object", "embed", "form"}),
		AllowedSchemes:  envList("MDVIEW_ALLOWED_SCHEMES", []string{"http", "https", "mailto", "file"}),

		SectionLines:        envInt("MDVIEW_SECTION_LINES", 25),
		LineHeight:          envFloat("MDVIEW_LINE_HEIGHT", 18),
		ViewportBuffer:      envInt("MDVIEW_VIEWPORT_BUFFER", 1),
		FastScrollThreshold: envFloat("MDVIEW_FAST_SCROLL_THRESHOLD", 100),

		WordsPerMinute: envInt("MDVIEW_WORDS_PER_MINUTE", 200),

		StoreTTL:     envDuration("MDVIEW_STORE_TTL", 1*time.Hour),
		MaxDocuments: envInt("MDVIEW_MAX_DOCUMENTS", 128),
	}

	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 2 * 1024 * 1024
	}
	if cfg.MaxNestingLevel <= 0 {
		cfg.MaxNestingLevel = 16
	}
	if cfg.SectionLines <= 0 {
		cfg.SectionLines = 25
	}
	if cfg.LineHeight <= 0 {
		cfg.LineHeight = 18
	}
	if cfg.ViewportBuffer < 0 {
		cfg.ViewportBuffer = 1
	}
	if cfg.FastScrollThreshold <= 0 {
		cfg.FastScrollThreshold = 100
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = 200
	}
	if cfg.StoreTTL <= 0 {
		cfg.StoreTTL = 1 * time.Hour
	}
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = 128
	}

	return cfg
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
