package config

import (
	"os"
	"strings"
	"time"

	"github.com/ehz-labs/ocr-api/internal/utils"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	// Server settings
	Host string
	Port int
	// File upload settings
	MaxFileSizeMB    int
	MaxFileSizeBytes int64
	MaxBatchSize     int
	// Result cache settings
	CacheEnabled         bool
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration
	MaxCacheSize         int
	// Vision backend settings
	GoogleCloudProject string
	OCRTimeout         time.Duration
	// Security settings
	RateLimitGlobal      float64  // requests per second globally, 0 disables
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP, 0 disables
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	EnableRateLimit      bool     // enable rate limiting middleware
	CORSAllowedOrigins   []string // allowed CORS origins
	// Observability settings
	LogLevel          string  // log level: debug, info, warn, error
	OTELEnabled       bool    // enable OpenTelemetry tracing
	OTELEndpoint      string  // OpenTelemetry collector endpoint
	OTELSampleRate    float64 // trace sampling rate (0.0 to 1.0)
	SentryDSN         string  // Sentry DSN for error reporting
	SentryEnvironment string  // Sentry environment (dev, staging, production)
	SentrySampleRate  float64 // Sentry error sampling rate (0.0 to 1.0)
}

// AllowedExtensions lists the tested and verified upload formats.
var AllowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

// AllowedMIMETypes lists the accepted Content-Type values for uploads.
// application/octet-stream is handled separately: it passes through to
// file-signature validation.
var AllowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// FileSignature pairs a leading magic number with the format it identifies.
type FileSignature struct {
	Magic  []byte
	Format string
}

// FileSignatures holds the magic numbers for the tested formats only.
var FileSignatures = []FileSignature{
	{[]byte{0xFF, 0xD8, 0xFF}, "jpg"},
	{[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
	{[]byte("GIF87a"), "gif"},
	{[]byte("GIF89a"), "gif"},
	{[]byte("RIFF"), "webp"}, // RIFF (WebP container)
	{[]byte("BM"), "bmp"},
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}

	maxMB := utils.GetEnvAsInt("MAX_FILE_SIZE_MB", 10)

	cached = &Config{
		Host:             envOr("HOST", "0.0.0.0"),
		Port:             utils.GetEnvAsInt("PORT", 8080),
		MaxFileSizeMB:    maxMB,
		MaxFileSizeBytes: int64(maxMB) * 1024 * 1024,
		MaxBatchSize:     utils.GetEnvAsInt("MAX_BATCH_SIZE", 10),
		// Caching: 1 hour TTL, swept every 5 minutes, LRU-bounded at 1000 entries
		CacheEnabled:         utils.GetEnvAsBool("CACHE_ENABLED", true),
		CacheTTL:             time.Duration(utils.GetEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheCleanupInterval: time.Duration(utils.GetEnvAsInt("CACHE_CLEANUP_INTERVAL", 300)) * time.Second,
		MaxCacheSize:         utils.GetEnvAsInt("MAX_CACHE_SIZE", 1000),
		GoogleCloudProject:   strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")),
		OCRTimeout:           time.Duration(utils.GetEnvAsInt("OCR_TIMEOUT_MS", 30000)) * time.Millisecond,
		// Rate limiting is off by default; the cache absorbs repeated uploads
		RateLimitGlobal:      utils.GetEnvAsFloat("RATE_LIMIT_GLOBAL", 100.0),
		RateLimitGlobalBurst: utils.GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 200),
		RateLimitPerIP:       utils.GetEnvAsFloat("RATE_LIMIT_PER_IP", 10.0),
		RateLimitPerIPBurst:  utils.GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 20),
		EnableRateLimit:      utils.GetEnvAsBool("RATE_LIMIT_ENABLED", false),
		// Observability settings
		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		OTELEnabled:       utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTELSampleRate:    utils.GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentrySampleRate:  utils.GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.LogLevel == "" {
		cached.LogLevel = "info"
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}

	// Parse CORS allowed origins
	corsOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if corsOrigins == "" {
		cached.CORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	} else {
		cached.CORSAllowedOrigins = strings.Split(corsOrigins, ",")
		for i := range cached.CORSAllowedOrigins {
			cached.CORSAllowedOrigins[i] = strings.TrimSpace(cached.CORSAllowedOrigins[i])
		}
	}

	return cached
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }
