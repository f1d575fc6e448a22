package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	// TrustedProxies lists peers (IPs or CIDRs) whose forwarding headers
	// name the client. Empty means RemoteAddr is always the client.
	TrustedProxies []string

	Backend    Backend
	Session    Session
	Enrichment Enrichment
	RateLimit  RateLimit
	Redis      RedisConfig
}

// Backend configures the analytics backend the gateway talks to.
type Backend struct {
	BaseURL           string
	Timeout           time.Duration
	CardLookupTimeout time.Duration
	ExportTimeout     time.Duration
	PreloadTimeout    time.Duration
	BreakerFailures   int
	BreakerCooldown   time.Duration
}

// Session configures dashboard sessions and their tokens.
type Session struct {
	TTL          time.Duration
	SigningKey   string
	CookieSecure bool
}

// Enrichment bounds the per-card detail fan-out.
type Enrichment struct {
	Concurrency int
}

// RateLimit caps requests per minute. Zero disables a limit; RATE_LIMIT_DISABLED
// zeroes both.
type RateLimit struct {
	LoginPerMinute   int
	SessionPerMinute int
}

// RedisConfig holds Redis connection settings. An empty URL keeps sessions in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	rateLimit := RateLimit{
		LoginPerMinute:   intEnv("RATE_LIMIT_LOGIN", 10),
		SessionPerMinute: intEnv("RATE_LIMIT_SESSION", 120),
	}
	if os.Getenv("RATE_LIMIT_DISABLED") == "true" {
		rateLimit = RateLimit{}
	}

	return Server{
		Addr:           stringEnv("DASH_ADDR", ":8080"),
		LogLevel:       stringEnv("LOG_LEVEL", "info"),
		LogFormat:      stringEnv("LOG_FORMAT", "json"),
		TrustedProxies: listEnv("TRUSTED_PROXIES"),
		Backend: Backend{
			BaseURL:           strings.TrimRight(stringEnv("BACKEND_URL", "http://localhost:8000"), "/"),
			Timeout:           durationEnv("BACKEND_TIMEOUT", 60*time.Second),
			CardLookupTimeout: durationEnv("CARD_LOOKUP_TIMEOUT", 10*time.Second),
			ExportTimeout:     durationEnv("EXPORT_TIMEOUT", 60*time.Second),
			PreloadTimeout:    durationEnv("PRELOAD_TIMEOUT", 90*time.Second),
			BreakerFailures:   intEnv("BREAKER_FAILURES", 5),
			BreakerCooldown:   durationEnv("BREAKER_COOLDOWN", 30*time.Second),
		},
		Session: Session{
			TTL:          durationEnv("SESSION_TTL", 8*time.Hour),
			SigningKey:   signingKey,
			CookieSecure: os.Getenv("SESSION_COOKIE_SECURE") == "true",
		},
		Enrichment: Enrichment{
			Concurrency: intEnv("ENRICH_CONCURRENCY", 4),
		},
		RateLimit: rateLimit,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationEnv ignores unparseable and non-positive values.
func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// listEnv splits a comma separated value, dropping blank entries.
func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
