package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/httputil"
	"creditdash/pkg/requestcontext"
)

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) Result
}

// KeyFunc picks the throttling key for a request. An empty key skips the check.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the caller address set by the client IP middleware.
func ByClientIP(r *http.Request) string {
	return "ip:" + requestcontext.ClientIP(r.Context())
}

// BySession keys on the authenticated session.
func BySession(r *http.Request) string {
	id := requestcontext.SessionID(r.Context())
	if id == uuid.Nil {
		return ""
	}
	return "session:" + id.String()
}

// Middleware answers 429 with Retry-After once a key exceeds its window.
func Middleware(limiter Limiter, key KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			result := limiter.Allow(ctx, k)
			addHeaders(w, result)
			if !result.Allowed {
				logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"key", k,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func retryAfterSeconds(result Result) int {
	secs := int(math.Ceil(result.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
