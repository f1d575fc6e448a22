package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/httputil"
	"creditdash/pkg/requestcontext"
)

// SessionCookieName carries the session token for browser clients.
const SessionCookieName = "dash_session"

// LoginPath is where unauthenticated dashboard access is sent.
const LoginPath = "/login"

// SessionValidator resolves a session token to its session ID.
type SessionValidator interface {
	ValidateSession(token string) (uuid.UUID, error)
}

// RequireSession accepts a bearer token or the session cookie and stores the
// session ID in the context. Failures answer 401 with a redirect to login.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token := SessionToken(r)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing session",
					"request_id", requestID,
				)
				httputil.WriteErrorWithRedirect(w, dErrors.New(dErrors.CodeUnauthorized, "Missing session"), LoginPath)
				return
			}

			sessionID, err := validator.ValidateSession(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid session",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteErrorWithRedirect(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired session"), LoginPath)
				return
			}

			ctx = requestcontext.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken reads the token from the Authorization header, falling back
// to the session cookie.
func SessionToken(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
