package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"creditdash/pkg/requestcontext"
)

// WithSessionID adds a session ID to the request context.
// This simulates what the session middleware does for authenticated requests.
func WithSessionID(req *http.Request, sessionID uuid.UUID) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

// WithRequestTime pins the request time seen by handlers.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
