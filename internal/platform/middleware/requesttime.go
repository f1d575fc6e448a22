package middleware

import (
	"net/http"
	"time"

	"creditdash/pkg/requestcontext"
)

// RequestTime captures "now" once per request so every timestamp derived
// while serving it (report filenames, session expiry) agrees.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
