// Package httptransport composes the public HTTP surface: the middleware
// chain, the public login and ops routes, and the session-protected
// dashboard group.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creditdash/internal/platform/metrics"
	"creditdash/internal/platform/middleware"
	"creditdash/pkg/platform/httputil"
)

// Registrar adds routes to a router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports backing store health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// BreakerReporter lists backend endpoints whose circuit is open.
type BreakerReporter interface {
	OpenCircuits() []string
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Sessions  middleware.SessionValidator
	Health    HealthChecker
	Breakers  BreakerReporter
	Public    []Registrar
	Protected []Registrar

	// TrustedProxies may set the client address via forwarding headers.
	TrustedProxies []netip.Prefix

	// Optional throttles for the public and session groups.
	PublicLimit    func(http.Handler) http.Handler
	ProtectedLimit func(http.Handler) http.Handler
}

type healthResponse struct {
	Status       string   `json:"status"`
	OpenCircuits []string `json:"open_circuits,omitempty"`
}

const healthTimeout = 2 * time.Second

// NewRouter builds the application router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ClientIP(d.TrustedProxies))
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.LatencyMiddleware(d.Metrics))

	r.Get("/healthz", healthHandler(d.Health, d.Breakers, d.Logger))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.PublicLimit != nil {
			r.Use(d.PublicLimit)
		}
		for _, reg := range d.Public {
			reg.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(d.Sessions, d.Logger))
		if d.ProtectedLimit != nil {
			r.Use(d.ProtectedLimit)
		}
		for _, reg := range d.Protected {
			reg.Register(r)
		}
	})

	return r
}

// healthHandler answers 503 when the session store is down. Open backend
// circuits leave the service up but report it as degraded.
func healthHandler(checker HealthChecker, breakers BreakerReporter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if checker != nil {
			if err := checker.Health(ctx); err != nil {
				logger.ErrorContext(ctx, "health check failed",
					"request_id", middleware.GetRequestID(ctx),
					"error", err,
				)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}

		resp := healthResponse{Status: "ok"}
		if breakers != nil {
			if open := breakers.OpenCircuits(); len(open) > 0 {
				resp = healthResponse{Status: "degraded", OpenCircuits: open}
			}
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}
