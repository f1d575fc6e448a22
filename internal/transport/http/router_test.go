package httptransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdash/internal/platform/metrics"
	"creditdash/internal/platform/middleware"
	"creditdash/internal/ratelimit"
	"creditdash/pkg/platform/httputil"
	"creditdash/pkg/requestcontext"
	"creditdash/pkg/testutil"
)

type stubValidator struct {
	token string
	id    uuid.UUID
}

func (v stubValidator) ValidateSession(token string) (uuid.UUID, error) {
	if token != v.token {
		return uuid.Nil, errors.New("invalid token")
	}
	return v.id, nil
}

type stubHealth struct{ err error }

func (h stubHealth) Health(context.Context) error { return h.err }

type stubBreakers []string

func (b stubBreakers) OpenCircuits() []string { return b }

type registrarFunc func(r chi.Router)

func (f registrarFunc) Register(r chi.Router) { f(r) }

func newTestRouter(t *testing.T, health HealthChecker) (http.Handler, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	reg := prometheus.NewRegistry()
	public := registrarFunc(func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"ok": "login"})
		})
	})
	protected := registrarFunc(func(r chi.Router) {
		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{
				"session_id": requestcontext.SessionID(r.Context()).String(),
			})
		})
		r.Get("/boom", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})
	})
	return NewRouter(Deps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Sessions:  stubValidator{token: "good", id: id},
		Health:    health,
		Public:    []Registrar{public},
		Protected: []Registrar{protected},
	}), id
}

func TestRouter_PublicRoutesSkipSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/login"))

	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	router, id := newTestRouter(t, nil)

	t.Run("missing token redirects to login", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/dashboard"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
		testutil.AssertJSONContains(t, rr, "redirect", middleware.LoginPath)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/dashboard")
		req.Header.Set("Authorization", "Bearer good")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "session_id", id.String())
	})

	t.Run("session cookie", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/dashboard")
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "good"})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/dashboard")
		req.Header.Set("Authorization", "Bearer forged")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestRouter_PanicsBecome500(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := testutil.NewRequest(t, http.MethodGet, "/boom")
	req.Header.Set("Authorization", "Bearer good")

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, stubHealth{})
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)

	router, _ = newTestRouter(t, stubHealth{err: errors.New("redis down")})
	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	testutil.AssertJSONContains(t, rr, "status", "unavailable")
}

func TestRouter_HealthReportsOpenCircuits(t *testing.T) {
	newRouter := func(health HealthChecker, breakers BreakerReporter) http.Handler {
		return NewRouter(Deps{
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			Sessions: stubValidator{},
			Health:   health,
			Breakers: breakers,
		})
	}

	t.Run("open circuit degrades but stays up", func(t *testing.T) {
		router := newRouter(stubHealth{}, stubBreakers{"card-details", "cibil"})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONHasKey(t, rr, "open_circuits")
		got := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", got.Status)
		assert.Equal(t, []string{"card-details", "cibil"}, got.OpenCircuits)
	})

	t.Run("all circuits closed", func(t *testing.T) {
		router := newRouter(nil, stubBreakers{})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
		assert.NotContains(t, rr.Body.String(), "open_circuits")
	})

	t.Run("store failure wins over circuits", func(t *testing.T) {
		router := newRouter(stubHealth{err: errors.New("redis down")}, stubBreakers{"cibil"})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "unavailable")
	})
}

func TestRouter_MetricsUseRoutePatterns(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/login"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

	testutil.AssertStatusOK(t, rr)
	body := rr.Body.String()
	require.True(t, strings.Contains(body, "creditdash_http_request_duration_seconds"))
	assert.Contains(t, body, `route="/login"`)
}

func TestRouter_PublicLimitSkipsOpsRoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Deps{
		Logger:   logger,
		Sessions: stubValidator{},
		Public: []Registrar{registrarFunc(func(r chi.Router) {
			r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})},
		PublicLimit: ratelimit.Middleware(ratelimit.NewWindow(1, time.Minute), ratelimit.ByClientIP, logger),
	})

	testutil.AssertStatusOK(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/login")))
	testutil.AssertStatusAndError(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/login")),
		http.StatusTooManyRequests, "rate_limit_exceeded")

	for range 3 {
		testutil.AssertStatusOK(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz")))
	}
}

func TestRouter_LoginLimitKeysOnPeerUnlessProxyTrusted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newRouter := func(trusted []netip.Prefix) http.Handler {
		return NewRouter(Deps{
			Logger:   logger,
			Sessions: stubValidator{},
			Public: []Registrar{registrarFunc(func(r chi.Router) {
				r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
				})
			})},
			PublicLimit:    ratelimit.Middleware(ratelimit.NewWindow(3, time.Minute), ratelimit.ByClientIP, logger),
			TrustedProxies: trusted,
		})
	}
	login := func(router http.Handler, remote, forwarded string) *httptest.ResponseRecorder {
		req := testutil.NewRequest(t, http.MethodPost, "/login")
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", forwarded)
		return testutil.DoRequest(router, req)
	}

	t.Run("rotating forwarded for from an untrusted peer is still throttled", func(t *testing.T) {
		router := newRouter(nil)
		allowed := 0
		for i := range 50 {
			rr := login(router, "203.0.113.9:5000", fmt.Sprintf("198.51.100.%d", i))
			if rr.Code == http.StatusOK {
				allowed++
			}
		}
		assert.Equal(t, 3, allowed)
	})

	t.Run("trusted proxy forwards distinct clients", func(t *testing.T) {
		router := newRouter([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})
		for i := range 5 {
			testutil.AssertStatusOK(t, login(router, "10.0.0.2:5000", fmt.Sprintf("198.51.100.%d", i)))
		}
		for range 3 {
			login(router, "10.0.0.2:5000", "198.51.100.200")
		}
		testutil.AssertStatusAndError(t, login(router, "10.0.0.2:5000", "198.51.100.200"),
			http.StatusTooManyRequests, "rate_limit_exceeded")
	})
}
