package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"creditdash/internal/auth/token"
	"creditdash/internal/dashboard"
	dashboardHandler "creditdash/internal/dashboard/handler"
	"creditdash/internal/enrichment"
	"creditdash/internal/export"
	exportHandler "creditdash/internal/export/handler"
	"creditdash/internal/gateway"
	"creditdash/internal/platform/config"
	"creditdash/internal/platform/httpserver"
	"creditdash/internal/platform/logger"
	"creditdash/internal/platform/metrics"
	"creditdash/internal/platform/middleware"
	redisClient "creditdash/internal/platform/redis"
	"creditdash/internal/preload"
	preloadHandler "creditdash/internal/preload/handler"
	"creditdash/internal/ratelimit"
	"creditdash/internal/session/store"
	httptransport "creditdash/internal/transport/http"
)

const (
	tokenIssuer   = "creditdash"
	tokenAudience = "creditdash-dashboard"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rc, err := redisClient.New(startCtx, cfg.Redis)
	cancel()
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var sessions store.Store
	if rc != nil {
		sessions = store.NewRedis(rc.Client, cfg.Session.TTL)
		log.Info("session store: redis")
	} else {
		sessions = store.NewInMemory(cfg.Session.TTL)
		log.Info("session store: in-memory")
	}

	gw := gateway.New(cfg.Backend.BaseURL,
		gateway.WithTimeouts(gateway.Timeouts{
			Default:    cfg.Backend.Timeout,
			CardLookup: cfg.Backend.CardLookupTimeout,
			Export:     cfg.Backend.ExportTimeout,
		}),
		gateway.WithBreaker(cfg.Backend.BreakerFailures, cfg.Backend.BreakerCooldown),
		gateway.WithMetrics(m),
		gateway.WithLogger(log),
	)

	jwtService := token.NewJWTService(cfg.Session.SigningKey, tokenIssuer, tokenAudience)

	loginService := preload.NewService(
		preload.NewOrchestrator(gw, log),
		sessions,
		jwtService,
		preload.WithPreloadTimeout(cfg.Backend.PreloadTimeout),
		preload.WithSessionTTL(cfg.Session.TTL),
		preload.WithMetrics(m),
		preload.WithLogger(log),
	)

	cards := enrichment.NewCoordinator(
		enrichment.NewEnricher(gw, cfg.Enrichment.Concurrency, log, m),
		sessions,
		log,
	)
	dashboardService := dashboard.NewService(sessions, cards, log)
	exportService := export.NewService(gw, export.WithLogger(log), export.WithMetrics(m))

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	deps := httptransport.Deps{
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		Sessions:       jwtService,
		Health:         rc,
		Breakers:       gw,
		TrustedProxies: proxies,
		Public: []httptransport.Registrar{
			preloadHandler.New(loginService, log, cfg.Session.CookieSecure),
		},
		Protected: []httptransport.Registrar{
			dashboardHandler.New(dashboardService, log, cfg.Session.CookieSecure),
			exportHandler.New(dashboardService, exportService, log, middleware.LoginPath),
		},
	}
	if n := cfg.RateLimit.LoginPerMinute; n > 0 {
		deps.PublicLimit = ratelimit.Middleware(ratelimit.NewWindow(n, time.Minute), ratelimit.ByClientIP, log)
	}
	if n := cfg.RateLimit.SessionPerMinute; n > 0 {
		deps.ProtectedLimit = ratelimit.Middleware(ratelimit.NewWindow(n, time.Minute), ratelimit.BySession, log)
	}
	router := httptransport.NewRouter(deps)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting creditdash",
		"addr", cfg.Addr,
		"backend", cfg.Backend.BaseURL,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := rc.Close(); err != nil {
		log.Error("failed to close redis", "error", err)
	}
}
