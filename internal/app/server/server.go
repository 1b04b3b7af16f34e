package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atskpi/internal/domain/auth"
	"atskpi/internal/domain/calls"
	"atskpi/internal/domain/funnel"
	"atskpi/internal/domain/goals"
	"atskpi/internal/platform/config"
	cryptoutil "atskpi/internal/platform/crypto"
	"atskpi/internal/platform/db"
	"atskpi/internal/platform/jobs"
	"atskpi/internal/platform/metrics"
	adminhandler "atskpi/internal/transport/http/handlers/admin"
	authhandler "atskpi/internal/transport/http/handlers/auth"
	callshandler "atskpi/internal/transport/http/handlers/calls"
	goalshandler "atskpi/internal/transport/http/handlers/goals"
	insightshandler "atskpi/internal/transport/http/handlers/insights"
	kpihandler "atskpi/internal/transport/http/handlers/kpi"
	reportshandler "atskpi/internal/transport/http/handlers/reports"
	"atskpi/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	authSvc := auth.NewService(auth.NewStore(pool))
	goalsSvc := goals.NewService(goals.NewStore(pool))
	funnelSvc := funnel.NewService(funnel.NewStore(pool))
	callsSvc := calls.NewService(calls.NewStore(pool))

	jobsSvc := jobs.New(pool, cfg, funnelSvc, callsSvc)
	jobsSvc.Start(ctx)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	defaultMode := funnel.ModeStep
	if cfg.DefaultRateMode == "base" {
		defaultMode = funnel.ModeBase
	}

	perms := auth.NewStore(pool)
	idem := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc, cfg.JWTSecret, cryptoSvc).RegisterRoutes(r)
		goalshandler.NewHandler(goalsSvc, perms).RegisterRoutes(r)
		kpihandler.NewHandler(funnelSvc, goalsSvc, perms, defaultMode).RegisterRoutes(r)
		callshandler.NewHandler(callsSvc, perms, idem).RegisterRoutes(r)
		insightshandler.NewHandler(callsSvc, perms).RegisterRoutes(r)
		reportshandler.NewHandler(funnelSvc, goalsSvc, perms, cfg.ExportDir, defaultMode).RegisterRoutes(r)
		adminhandler.NewHandler(authSvc, jobsSvc, perms, collector).RegisterRoutes(r)
	})

	log.Printf("KPI server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
