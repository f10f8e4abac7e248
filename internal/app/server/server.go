package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"payroll/internal/app/backend"
	"payroll/internal/domain/audit"
	"payroll/internal/domain/auth"
	"payroll/internal/domain/payroll"
	"payroll/internal/platform/config"
	"payroll/internal/platform/db"
	"payroll/internal/platform/jobs"
	audithandler "payroll/internal/transport/http/handlers/audit"
	corehandler "payroll/internal/transport/http/handlers/core"
	payrollhandler "payroll/internal/transport/http/handlers/payroll"
	"payroll/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *db.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Issuer  *payroll.Issuer
	backend *backend.Backend
	stopJob context.CancelFunc
}

// New opens the payroll backend described by cfg and assembles the HTTP router. Redis and
// Kafka are optional; without them payslips are read straight from Postgres and no events
// are emitted.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pool := b.DB
	app := &App{Config: cfg, DB: pool, Jobs: b.Jobs, Issuer: b.Issuer, backend: b}
	collector := b.Metrics
	rdb := b.Redis()

	jobCtx, cancel := context.WithCancel(context.Background())
	app.stopJob = cancel
	if err := app.Jobs.Start(jobCtx); err != nil {
		app.Close()
		return nil, err
	}

	perms := auth.StaticPermissions{}
	trail := audit.New(pool)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
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
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				http.Error(w, "cache not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

		employees := corehandler.NewHandler(b.Employees, perms)
		employees.Audit = trail
		employees.RegisterRoutes(r)

		payslipRoutes := payrollhandler.NewHandler(b.Issuer, b.Employees, b.Archive, b.Jobs, perms)
		payslipRoutes.Audit = trail
		payslipRoutes.RegisterRoutes(r)

		audithandler.NewHandler(trail, perms).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

func (a *App) Close() {
	if a.stopJob != nil {
		a.stopJob()
	}
	if a.backend != nil {
		a.backend.Close()
	}
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if err := serve(cfg); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func serve(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown failed", "err", err)
		}
	}()

	slog.Info("payroll server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
