// Command server runs the academic integrity consent service: the statement
// HTTP API plus a Prometheus metrics endpoint. Business logic lives in the
// internal services packages; this file only wires dependencies together.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"integrity/internal/admin"
	"integrity/internal/agreement"
	"integrity/internal/contextdir"
	"integrity/internal/integrity"
	"integrity/internal/integrity/handler"
	"integrity/internal/platform/cache"
	"integrity/internal/platform/config"
	"integrity/internal/platform/httpserver"
	"integrity/internal/platform/logger"
	"integrity/internal/platform/metrics"
	"integrity/internal/platform/middleware"
	"integrity/internal/platform/postgres"
	redisplatform "integrity/internal/platform/redis"
	"integrity/internal/policy"
	"integrity/internal/privacy"
	"integrity/internal/reset"
	"integrity/internal/settings"
	"integrity/pkg/platform/audit"
	"integrity/pkg/platform/audit/publisher"
	kafkaaudit "integrity/pkg/platform/audit/publishers/kafka"
	auditpg "integrity/pkg/platform/audit/store/postgres"
)

func main() {
	configPath := flag.String("config", os.Getenv("INTEGRITY_CONFIG"), "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()
	if err := postgres.Migrate(db, cfg.Postgres.MigrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	registry, err := policy.NewRegistry(cfg.Policies)
	if err != nil {
		return fmt.Errorf("build policy registry: %w", err)
	}

	m := metrics.New()

	var sharedCache cache.Cache
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sharedCache = cache.NewRedis(redisClient.Client)
		log.Info("using redis cache", "url", cfg.Redis.URL)
	} else {
		sharedCache = cache.NewMemory()
		log.Info("redis not configured, using in-process cache")
	}

	auditSink, closeSink, err := buildAuditSink(ctx, cfg.Audit, db)
	if err != nil {
		return fmt.Errorf("build audit sink: %w", err)
	}
	defer closeSink()

	auditPub := publisher.New(auditSink, log, publisher.WithAsyncBuffer(256))
	defer auditPub.Close()

	pgSettings := settings.NewPostgres(db)
	pgAgreements := agreement.NewPostgres(db)
	settingsStore := settings.NewCachedStore(pgSettings, sharedCache, log, m)
	agreementStore := agreement.NewCachedStore(pgAgreements, sharedCache, log, m)

	service := integrity.New(
		registry,
		settingsStore,
		agreementStore,
		integrity.PrincipalAuthorizer{},
		auditPub,
		m,
		log,
	)

	resetSvc := reset.New(pgAgreements, pgSettings, contextdir.NewPostgres(db), sharedCache, auditPub, log)
	privacySvc := privacy.New(pgAgreements, pgSettings, sharedCache, auditPub, log)

	auth := middleware.HeaderAuthenticator{}
	router := chi.NewRouter()
	handler.New(service, auth, log, m).Register(router)
	admin.New(resetSvc, privacySvc, auth, log, m).Register(router)

	apiServer := httpserver.New(cfg.Addr, router)

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())
	metricsRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := httpserver.New(cfg.MetricsAddr, metricsRouter)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting statement API", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics endpoint", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api server: %w", err)
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildAuditSink prefers Kafka when brokers are configured and falls back to
// the audit table otherwise.
func buildAuditSink(ctx context.Context, cfg config.AuditConfig, db *sql.DB) (audit.Sink, func(), error) {
	if len(cfg.Brokers) > 0 {
		pub, err := kafkaaudit.New(ctx, cfg.Brokers, cfg.Topic)
		if err != nil {
			return nil, nil, err
		}
		return pub, pub.Close, nil
	}
	return auditpg.New(db), func() {}, nil
}
