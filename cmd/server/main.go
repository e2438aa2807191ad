package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "tanda/internal/jwt_token"
	"tanda/internal/ledger"
	"tanda/internal/platform/config"
	"tanda/internal/platform/httpserver"
	"tanda/internal/platform/logger"
	platformredis "tanda/internal/platform/redis"
	"tanda/internal/pool/handler"
	"tanda/internal/pool/lock"
	"tanda/internal/pool/metrics"
	"tanda/internal/pool/ports"
	"tanda/internal/pool/service"
	poolstore "tanda/internal/pool/store/pool"
	auditpublisher "tanda/pkg/platform/audit/publisher"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in internal/pool.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store ports.PoolStore
		sink  ports.TransferSink
	)
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		store = poolstore.NewPostgres(db)
		sink = ledger.NewPostgres(db)
		log.Info("using postgres pool store")
	} else {
		store = poolstore.NewMemory()
		sink = ledger.NewMemory()
		log.Warn("postgres not configured, using in-memory store and ledger")
	}

	var locker ports.PoolLocker = lock.NewKeyedLocker()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient.Client, cfg.Redis.LockTTL)
		log.Info("using redis pool locker")
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := auditpublisher.New(ctx, cfg.Kafka.Brokers,
			auditpublisher.WithTopic(cfg.Kafka.Topic),
			auditpublisher.WithLogger(log),
		)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, service.WithAuditPublisher(publisher))
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.Topic)
	}

	pools, err := service.New(store, sink, locker, opts...)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	validator := jwttoken.NewValidatorAdapter(jwtService)

	router := chi.NewRouter()
	handler.New(pools, log, validator).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting tanda pool service", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
