package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	_ "storefront/docs"
	"storefront/pkg/api"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
	"storefront/pkg/shop"
	"storefront/pkg/shop/memory"
	pg "storefront/pkg/shop/postgres"
	redispub "storefront/pkg/shop/redis"
	"storefront/pkg/shutdown"
)

// @title Storefront API
// @version 1.0
// @description Catalog, cart and checkout for a single in-memory shop
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "storefront", otel.GetTraceID).With("env", cfg.AppEnv)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: "storefront",
		Exporter:    cfg.OTELExporter,
		Host:        cfg.OTELHost,
		Probability: cfg.OTELSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	sinks, closeSinks, err := openSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	opts := api.Options{Tracer: tp.Tracer("storefront"), SinkTimeout: cfg.SinkTimeout}
	if len(sinks) > 0 {
		opts.Sink = sinks
	}
	srv := api.New(memory.New(), log, opts)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutdown requested")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		return server.Shutdown(stopCtx)
	})

	err = g.Wait()
	log.Info(context.Background(), "bye")
	return err
}

// openSinks connects the purchase sinks whose address is configured.
func openSinks(ctx context.Context, cfg config.Config, log *logger.Logger) (shop.Sinks, func(), error) {
	var (
		sinks   shop.Sinks
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis unreachable, publishing anyway", "addr", cfg.RedisAddr, "error", err)
		}
		sinks = append(sinks, redispub.New(rdb, cfg.RedisChannel))
		log.Info(ctx, "purchase publisher enabled", "addr", cfg.RedisAddr, "channel", cfg.RedisChannel)
	}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		closers = append(closers, db.Close)
		archive := pg.New(db)
		if err := archive.Migrate(ctx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("create tables: %w", err)
		}
		sinks = append(sinks, archive)
		log.Info(ctx, "purchase archive enabled", "run_id", archive.RunID().String())
	}

	return sinks, closeAll, nil
}
