package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "rohatours/internal/adapters/http_server"
	kafkaad "rohatours/internal/adapters/kafka"
	"rohatours/internal/adapters/observability"
	redisad "rohatours/internal/adapters/redis"
	"rohatours/internal/app"
	"rohatours/internal/shared"
	mongorepo "rohatours/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db; the connection is opened lazily on the first request
	conn := mongorepo.NewManager(cfg.MongoURI, cfg.MongoDB, cfg.ConnectTimeout)
	repo := mongorepo.New(conn, cfg.MongoCollection, cfg.OpTimeout)
	if cfg.MongoURI != "" {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("ensure indexes failed; continuing")
		}
	}

	opts := []app.Option{app.WithListLimit(cfg.ListLimit)}
	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; list cache will miss until it recovers")
		}
		opts = append(opts, app.WithCache(cache, cfg.CacheTTL))
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafkaad.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		opts = append(opts, app.WithPublisher(producer))
	}
	svc := app.NewBookingService(repo, app.NewNormalizer(cfg.DefaultPackage, nil), opts...)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Router: server.NewRouter(svc)})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := conn.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}
