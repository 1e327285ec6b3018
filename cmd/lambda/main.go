package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	server "rohatours/internal/adapters/http_server"
	kafkaad "rohatours/internal/adapters/kafka"
	lambdaad "rohatours/internal/adapters/lambda"
	"rohatours/internal/adapters/observability"
	redisad "rohatours/internal/adapters/redis"
	"rohatours/internal/app"
	"rohatours/internal/shared"
	mongorepo "rohatours/internal/storage/mongo"
)

// The handler lives for the whole container, so warm invocations reuse
// the Mongo client the first one opened.
var handler *lambdaad.Handler

func init() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	conn := mongorepo.NewManager(cfg.MongoURI, cfg.MongoDB, cfg.ConnectTimeout)
	repo := mongorepo.New(conn, cfg.MongoCollection, cfg.OpTimeout)

	opts := []app.Option{app.WithListLimit(cfg.ListLimit)}
	if cfg.RedisAddr != "" {
		opts = append(opts, app.WithCache(redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), cfg.CacheTTL))
	}
	if len(cfg.KafkaBrokers) > 0 {
		opts = append(opts, app.WithPublisher(kafkaad.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)))
	}
	svc := app.NewBookingService(repo, app.NewNormalizer(cfg.DefaultPackage, nil), opts...)
	handler = &lambdaad.Handler{Router: server.NewRouter(svc)}
}

func main() {
	lambda.Start(handler.Handle)
}
