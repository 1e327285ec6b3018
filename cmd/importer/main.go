package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"rohatours/internal/adapters/observability"
	"rohatours/internal/app"
	"rohatours/internal/shared"
	mongorepo "rohatours/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	file := pflag.StringP("file", "f", "", "JSON file holding an array of booking records")
	workers := pflag.Int("workers", cfg.ImportWorkers, "concurrent creates")
	rps := pflag.Int("rps", cfg.ImportRPS, "max creates per second (0 = unlimited)")
	pflag.Parse()
	if *file == "" {
		log.Fatal().Msg("--file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read import file failed")
	}
	var records []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("import file is not a JSON array of objects")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := mongorepo.NewManager(cfg.MongoURI, cfg.MongoDB, cfg.ConnectTimeout)
	defer func() { _ = conn.Close(context.Background()) }()
	repo := mongorepo.New(conn, cfg.MongoCollection, cfg.OpTimeout)
	svc := app.NewBookingService(repo, app.NewNormalizer(cfg.DefaultPackage, nil))

	log.Info().
		Str("file", *file).
		Int("records", len(records)).
		Int("workers", *workers).
		Int("rps", *rps).
		Msg("import starting")

	rep, err := app.NewImportService(svc, *workers, *rps).Import(ctx, records)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("created", rep.Created).Int("rejected", rep.Rejected).Int("failed", rep.Failed).Msg("import completed")
	if err != nil {
		_ = conn.Close(context.Background())
		os.Exit(1)
	}
}
