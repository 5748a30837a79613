package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_attractions/internal/adapters/http_server"
	"hotel_attractions/internal/adapters/observability"
	"hotel_attractions/internal/app"
	"hotel_attractions/internal/shared"
	"hotel_attractions/internal/storage/memory"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// catalog
	hotels, err := app.LoadHotelsFile(cfg.HotelsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.HotelsFile).Msg("load hotels failed")
	}
	store := memory.New()
	n := app.AddHotels(store, hotels)
	observability.StoreHotels.Set(float64(store.Len()))
	log.Info().Int("stored", n).Msg("hotels loaded")

	// enrichment
	cache, closeCache := app.CacheFromConfig(ctx, cfg)
	defer closeCache()
	svc := app.NewEnrichmentService(store, app.PlacesFromConfig(cfg), cache, cfg.CacheTTL, cfg.Workers)
	if err := svc.Enrich(ctx, cfg.RadiusMiles, cfg.HTMLDir); err != nil {
		log.Error().Err(err).Msg("enrichment interrupted")
	}

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Store: store})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
