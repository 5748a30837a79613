package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_attractions/internal/adapters/places"
	redisad "hotel_attractions/internal/adapters/redis"
	"hotel_attractions/internal/domain"
	"hotel_attractions/internal/shared"
)

// PlacesFromConfig returns nil when no API key is configured.
func PlacesFromConfig(cfg shared.Config) domain.PlacesClient {
	c, err := places.New(cfg.PlacesKey, places.WithRPS(cfg.PlacesRPS), places.WithTimeout(cfg.PlacesTimeout))
	if err != nil {
		log.Warn().Err(err).Msg("places client disabled")
		return nil
	}
	return c
}

// CacheFromConfig connects to Redis when REDIS_ADDR is set. An unreachable
// server disables the cache rather than failing startup.
func CacheFromConfig(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; attraction cache disabled")
		_ = rc.Close()
		return nil, func() {}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("attraction cache enabled")
	return rc, func() { _ = rc.Close() }
}

// Enrich runs the attractions pass then the descriptions pass. A missing
// API key only skips the first pass.
func (s *EnrichmentService) Enrich(ctx context.Context, radiusMiles float64, htmlDir string) error {
	if _, err := s.FetchAttractions(ctx, radiusMiles); err != nil && !errors.Is(err, domain.ErrMissingCredential) {
		return err
	}
	_, err := s.LoadDescriptions(ctx, htmlDir)
	return err
}
