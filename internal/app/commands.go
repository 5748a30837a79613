package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_attractions/internal/adapters/observability"
	"hotel_attractions/internal/adapters/places"
	"hotel_attractions/internal/domain"
	"hotel_attractions/internal/scrape"
)

type EnrichmentService struct {
	store    domain.HotelStore
	places   domain.PlacesClient // nil when no API key is configured
	cache    domain.Cache        // optional
	cacheTTL time.Duration
	workers  int
}

func NewEnrichmentService(s domain.HotelStore, p domain.PlacesClient, c domain.Cache, ttl time.Duration, workers int) *EnrichmentService {
	if workers < 1 {
		workers = 1
	}
	return &EnrichmentService{store: s, places: p, cache: c, cacheTTL: ttl, workers: workers}
}

// FetchReport summarizes one attractions pass.
type FetchReport struct {
	Hotels    int
	Succeeded int
	Failed    int
	CacheHits int
}

// FetchAttractions runs one text search per hotel, in HotelIDs order, and
// merges each result into the store. A hotel whose round trip fails is left
// without attractions; the pass carries on. With one worker (the default)
// exactly one request is in flight at a time.
func (s *EnrichmentService) FetchAttractions(ctx context.Context, radiusMiles float64) (FetchReport, error) {
	if s.places == nil {
		log.Warn().Msg("no places API key configured; skipping attraction fetch")
		return FetchReport{}, domain.ErrMissingCredential
	}
	radius := radiusMiles * places.MilesToMeters

	ids := s.store.HotelIDs()
	rep := FetchReport{Hotels: len(ids)}
	var ok, failed, hits atomic.Int64

	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break // ctx done: stop launching new hotels
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			cached, err := s.fetchOne(ctx, hotelID, radius)
			if err != nil {
				failed.Add(1)
				observability.ObserveEnrichment("attractions", "failed")
				log.Warn().Str("hotel_id", hotelID).Err(err).Msg("attraction fetch failed")
				return
			}
			if cached {
				hits.Add(1)
			}
			ok.Add(1)
			observability.ObserveEnrichment("attractions", "ok")
		}(id)
	}

	wg.Wait()
	rep.Succeeded, rep.Failed, rep.CacheHits = int(ok.Load()), int(failed.Load()), int(hits.Load())
	log.Info().
		Int("hotels", rep.Hotels).
		Int("ok", rep.Succeeded).
		Int("failed", rep.Failed).
		Int("cache_hits", rep.CacheHits).
		Msg("attraction fetch completed")
	return rep, ctx.Err()
}

func (s *EnrichmentService) fetchOne(ctx context.Context, hotelID string, radiusMeters float64) (bool, error) {
	h, found, err := s.store.Hotel(hotelID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownHotel, hotelID)
	}

	key := attractionsKey(hotelID, radiusMeters)
	if s.cache != nil {
		var cached []domain.Attraction
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return true, s.store.AddAttractions(hotelID, cached)
		} else if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
	}

	as, err := s.places.NearbyAttractions(ctx, h, radiusMeters)
	if err != nil {
		return false, err
	}
	if err := s.store.AddAttractions(hotelID, as); err != nil {
		return false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, as, int(s.cacheTTL.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return false, nil
}

func attractionsKey(hotelID string, radiusMeters float64) string {
	return fmt.Sprintf("attractions:%s:%g", hotelID, radiusMeters)
}

// DescriptionReport summarizes one descriptions pass.
type DescriptionReport struct {
	Loaded  int
	Missing int
	Failed  int
}

// LoadDescriptions scrapes dir/h{id}.html for every hotel and hands each
// bundle to the store once. Hotels without a page are skipped.
func (s *EnrichmentService) LoadDescriptions(ctx context.Context, dir string) (DescriptionReport, error) {
	var rep DescriptionReport
	for _, id := range s.store.HotelIDs() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		d, err := scrape.ExtractFile(filepath.Join(dir, scrape.FileName(id)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				rep.Missing++
				observability.ObserveEnrichment("descriptions", "missing")
				log.Debug().Str("hotel_id", id).Msg("no html page")
				continue
			}
			rep.Failed++
			observability.ObserveEnrichment("descriptions", "failed")
			log.Warn().Str("hotel_id", id).Err(err).Msg("html scrape failed")
			continue
		}
		if _, err := s.store.AddDescriptions(id, d); err != nil {
			rep.Failed++
			log.Warn().Str("hotel_id", id).Err(err).Msg("store descriptions failed")
			continue
		}
		rep.Loaded++
		observability.ObserveEnrichment("descriptions", "ok")
	}
	log.Info().
		Int("loaded", rep.Loaded).
		Int("missing", rep.Missing).
		Int("failed", rep.Failed).
		Msg("descriptions loaded")
	return rep, nil
}
