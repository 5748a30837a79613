package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidID         = errors.New("invalid hotel id")
	ErrNotFound          = errors.New("not found")
	ErrUnknownHotel      = wrapKind{msg: "unknown hotel id", kind: ErrInvalidID}
	ErrDuplicateHotel    = errors.New("hotel already exists")
	ErrMissingCredential = errors.New("places API key is missing")
)

// wrapKind lets a sentinel also match a broader kind through errors.Is.
type wrapKind struct {
	msg  string
	kind error
}

func (e wrapKind) Error() string { return e.msg }
func (e wrapKind) Unwrap() error { return e.kind }

// HotelStore is the guarded catalog plus its enrichment data.
type HotelStore interface {
	// Write paths
	AddHotel(h Hotel) error
	AddAttraction(hotelID string, a Attraction) error
	AddAttractions(hotelID string, as []Attraction) error
	AddDescriptions(hotelID string, d Descriptions) (bool, error)

	// Read paths
	HotelIDs() []string
	Hotel(id string) (Hotel, bool, error)
	Attractions(id string) ([]Attraction, bool, error)
	Descriptions(id string) (Descriptions, bool, error)
}

type PlacesClient interface {
	// NearbyAttractions runs one text search around h within radiusMeters.
	NearbyAttractions(ctx context.Context, h Hotel, radiusMeters float64) ([]Attraction, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
