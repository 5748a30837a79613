package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_attractions/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Feed files use terse keys (f, ci, pr, ad, ll); longer names are accepted too.
var hotelAliases = map[string][]string{
	"id":      {"id", "hotel_id", "hotelId"},
	"name":    {"f", "name", "hotel_name"},
	"city":    {"ci", "city", "address.city"},
	"state":   {"pr", "state", "province", "address.state"},
	"address": {"ad", "address", "street_address", "address.street"},
	"lat":     {"ll.lat", "lat", "latitude", "location.lat"},
	"lng":     {"ll.lng", "lng", "lon", "longitude", "location.lng"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString: first non-empty string (or number rendered as string) for an alias set.
func firstString(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if t := strings.TrimSpace(v); t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/string like "37,78").
func getFloatFlexible(m map[string]any, key string) (float64, bool) {
	for _, k := range hotelAliases[key] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

/********** hotel mapper **********/

func mapHotel(r map[string]any) domain.Hotel {
	lat, _ := getFloatFlexible(r, "lat")
	lng, _ := getFloatFlexible(r, "lng")
	return domain.Hotel{
		ID:      firstString(r, "id"),
		Name:    firstString(r, "name"),
		City:    firstString(r, "city"),
		State:   firstString(r, "state"),
		Address: firstString(r, "address"),
		Lat:     lat,
		Lng:     lng,
	}
}

// DecodeHotels reads a hotels feed: an object whose "sr" array holds one
// object per hotel. A bare top-level array is accepted as well.
func DecodeHotels(r io.Reader) ([]domain.Hotel, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode hotels: %w", err)
	}

	var rows []map[string]any
	var feed struct {
		SR []map[string]any `json:"sr"`
	}
	if err := json.Unmarshal(raw, &feed); err == nil && feed.SR != nil {
		rows = feed.SR
	} else if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, errors.New(`decode hotels: expected {"sr": [...]} or an array`)
	}

	out := make([]domain.Hotel, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapHotel(row))
	}
	return out, nil
}

func LoadHotelsFile(path string) ([]domain.Hotel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeHotels(f)
}

// AddHotels puts every hotel into the store. Rejected records (bad or
// duplicate ids) are logged and skipped; the count of stored hotels is returned.
func AddHotels(store domain.HotelStore, hotels []domain.Hotel) int {
	n := 0
	for _, h := range hotels {
		if err := store.AddHotel(h); err != nil {
			log.Warn().Err(err).Str("hotel_id", h.ID).Str("name", h.Name).Msg("hotel skipped")
			continue
		}
		n++
	}
	return n
}
