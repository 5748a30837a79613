// Package memory holds the hotel catalog and its enrichment data behind one
// readers/writer lock.
package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"hotel_attractions/internal/domain"
)

// Store keeps hotels, attractions and descriptions as one logical unit.
// Every exported method takes the lock itself; there is no unguarded path.
type Store struct {
	mu           sync.RWMutex
	hotels       map[int64]domain.Hotel
	attractions  map[int64][]domain.Attraction
	descriptions map[int64]domain.Descriptions
}

func New() *Store {
	return &Store{
		hotels:       make(map[int64]domain.Hotel),
		attractions:  make(map[int64][]domain.Attraction),
		descriptions: make(map[int64]domain.Descriptions),
	}
}

// ParseID converts a hotel id to its integer key. Only positive integers are ids.
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return n, nil
}

// AddHotel stores h under its canonical id: "007" is stored and returned as
// "7", so lookups by either form agree.
func (s *Store) AddHotel(h domain.Hotel) error {
	key, err := ParseID(h.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[key]; ok {
		return fmt.Errorf("%w: %d", domain.ErrDuplicateHotel, key)
	}
	h.ID = strconv.FormatInt(key, 10)
	s.hotels[key] = h
	return nil
}

func (s *Store) AddAttraction(hotelID string, a domain.Attraction) error {
	return s.AddAttractions(hotelID, []domain.Attraction{a})
}

// AddAttractions appends a batch in order under a single lock acquisition.
// An empty batch still records the hotel as having a (empty) result.
func (s *Store) AddAttractions(hotelID string, as []domain.Attraction) error {
	key, err := ParseID(hotelID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[key]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownHotel, key)
	}
	cur := s.attractions[key]
	if cur == nil {
		cur = make([]domain.Attraction, 0, len(as))
	}
	s.attractions[key] = append(cur, as...)
	return nil
}

// AddDescriptions stores d unless a bundle already exists for the hotel.
// It reports whether d was stored; a second call is a silent no-op.
func (s *Store) AddDescriptions(hotelID string, d domain.Descriptions) (bool, error) {
	key, err := ParseID(hotelID)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[key]; !ok {
		return false, fmt.Errorf("%w: %d", domain.ErrUnknownHotel, key)
	}
	if _, ok := s.descriptions[key]; ok {
		return false, nil
	}
	s.descriptions[key] = d
	return true, nil
}

// HotelIDs returns a snapshot of all ids in ascending numeric order.
func (s *Store) HotelIDs() []string {
	s.mu.RLock()
	keys := make([]int64, 0, len(s.hotels))
	for k := range s.hotels {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strconv.FormatInt(k, 10)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hotels)
}

func (s *Store) Hotel(id string) (domain.Hotel, bool, error) {
	key, err := ParseID(id)
	if err != nil {
		return domain.Hotel{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotels[key]
	return h, ok, nil
}

// Attractions returns a copy of the hotel's attractions. found is false when
// no fetch result was recorded (unknown hotel, failed or skipped fetch); a
// recorded empty result yields an empty non-nil slice.
func (s *Store) Attractions(id string) ([]domain.Attraction, bool, error) {
	key, err := ParseID(id)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.attractions[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]domain.Attraction, len(src))
	copy(out, src)
	return out, true, nil
}

func (s *Store) Descriptions(id string) (domain.Descriptions, bool, error) {
	key, err := ParseID(id)
	if err != nil {
		return domain.Descriptions{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.descriptions[key]
	return d, ok, nil
}

// HasAttractions reports whether any fetch result (possibly empty) was recorded.
func (s *Store) HasAttractions(id string) bool {
	key, err := ParseID(id)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.attractions[key]
	return ok
}

var _ domain.HotelStore = (*Store)(nil)
