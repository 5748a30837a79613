package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_attractions/internal/domain"
	"hotel_attractions/internal/storage/memory"
)

// Handlers serve read-only JSON views of the store.
type Handlers struct{ Store domain.HotelStore }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type hotelList struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

type attractionsResponse struct {
	HotelID     string              `json:"hotel_id"`
	HotelName   string              `json:"hotel_name"`
	Attractions []domain.Attraction `json:"attractions"`
}

type descriptionsResponse struct {
	HotelID  string `json:"hotel_id"`
	Property string `json:"property,omitempty"`
	Area     string `json:"area,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/attractions", h.getAttractions)
	s.mux.Get("/v1/hotels/{id}/descriptions", h.getDescriptions)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps store errors to problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive integer")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// hotelParam validates {id} and resolves the hotel it names.
func (h *Handlers) hotelParam(r *http.Request) (domain.Hotel, error) {
	n, err := memory.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return domain.Hotel{}, err
	}
	id := strconv.FormatInt(n, 10)
	hotel, ok, err := h.Store.Hotel(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if !ok {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
	}
	return hotel, nil
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	ids := h.Store.HotelIDs()
	writeJSON(w, r, hotelList{IDs: ids, Count: len(ids)})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.hotelParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, hotel)
}

func (h *Handlers) getAttractions(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.hotelParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	as, ok, err := h.Store.Attractions(hotel.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeErr(w, fmt.Errorf("%w: no attractions recorded for hotel %s", domain.ErrNotFound, hotel.ID))
		return
	}
	writeJSON(w, r, attractionsResponse{HotelID: hotel.ID, HotelName: hotel.Name, Attractions: as})
}

func (h *Handlers) getDescriptions(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.hotelParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	d, ok, err := h.Store.Descriptions(hotel.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeErr(w, fmt.Errorf("%w: no descriptions for hotel %s", domain.ErrNotFound, hotel.ID))
		return
	}
	writeJSON(w, r, descriptionsResponse{HotelID: hotel.ID, Property: d.Property, Area: d.Area})
}
