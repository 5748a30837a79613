package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "hotel_attractions/internal/adapters/http_server"
	"hotel_attractions/internal/domain"
	"hotel_attractions/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := memory.New()
	for _, h := range []domain.Hotel{
		{ID: "25622", Name: "Hilton", City: "San Francisco", State: "CA", Lat: 37.78616, Lng: -122.41018},
		{ID: "10323", Name: "Nikko", City: "San Francisco", State: "CA"},
		{ID: "77", Name: "Unfetched", City: "Oakland", State: "CA"},
	} {
		if err := s.AddHotel(h); err != nil {
			t.Fatalf("AddHotel: %v", err)
		}
	}
	_ = s.AddAttractions("25622", []domain.Attraction{{ID: "a1", Name: "Union Square", Rating: 4.6, Address: "Union Sq"}})
	_ = s.AddAttractions("10323", nil)
	_, _ = s.AddDescriptions("25622", domain.Descriptions{Area: "Downtown", Property: "Luxury"})

	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{Store: s})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	if res := get(t, ts.URL+"/healthz", nil); res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestListHotels_SortedIDs(t *testing.T) {
	ts := newTestServer(t)
	res := get(t, ts.URL+"/v1/hotels", nil)
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var body struct {
		IDs   []string `json:"ids"`
		Count int      `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 3 || body.IDs[0] != "77" || body.IDs[1] != "10323" || body.IDs[2] != "25622" {
		t.Fatalf("body: %+v", body)
	}
}

func TestGetHotel_ETagRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	res := get(t, ts.URL+"/v1/hotels/25622", nil)
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var h domain.Hotel
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Name != "Hilton" || h.Lat != 37.78616 {
		t.Fatalf("hotel: %+v", h)
	}
	etag := res.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("etag: %q", etag)
	}

	res2 := get(t, ts.URL+"/v1/hotels/25622", map[string]string{"If-None-Match": etag})
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", res2.StatusCode)
	}
}

func TestGetAttractions(t *testing.T) {
	ts := newTestServer(t)

	res := get(t, ts.URL+"/v1/hotels/25622/attractions", nil)
	var body struct {
		HotelID     string              `json:"hotel_id"`
		Attractions []domain.Attraction `json:"attractions"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.HotelID != "25622" || len(body.Attractions) != 1 || body.Attractions[0].Rating != 4.6 {
		t.Fatalf("body: %+v", body)
	}

	// search ran and found nothing: empty list rather than 404
	res = get(t, ts.URL+"/v1/hotels/10323/attractions", nil)
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var raw map[string]json.RawMessage
	_ = json.NewDecoder(res.Body).Decode(&raw)
	if string(raw["attractions"]) != "[]" {
		t.Fatalf("attractions: %s", raw["attractions"])
	}

	// fetch failed or never ran: no result to report
	res = get(t, ts.URL+"/v1/hotels/77/attractions", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unfetched hotel: want 404, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type %q", ct)
	}
}

func TestGetDescriptions(t *testing.T) {
	ts := newTestServer(t)
	res := get(t, ts.URL+"/v1/hotels/25622/descriptions", nil)
	var d struct {
		Area     string `json:"area"`
		Property string `json:"property"`
	}
	if err := json.NewDecoder(res.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Area != "Downtown" || d.Property != "Luxury" {
		t.Fatalf("body: %+v", d)
	}

	if res := get(t, ts.URL+"/v1/hotels/10323/descriptions", nil); res.StatusCode != 404 {
		t.Fatalf("want 404, got %d", res.StatusCode)
	}
}

func TestProblems(t *testing.T) {
	ts := newTestServer(t)
	cases := map[string]int{
		"/v1/hotels/abc":             400,
		"/v1/hotels/-1/attractions":  400,
		"/v1/hotels/0/descriptions":  400,
		"/v1/hotels/999":             404,
		"/v1/hotels/999/attractions": 404,
	}
	for path, want := range cases {
		res := get(t, ts.URL+path, nil)
		if res.StatusCode != want {
			t.Fatalf("%s: want %d, got %d", path, want, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: content-type %q", path, ct)
		}
		var p struct {
			Status int `json:"status"`
		}
		if err := json.NewDecoder(res.Body).Decode(&p); err != nil || p.Status != want {
			t.Fatalf("%s: problem body %+v %v", path, p, err)
		}
	}
}
