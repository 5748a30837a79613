package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestObserve_LogsRouteStatusAndHotelID(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(Observe(l))
	r.Get("/v1/hotels/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("brew"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/25622", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status passthrough: %d", rr.Code)
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%q)", err, buf.String())
	}
	want := map[string]any{
		"route":    "/v1/hotels/{id}",
		"hotel_id": "25622",
		"status":   float64(418),
		"bytes":    float64(4),
		"remote":   "10.0.0.7",
		"level":    "info",
	}
	for k, v := range want {
		if line[k] != v {
			t.Fatalf("%s: got %v want %v (line %v)", k, line[k], v, line)
		}
	}
}

func TestObserve_ServerErrorsLogAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(Observe(zerolog.New(&buf)))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v", err)
	}
	if line["level"] != "error" || line["status"] != float64(500) {
		t.Fatalf("line: %v", line)
	}
	if _, ok := line["hotel_id"]; ok {
		t.Fatalf("no id param on this route: %v", line)
	}
}
