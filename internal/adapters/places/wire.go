package places

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"hotel_attractions/internal/domain"
)

const (
	DefaultHost = "maps.googleapis.com"
	SearchPath  = "/maps/api/place/textsearch/json"

	// MilesToMeters is the exact international mile.
	MilesToMeters = 1609.344
)

var (
	ErrNoPayload     = errors.New("places: response has no JSON payload")
	ErrMissingField  = errors.New("places: result is missing a required field")
	ErrRequestDenied = errors.New("places: request was not OK")
)

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SearchQuery builds the raw query string for one hotel. The city is
// query-escaped; coordinates and radius use the shortest exact form.
func SearchQuery(h domain.Hotel, radiusMeters float64, key string) string {
	var b strings.Builder
	b.WriteString("query=tourist+attractions+in+")
	b.WriteString(url.QueryEscape(h.City))
	b.WriteString("&location=")
	b.WriteString(fmtFloat(h.Lat))
	b.WriteByte(',')
	b.WriteString(fmtFloat(h.Lng))
	b.WriteString("&radius=")
	b.WriteString(fmtFloat(radiusMeters))
	b.WriteString("&key=")
	b.WriteString(url.QueryEscape(key))
	return b.String()
}

// FrameRequest renders a minimal HTTP/1.1 GET. The server is asked to close
// the connection so the response ends at EOF.
func FrameRequest(host, target string) string {
	return "GET " + target + " HTTP/1.1\r\n" +
		"Host: " + host + "\r\n" +
		"Accept: application/json\r\n" +
		"User-Agent: hotel-attractions/1.0\r\n" +
		"Connection: close\r\n" +
		"\r\n"
}

// StripPreamble drops everything before the first '{'. It does not validate
// the status line or headers; a response without '{' yields nil.
func StripPreamble(raw []byte) []byte {
	i := bytes.IndexByte(raw, '{')
	if i < 0 {
		return nil
	}
	return raw[i:]
}

// Payload returns the response body with the preamble removed. When the
// header block announces chunked transfer coding the chunks are joined first;
// a truncated chunk stream falls back to the raw bytes.
func Payload(raw []byte) []byte {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 && isChunked(raw[:i]) {
		if b, err := io.ReadAll(httputil.NewChunkedReader(bytes.NewReader(raw[i+4:]))); err == nil {
			raw = b
		}
	}
	return StripPreamble(raw)
}

func isChunked(head []byte) bool {
	lines := strings.Split(string(head), "\r\n")
	for _, line := range lines[1:] {
		k, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), "Transfer-Encoding") &&
			strings.Contains(strings.ToLower(v), "chunked") {
			return true
		}
	}
	return false
}

// statusCode reads the code from an "HTTP/1.x NNN ..." status line, or 0.
func statusCode(raw []byte) int {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	f := strings.Fields(string(line))
	if len(f) < 2 || !strings.HasPrefix(f[0], "HTTP/") {
		return 0
	}
	n, err := strconv.Atoi(f[1])
	if err != nil {
		return 0
	}
	return n
}

type searchResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []searchResult `json:"results"`
}

type searchResult struct {
	ID               *string  `json:"id"`
	Name             *string  `json:"name"`
	FormattedAddress *string  `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
}

// ParseResults decodes the first JSON value in body. Trailing bytes (for
// example a chunked-encoding trailer) are ignored. Any result missing one of
// id, name, formatted_address or rating fails the whole payload.
func ParseResults(body []byte) ([]domain.Attraction, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNoPayload
	}
	var resp searchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("places: decode payload: %w", err)
	}
	switch resp.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrRequestDenied, resp.Status, resp.ErrorMessage)
	}

	out := make([]domain.Attraction, 0, len(resp.Results))
	for i, r := range resp.Results {
		if r.ID == nil || r.Name == nil || r.FormattedAddress == nil || r.Rating == nil {
			return nil, fmt.Errorf("%w (result %d)", ErrMissingField, i)
		}
		out = append(out, domain.Attraction{
			ID:      *r.ID,
			Name:    *r.Name,
			Rating:  *r.Rating,
			Address: *r.FormattedAddress,
		})
	}
	return out, nil
}
