package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hotel_attractions/internal/domain"
	"hotel_attractions/internal/storage/memory"
)

const (
	hotelDelimiter = "********************"
	enrichDelim    = "++++++++++++++++++++"
)

var ErrBadCommand = errors.New("usage: find <hotelId> | findAttraction <hotelId> | findDescriptions <hotelId> | exit")

// LookupService renders store contents as text. Views are built from the
// copies the store hands out, so nothing live escapes a read section.
type LookupService struct {
	store domain.HotelStore
}

func NewLookupService(s domain.HotelStore) *LookupService {
	return &LookupService{store: s}
}

// Hotel renders the hotel summary, or a not-found line.
func (q *LookupService) Hotel(id string) (string, error) {
	id, err := canonical(id)
	if err != nil {
		return "", err
	}
	h, ok, err := q.store.Hotel(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "No hotel details available for this hotelId - " + id, nil
	}
	var b strings.Builder
	b.WriteString("Hotel details of hotelId -- " + h.ID + "\n")
	b.WriteString("HotelName=" + h.Name + "\n")
	b.WriteString("HotelId=" + h.ID + "\n")
	b.WriteString("Latitude=" + fmtCoord(h.Lat) + "\n")
	b.WriteString("Longitude=" + fmtCoord(h.Lng) + "\n")
	b.WriteString("Street=" + h.Address + "\n")
	b.WriteString("City=" + h.City + "\n")
	b.WriteString("State=" + h.State)
	return b.String(), nil
}

// Attractions renders "Attractions near {id}, {name}" and one name per line.
func (q *LookupService) Attractions(id string) (string, error) {
	id, err := canonical(id)
	if err != nil {
		return "", err
	}
	v, err := q.attractionsView(id)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "No tourist attractions found for hotel: " + id, nil
	}
	return v, nil
}

// Descriptions renders the id, the property text and the area text.
func (q *LookupService) Descriptions(id string) (string, error) {
	id, err := canonical(id)
	if err != nil {
		return "", err
	}
	v, err := q.descriptionsView(id)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "No descriptions found for hotel: " + id, nil
	}
	return v, nil
}

// attractionsView is empty when the hotel is unknown or has no attractions.
// id must already be canonical.
func (q *LookupService) attractionsView(id string) (string, error) {
	h, ok, err := q.store.Hotel(id)
	if err != nil || !ok {
		return "", err
	}
	as, _, err := q.store.Attractions(id)
	if err != nil || len(as) == 0 {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Attractions near " + h.ID + ", " + h.Name)
	for _, a := range as {
		b.WriteString("\n" + a.Name)
	}
	return b.String(), nil
}

func (q *LookupService) descriptionsView(id string) (string, error) {
	d, ok, err := q.store.Descriptions(id)
	if err != nil || !ok {
		return "", err
	}
	var b strings.Builder
	b.WriteString(id)
	if d.Property != "" {
		b.WriteString("\n" + d.Property)
	}
	b.WriteString("\n")
	if d.Area != "" {
		b.WriteString("\n" + d.Area)
	}
	return b.String(), nil
}

/********** bulk output **********/

// PrintHotels writes every hotel sorted by id, each preceded by a blank line
// and the asterisk delimiter.
func (q *LookupService) PrintHotels(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range q.store.HotelIDs() {
		h, ok, err := q.store.Hotel(id)
		if err != nil || !ok {
			continue
		}
		fmt.Fprintf(bw, "\n%s\n%s: %s\n%s\n%s, %s\n", hotelDelimiter, h.Name, h.ID, h.Address, h.City, h.State)
	}
	return bw.Flush()
}

func (q *LookupService) PrintAttractions(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range q.store.HotelIDs() {
		v, err := q.attractionsView(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s\n\n%s\n", v, enrichDelim)
	}
	return bw.Flush()
}

// PrintDescriptions skips hotels that have no descriptions.
func (q *LookupService) PrintDescriptions(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range q.store.HotelIDs() {
		v, err := q.descriptionsView(id)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		fmt.Fprintf(bw, "%s\n%s\n", v, enrichDelim)
	}
	return bw.Flush()
}

/********** interactive commands **********/

// Dispatch runs one REPL line: find, findAttraction or findDescriptions
// followed by a hotel id.
func (q *LookupService) Dispatch(line string) (string, error) {
	f := strings.Fields(line)
	if len(f) != 2 {
		return "", ErrBadCommand
	}
	switch f[0] {
	case "find":
		return q.Hotel(f[1])
	case "findAttraction":
		return q.Attractions(f[1])
	case "findDescriptions":
		return q.Descriptions(f[1])
	}
	return "", ErrBadCommand
}

// canonical validates id as a positive integer and returns its plain form ("007" -> "7").
func canonical(id string) (string, error) {
	n, err := memory.ParseID(id)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

func fmtCoord(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
