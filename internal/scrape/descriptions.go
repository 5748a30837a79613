// Package scrape pulls the "About this area" and "About this property" text
// out of hotel HTML pages. It matches text patterns only and never builds a
// DOM, so broken markup is tolerated.
package scrape

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"hotel_attractions/internal/domain"
)

// Each template: the section marker, then the first <h4> text after it, then
// the first <p> text after that. Captures stop at the next tag boundary.
var (
	areaRe     = section("About this area")
	propertyRe = section("About this property")
)

func section(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(marker) +
		`.*?<h4\b[^>]*>([^<]*)` +
		`.*?<p\b[^>]*>([^<]*)`)
}

// Extract returns both description fields for one HTML document. A section
// with no match yields an empty string.
func Extract(html string) domain.Descriptions {
	return domain.Descriptions{
		Area:     collect(areaRe, html),
		Property: collect(propertyRe, html),
	}
}

// collect joins every non-overlapping match in document order; each match
// renders as heading, newline, paragraph.
func collect(re *regexp.Regexp, html string) string {
	var parts []string
	for _, m := range re.FindAllStringSubmatch(html, -1) {
		parts = append(parts, m[1]+"\n"+m[2])
	}
	return strings.Join(parts, "\n")
}

func ExtractFile(path string) (domain.Descriptions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Descriptions{}, fmt.Errorf("scrape: read %s: %w", path, err)
	}
	return Extract(string(b)), nil
}

// FileName is the per-hotel page name, h{id}.html.
func FileName(hotelID string) string { return "h" + hotelID + ".html" }
