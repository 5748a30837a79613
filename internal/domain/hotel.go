package domain

// Hotel is a base catalog record. It is never mutated once stored.
type Hotel struct {
	ID      string  `json:"id"` // numeric, e.g. "25622"
	Name    string  `json:"name"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Address string  `json:"address"` // street address
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Attraction is a point of interest near a hotel, as returned by Places text search.
type Attraction struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Address string  `json:"address"`
}

// Descriptions holds the narrative blocks scraped from a hotel's HTML page.
type Descriptions struct {
	Area     string `json:"area"`
	Property string `json:"property"`
}
