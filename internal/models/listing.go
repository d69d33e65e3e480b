package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Sentinels stand in for fields a listing card did not expose.
const (
	NotAvailable    = "N/A"
	MissingPrice    = 0.0
	MissingDistance = 999.0
)

// Listing represents one hotel card from a search results page.
// Every field is always populated; absent data uses the sentinels above.
type Listing struct {
	Name               string  `json:"name"`
	URL                string  `json:"url"`
	Price              string  `json:"price"`
	PriceNumeric       float64 `json:"priceNumeric"`
	OriginalPrice      *string `json:"originalPrice"`
	HasDiscount        bool    `json:"hasDiscount"`
	Rating             string  `json:"rating"`
	ReviewCount        string  `json:"reviewCount"`
	DistanceFromCenter string  `json:"distanceFromCenter"`
	DistanceNumeric    float64 `json:"distanceNumeric"`
	Address            string  `json:"address"`
	Image              string  `json:"image"`
}

var ratingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseRating returns the numeric rating and whether the rating text held one.
func (l *Listing) ParseRating() (float64, bool) {
	m := ratingNumber.FindString(l.Rating)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RatingValue returns the rating as a number, or 0 when it cannot be parsed.
func (l *Listing) RatingValue() float64 {
	v, _ := l.ParseRating()
	return v
}

// ToJSON converts the listing to JSON string
func (l *Listing) ToJSON() ([]byte, error) {
	return json.Marshal(l)
}

// FromJSON creates a listing from JSON data
func FromJSON(data []byte) (*Listing, error) {
	var listing Listing
	err := json.Unmarshal(data, &listing)
	return &listing, err
}
