// Package processor sorts and filters scraped listings. Every function
// returns a new slice and leaves its input untouched.
package processor

import (
	"cmp"
	"slices"
	"strings"

	"booking-scraper/internal/models"
)

// Sort keys and orders.
const (
	SortByPrice    = "price"
	SortByDistance = "distance"
	SortByRating   = "rating"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

func sortValue(key string) func(l *models.Listing) float64 {
	switch strings.ToLower(key) {
	case SortByPrice:
		return func(l *models.Listing) float64 { return l.PriceNumeric }
	case SortByDistance:
		return func(l *models.Listing) float64 { return l.DistanceNumeric }
	case SortByRating:
		return (*models.Listing).RatingValue
	default:
		return nil
	}
}

// Sort orders listings by key, descending when order is "desc" and
// ascending otherwise. Ties keep their input order; an unknown key
// returns a copy in input order.
func Sort(listings []models.Listing, key, order string) []models.Listing {
	sorted := slices.Clone(listings)

	value := sortValue(key)
	if value == nil {
		return sorted
	}

	desc := strings.EqualFold(order, OrderDesc)
	slices.SortStableFunc(sorted, func(a, b models.Listing) int {
		c := cmp.Compare(value(&a), value(&b))
		if desc {
			return -c
		}
		return c
	})

	return sorted
}

// ValidSortKey reports whether key selects a sort field.
func ValidSortKey(key string) bool {
	return sortValue(key) != nil
}
