package processor

import "booking-scraper/internal/models"

// Filter keeps the listings that satisfy every predicate in f. Bounds are
// inclusive; any rating bound drops unrated listings.
func Filter(listings []models.Listing, f models.Filters) []models.Listing {
	filtered := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if matches(&listings[i], f) {
			filtered = append(filtered, listings[i])
		}
	}
	return filtered
}

func matches(l *models.Listing, f models.Filters) bool {
	if f.MinPrice != nil && l.PriceNumeric < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.PriceNumeric > *f.MaxPrice {
		return false
	}
	if f.MaxDistance != nil && l.DistanceNumeric > *f.MaxDistance {
		return false
	}
	if f.MinRating != nil {
		rating, ok := l.ParseRating()
		if !ok || rating < *f.MinRating {
			return false
		}
	}
	if f.OnlyWithDiscount && !l.HasDiscount {
		return false
	}
	return true
}
