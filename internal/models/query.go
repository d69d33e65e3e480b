package models

// Query defaults applied when a caller leaves the field unset.
const (
	DefaultAdults = 2
	DefaultSortBy = "price"
	DefaultOrder  = "asc"
)

// SearchQuery describes one scrape request. It lives for a single request.
type SearchQuery struct {
	City     string  `json:"city,omitempty"`
	URL      string  `json:"url,omitempty"`
	CheckIn  string  `json:"checkIn,omitempty"`
	CheckOut string  `json:"checkOut,omitempty"`
	Adults   int     `json:"adults,omitempty"`
	SortBy   string  `json:"sortBy"`
	Order    string  `json:"order"`
	Filters  Filters `json:"-"`
}

// ApplyDefaults fills unset sort options, and the adult count for city searches.
func (q *SearchQuery) ApplyDefaults() {
	if q.City != "" && q.Adults == 0 {
		q.Adults = DefaultAdults
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.Order == "" {
		q.Order = DefaultOrder
	}
}

// Filters are AND-combined predicates; a nil bound imposes no constraint.
type Filters struct {
	MinPrice         *float64 `json:"minPrice,omitempty"`
	MaxPrice         *float64 `json:"maxPrice,omitempty"`
	MaxDistance      *float64 `json:"maxDistance,omitempty"`
	MinRating        *float64 `json:"minRating,omitempty"`
	OnlyWithDiscount bool     `json:"onlyWithDiscount,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (f Filters) IsEmpty() bool {
	return f.MinPrice == nil && f.MaxPrice == nil && f.MaxDistance == nil &&
		f.MinRating == nil && !f.OnlyWithDiscount
}
