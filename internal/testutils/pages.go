package testutils

import (
	"fmt"
	"html"
	"strings"
)

// Card describes a listing card; empty fields are left out of the markup.
type Card struct {
	Name          string
	Href          string
	Price         string
	OriginalPrice string
	Rating        string
	Reviews       string
	Distance      string
	Address       string
	Image         string
}

// HTML renders the card with the current data-testid markup.
func (c Card) HTML() string {
	var b strings.Builder
	b.WriteString(`<div data-testid="property-card">`)

	if c.Image != "" {
		fmt.Fprintf(&b, `<img data-testid="image" src="%s" alt="">`, html.EscapeString(c.Image))
	}
	if c.Name != "" {
		fmt.Fprintf(&b, `<h3><a data-testid="title-link" href="%s"><div data-testid="title">%s</div></a></h3>`,
			html.EscapeString(c.Href), html.EscapeString(c.Name))
	}
	if c.Address != "" {
		fmt.Fprintf(&b, `<span data-testid="address">%s</span>`, html.EscapeString(c.Address))
	}
	if c.Distance != "" {
		fmt.Fprintf(&b, `<span data-testid="distance">%s</span>`, html.EscapeString(c.Distance))
	}
	if c.Rating != "" || c.Reviews != "" {
		b.WriteString(`<div data-testid="review-score">`)
		fmt.Fprintf(&b, `<div aria-label="Scored %[1]s">%[1]s</div>`, html.EscapeString(c.Rating))
		if c.Reviews != "" {
			fmt.Fprintf(&b, `<div><div>Very good</div><div>%s reviews</div></div>`, html.EscapeString(c.Reviews))
		}
		b.WriteString(`</div>`)
	}
	if c.OriginalPrice != "" {
		fmt.Fprintf(&b, `<span data-testid="strikethrough-price">%s</span>`, html.EscapeString(c.OriginalPrice))
	}
	if c.Price != "" {
		fmt.Fprintf(&b, `<span data-testid="price-and-discounted-price">%s</span>`, html.EscapeString(c.Price))
	}

	b.WriteString(`</div>`)
	return b.String()
}

// WellFormedCards returns three complete cards for Paris.
func WellFormedCards() []Card {
	return []Card{
		{
			Name:     "Hotel Lutetia",
			Href:     "/hotel/fr/lutetia.html?aid=304142",
			Price:    "€ 1,250",
			Rating:   "9.1",
			Reviews:  "2,034",
			Distance: "2.1 km from centre",
			Address:  "6th arr., Paris",
			Image:    "https://cf.bstatic.com/images/lutetia.jpg",
		},
		{
			Name:          "Hôtel des Grands Boulevards",
			Href:          "https://www.booking.com/hotel/fr/grands-boulevards.html",
			Price:         "€ 180",
			OriginalPrice: "€ 240",
			Rating:        "8.6",
			Reviews:       "812",
			Distance:      "0.9 km from centre",
			Address:       "2nd arr., Paris",
			Image:         "https://cf.bstatic.com/images/grands-boulevards.jpg",
		},
		{
			Name:     "Generator Paris",
			Href:     "/hotel/fr/generator-paris.html",
			Price:    "€ 95",
			Rating:   "7.8",
			Reviews:  "15,207",
			Distance: "3.4 km from centre",
			Address:  "10th arr., Paris",
			Image:    "https://cf.bstatic.com/images/generator.jpg",
		},
	}
}

// MalformedCard has a price but no name, so no record can be built from it.
func MalformedCard() Card {
	return Card{Price: "€ 75", Address: "Somewhere"}
}

// ResultsPage renders a search results page containing cards.
func ResultsPage(cards ...Card) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Hotels in Paris</title></head><body>`)
	b.WriteString(`<div data-testid="property-list">`)
	for _, c := range cards {
		b.WriteString(c.HTML())
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// ConsentPage is a results page behind a cookie banner.
func ConsentPage(cards ...Card) string {
	page := ResultsPage(cards...)
	banner := `<div id="onetrust-banner-sdk"><button id="onetrust-accept-btn-handler">Accept</button></div>`
	return strings.Replace(page, "<body>", "<body>"+banner, 1)
}

// EmptyPage renders a results page with no cards.
func EmptyPage() string {
	return ResultsPage()
}

// BlockedPage renders a bot challenge interstitial.
func BlockedPage() string {
	return `<!DOCTYPE html><html><head><title>Booking.com</title></head><body>` +
		`<h1>Are you a robot?</h1><p>Please complete the CAPTCHA to continue.</p>` +
		`</body></html>`
}
