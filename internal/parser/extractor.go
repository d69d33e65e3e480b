package parser

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"booking-scraper/internal/logger"
	"booking-scraper/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoName marks a card that matched none of the name strategies.
var ErrNoName = errors.New("listing name not found")

var (
	priceDigits    = regexp.MustCompile(`\d[\d,]*`)
	distanceDigits = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reviewDigits   = regexp.MustCompile(`\d[\d,]*`)
)

// strategy reads one value from a card: an attribute when attr is set,
// otherwise the element text.
type strategy struct {
	selector string
	attr     string
}

func (s strategy) resolve(card *goquery.Selection) string {
	el := card.Find(s.selector).First()
	if el.Length() == 0 {
		return ""
	}
	if s.attr != "" {
		v, _ := el.Attr(s.attr)
		return strings.TrimSpace(v)
	}
	return normalizeSpace(el.Text())
}

type strategies []strategy

// first returns the first non-empty value in strategy order.
func (ss strategies) first(card *goquery.Selection) (string, bool) {
	for _, s := range ss {
		if v := s.resolve(card); v != "" {
			return v, true
		}
	}
	return "", false
}

// firstMatch returns the first match of re among the strategy values.
func (ss strategies) firstMatch(card *goquery.Selection, re *regexp.Regexp) (string, bool) {
	for _, s := range ss {
		if m := re.FindString(s.resolve(card)); m != "" {
			return m, true
		}
	}
	return "", false
}

func (ss strategies) orNA(card *goquery.Selection) string {
	if v, ok := ss.first(card); ok {
		return v
	}
	return models.NotAvailable
}

// Extractor turns a rendered results page into listings. It does no I/O.
type Extractor struct {
	base *url.URL
	log  logger.Logger
}

// NewExtractor creates an extractor resolving relative links against baseURL.
func NewExtractor(baseURL string, log logger.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	return &Extractor{base: base, log: log}, nil
}

// Extract parses html and returns one listing per recognisable card along
// with the number of cards that were skipped.
func (e *Extractor) Extract(html string) ([]models.Listing, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse html: %w", err)
	}

	cards := findCards(doc.Selection)
	listings := make([]models.Listing, 0, cards.Length())
	skipped := 0

	cards.Each(func(i int, card *goquery.Selection) {
		listing, err := e.extractCard(card)
		if err != nil {
			skipped++
			e.log.Debug("Skipping listing card", logger.Int("index", i), logger.Error(err))
			return
		}
		listings = append(listings, listing)
	})

	return listings, skipped, nil
}

// findCards returns matches for the first card selector that finds any.
func findCards(root *goquery.Selection) *goquery.Selection {
	for _, selector := range CardSelectors {
		if cards := root.Find(selector); cards.Length() > 0 {
			return cards
		}
	}
	return root.Find(CardSelectors[0])
}

func (e *Extractor) extractCard(card *goquery.Selection) (models.Listing, error) {
	name, ok := nameStrategies.first(card)
	if !ok {
		return models.Listing{}, ErrNoName
	}

	listing := models.Listing{
		Name:               name,
		URL:                models.NotAvailable,
		Price:              models.NotAvailable,
		PriceNumeric:       models.MissingPrice,
		Rating:             ratingStrategies.orNA(card),
		ReviewCount:        models.NotAvailable,
		DistanceFromCenter: models.NotAvailable,
		DistanceNumeric:    models.MissingDistance,
		Address:            addressStrategies.orNA(card),
		Image:              imageStrategies.orNA(card),
	}

	if href, ok := urlStrategies.first(card); ok {
		listing.URL = e.absolute(href)
	}

	if price, ok := priceStrategies.first(card); ok {
		listing.Price = price
		listing.PriceNumeric = parsePrice(price)
	}

	if original, ok := originalPriceStrategies.first(card); ok {
		listing.OriginalPrice = &original
		listing.HasDiscount = true
	}

	if count, ok := reviewCountStrategies.firstMatch(card, reviewDigits); ok {
		listing.ReviewCount = count
	}

	if distance, ok := distanceStrategies.first(card); ok {
		listing.DistanceFromCenter = distance
		listing.DistanceNumeric = parseDistance(distance)
	}

	return listing, nil
}

func (e *Extractor) absolute(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return models.NotAvailable
	}
	return e.base.ResolveReference(ref).String()
}

func parsePrice(text string) float64 {
	m := priceDigits.FindString(text)
	if m == "" {
		return models.MissingPrice
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return models.MissingPrice
	}
	return v
}

func parseDistance(text string) float64 {
	m := distanceDigits.FindString(text)
	if m == "" {
		return models.MissingDistance
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return models.MissingDistance
	}
	return v
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
