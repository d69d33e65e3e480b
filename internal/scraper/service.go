// Package scraper runs the full pipeline for one request: open a browser
// session, navigate, extract, filter, sort, and tear the session down.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"booking-scraper/internal/browser"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/metrics"
	"booking-scraper/internal/models"
	"booking-scraper/internal/parser"
	"booking-scraper/internal/processor"
)

// ErrInvalidQuery wraps every validation failure of a SearchQuery.
var ErrInvalidQuery = errors.New("invalid query")

// Target kinds, used in logs and metric labels.
const (
	KindCity     = "city"
	KindProperty = "property"
)

// Result is the outcome of one scrape.
type Result struct {
	Query  models.SearchQuery `json:"query"`
	Hotels []models.Listing   `json:"hotels"`
}

// Service owns no state between calls; every scrape gets its own session.
type Service struct {
	launcher  browser.Launcher
	navigator *parser.Navigator
	extractor *parser.Extractor
	metrics   *metrics.Metrics
	log       logger.Logger
	now       func() time.Time
}

// NewService wires the pipeline. m may be nil.
func NewService(
	launcher browser.Launcher,
	navigator *parser.Navigator,
	extractor *parser.Extractor,
	m *metrics.Metrics,
	log logger.Logger,
) *Service {
	return &Service{
		launcher:  launcher,
		navigator: navigator,
		extractor: extractor,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// ScrapeCity searches the site for hotels in q.City.
func (s *Service) ScrapeCity(ctx context.Context, q models.SearchQuery) (*Result, error) {
	q.URL = ""
	q.ApplyDefaults()

	start := time.Now()
	target, err := s.cityTarget(&q)
	if err != nil {
		s.finish(KindCity, start, 0, err)
		return nil, err
	}
	return s.run(ctx, KindCity, target, q, start)
}

// ScrapeURL extracts hotels from the results page at q.URL.
func (s *Service) ScrapeURL(ctx context.Context, q models.SearchQuery) (*Result, error) {
	q = models.SearchQuery{URL: strings.TrimSpace(q.URL), SortBy: q.SortBy, Order: q.Order, Filters: q.Filters}
	q.ApplyDefaults()

	start := time.Now()
	if err := validateURL(q.URL); err != nil {
		s.finish(KindProperty, start, 0, err)
		return nil, err
	}
	return s.run(ctx, KindProperty, q.URL, q, start)
}

func (s *Service) cityTarget(q *models.SearchQuery) (string, error) {
	q.City = strings.TrimSpace(q.City)
	if q.City == "" {
		return "", fmt.Errorf("%w: city is required", ErrInvalidQuery)
	}
	if q.Adults < 1 {
		return "", fmt.Errorf("%w: adults must be at least 1", ErrInvalidQuery)
	}

	checkIn, err := parseDate("checkIn", q.CheckIn)
	if err != nil {
		return "", err
	}
	checkOut, err := parseDate("checkOut", q.CheckOut)
	if err != nil {
		return "", err
	}

	checkIn, checkOut = parser.ResolveStay(s.now(), checkIn, checkOut)
	if !checkOut.After(checkIn) {
		return "", fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidQuery)
	}

	q.CheckIn = parser.FormatDate(checkIn)
	q.CheckOut = parser.FormatDate(checkOut)
	return s.navigator.SearchURL(q.City, checkIn, checkOut, q.Adults), nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(parser.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrInvalidQuery, field, value)
	}
	return t, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidQuery)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http(s) URL, got %q", ErrInvalidQuery, raw)
	}
	return nil
}

func (s *Service) run(ctx context.Context, kind, target string, q models.SearchQuery, start time.Time) (*Result, error) {
	log := s.log.With(logger.String("kind", kind), logger.String("target", target))

	hotels, err := s.scrape(ctx, kind, target, q, log)
	s.finish(kind, start, len(hotels), err)
	if err != nil {
		log.Error("Scrape failed", logger.Error(err), logger.Duration("duration", time.Since(start)))
		return nil, err
	}

	log.Info("Scrape finished",
		logger.Int("hotels", len(hotels)),
		logger.Duration("duration", time.Since(start)),
	)
	return &Result{Query: q, Hotels: hotels}, nil
}

// scrape holds the browser session for exactly its own duration.
func (s *Service) scrape(ctx context.Context, kind, target string, q models.SearchQuery, log logger.Logger) ([]models.Listing, error) {
	session, err := s.launcher.Open(ctx)
	if err != nil {
		if !errors.Is(err, browser.ErrLaunch) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", browser.ErrLaunch, err)
		}
		return nil, err
	}
	s.metrics.SessionOpened()
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("Failed to close browser session", logger.Error(cerr))
		}
		s.metrics.SessionClosed()
	}()

	page := session.Page()

	ready, err := s.navigator.Navigate(ctx, page, target)
	if err != nil {
		return nil, err
	}
	if !ready {
		s.diagnose(ctx, page, log)
		return []models.Listing{}, nil
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	listings, skipped, err := s.extractor.Extract(html)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveExtraction(kind, len(listings), skipped)
	if skipped > 0 {
		log.Warn("Skipped unrecognised listing cards", logger.Int("skipped", skipped))
	}

	if !q.Filters.IsEmpty() {
		listings = processor.Filter(listings, q.Filters)
	}
	return processor.Sort(listings, q.SortBy, q.Order), nil
}

// diagnose logs what the page did contain when no cards showed up.
func (s *Service) diagnose(ctx context.Context, page browser.Page, log logger.Logger) {
	html, err := page.HTML(ctx)
	if err != nil {
		log.Debug("Could not read page for diagnosis", logger.Error(err))
		return
	}
	d, err := parser.Diagnose(html)
	if err != nil {
		log.Debug("Could not diagnose page", logger.Error(err))
		return
	}
	d.Log(log)
}

func (s *Service) finish(kind string, start time.Time, count int, err error) {
	s.metrics.ObserveScrape(kind, Outcome(count, err), time.Since(start).Seconds())
}

// Outcome classifies a scrape for metrics and logs.
func Outcome(count int, err error) string {
	switch {
	case err == nil && count == 0:
		return metrics.OutcomeEmpty
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidQuery):
		return metrics.OutcomeInvalid
	case errors.Is(err, parser.ErrBlocked):
		return metrics.OutcomeBlocked
	case errors.Is(err, browser.ErrLaunch):
		return metrics.OutcomeLaunchFailure
	default:
		return metrics.OutcomeError
	}
}
