// Package metrics holds the Prometheus instruments for scrape runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the namespace for all scraper metrics.
	Namespace = "booking"
	// Subsystem is the subsystem for scraper metrics.
	Subsystem = "scraper"
)

// Scrape outcomes used as label values.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeBlocked       = "blocked"
	OutcomeLaunchFailure = "launch_failure"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
)

// Metrics holds all Prometheus metrics for scrape runs.
type Metrics struct {
	ScrapesTotal      *prometheus.CounterVec
	ScrapeDuration    *prometheus.HistogramVec
	ListingsExtracted *prometheus.CounterVec
	CardsSkipped      *prometheus.CounterVec
	SessionsOpen      prometheus.Gauge
}

// New creates and registers the scrape metrics. A nil registerer uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "scrapes_total",
				Help:      "Total number of scrape runs by target kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ScrapeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "scrape_duration_seconds",
				Help:      "Wall time of a scrape run including browser startup",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
			},
			[]string{"kind"},
		),
		ListingsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "listings_extracted_total",
				Help:      "Listings extracted before filtering",
			},
			[]string{"kind"},
		),
		CardsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "cards_skipped_total",
				Help:      "Listing cards dropped because no name could be resolved",
			},
			[]string{"kind"},
		),
		SessionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "browser_sessions_open",
				Help:      "Browser sessions currently running",
			},
		),
	}
}

// ObserveScrape records one finished scrape run. Safe on a nil receiver.
func (m *Metrics) ObserveScrape(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(kind, outcome).Inc()
	m.ScrapeDuration.WithLabelValues(kind).Observe(seconds)
}

// ObserveExtraction records extracted and skipped card counts.
func (m *Metrics) ObserveExtraction(kind string, extracted, skipped int) {
	if m == nil {
		return
	}
	m.ListingsExtracted.WithLabelValues(kind).Add(float64(extracted))
	m.CardsSkipped.WithLabelValues(kind).Add(float64(skipped))
}

// SessionOpened and SessionClosed track live browser sessions.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.SessionsOpen.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.SessionsOpen.Dec()
}
