package parser

import (
	"context"
	"fmt"
	"time"

	"booking-scraper/internal/browser"
	"booking-scraper/internal/config"
	"booking-scraper/internal/logger"
)

// Navigator drives a page to a results URL and decides whether it is
// ready for extraction.
type Navigator struct {
	baseURL      string
	listingWait  time.Duration
	consentPause time.Duration
	log          logger.Logger
}

// NewNavigator creates a navigator for the configured site.
func NewNavigator(cfg config.ScraperConfig, log logger.Logger) *Navigator {
	return &Navigator{
		baseURL:      cfg.BaseURL,
		listingWait:  cfg.ListingWait,
		consentPause: cfg.ConsentPause,
		log:          log,
	}
}

// SearchURL builds the results URL for a city search against the configured site.
func (n *Navigator) SearchURL(city string, checkIn, checkOut time.Time, adults int) string {
	return BuildSearchURL(n.baseURL, city, checkIn, checkOut, adults)
}

// Navigate loads url into page. It fails with a *BlockedError when the page
// is a challenge page, and reports ready=false when no listing cards
// appeared within the listing wait.
func (n *Navigator) Navigate(ctx context.Context, page browser.Page, url string) (bool, error) {
	log := n.log.With(logger.String("url", url))
	log.Info("Loading page")

	if err := page.Navigate(ctx, url); err != nil {
		return false, err
	}

	text, err := page.BodyText(ctx)
	if err != nil {
		return false, err
	}
	if indicator, blocked := DetectBlock(text); blocked {
		log.Warn("Page looks like an anti-bot challenge", logger.String("indicator", indicator))
		return false, &BlockedError{URL: url, Indicator: indicator}
	}

	if err := n.dismissConsent(ctx, page); err != nil {
		return false, err
	}

	ready, err := page.WaitForAny(ctx, CardSelectors, n.listingWait)
	if err != nil {
		return false, fmt.Errorf("wait for listing cards: %w", err)
	}
	if !ready {
		log.Warn("No listing cards appeared", logger.Duration("waited", n.listingWait))
	}
	return ready, nil
}

// dismissConsent clicks the first accept control it finds. Only context
// cancellation is treated as an error.
func (n *Navigator) dismissConsent(ctx context.Context, page browser.Page) error {
	for _, selector := range ConsentSelectors {
		clicked, err := page.ClickIfPresent(ctx, selector)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.log.Debug("Cookie consent click failed", logger.String("selector", selector), logger.Error(err))
			continue
		}
		if !clicked {
			continue
		}

		n.log.Debug("Cookie consent dismissed", logger.String("selector", selector))
		select {
		case <-time.After(n.consentPause):
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
	return nil
}
