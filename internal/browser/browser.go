// Package browser owns the lifecycle of the headless Chrome sessions used for scraping.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrLaunch is returned when a browser process could not be started or reached.
var ErrLaunch = errors.New("browser launch failed")

// Fixed viewport applied to every page.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// Page is the part of a browser tab the navigator and extractor need.
type Page interface {
	// Navigate loads url and returns once the initial HTML has been parsed.
	Navigate(ctx context.Context, url string) error
	// BodyText returns the visible text of the document body.
	BodyText(ctx context.Context) (string, error)
	// ClickIfPresent clicks the first element matching selector, if any.
	ClickIfPresent(ctx context.Context, selector string) (bool, error)
	// WaitForAny waits up to timeout for an element matching any selector.
	// It reports false, without error, when the timeout elapses.
	WaitForAny(ctx context.Context, selectors []string, timeout time.Duration) (bool, error)
	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
}

// Session is one browser process with a single page.
type Session interface {
	Page() Page
	// Close releases the browser process. It is safe to call more than once.
	Close() error
}

// Launcher opens sessions.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}
