package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"booking-scraper/internal/config"
	"booking-scraper/internal/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodLauncher starts a fresh Chrome process for every session.
type RodLauncher struct {
	cfg config.BrowserConfig
	log logger.Logger
}

// NewLauncher creates a launcher for the given browser settings.
func NewLauncher(cfg config.BrowserConfig, log logger.Logger) *RodLauncher {
	return &RodLauncher{cfg: cfg, log: log}
}

// Open launches the browser, connects to it and prepares a single page.
func (l *RodLauncher) Open(ctx context.Context) (Session, error) {
	var ln *launcher.Launcher

	if l.cfg.Bin != "" {
		ln = launcher.New().Bin(l.cfg.Bin)
	} else {
		ln = launcher.New()
	}

	if l.cfg.Headless {
		ln = ln.Headless(true).NoSandbox(true)
	} else {
		ln = ln.Headless(false)
	}

	// Container friendly flags, plus hiding the automation marker.
	ln = ln.Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-extensions").
		Set("no-first-run").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-blink-features", "AutomationControlled")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	// From here on the process exists and Close must reap it.
	s := &rodSession{
		log: l.log,
		release: func() {
			ln.Kill()
			ln.Cleanup()
		},
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: connect: %w", ErrLaunch, err)
	}
	s.browser = b

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: create page: %w", ErrLaunch, err)
	}

	userAgent := RandomUserAgent()
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: set user agent: %w", ErrLaunch, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             ViewportWidth,
		Height:            ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: set viewport: %w", ErrLaunch, err)
	}

	s.page = &rodPage{page: page, timeout: l.cfg.Timeout}

	l.log.Debug("Browser session opened",
		logger.String("user_agent", userAgent),
		logger.Bool("headless", l.cfg.Headless),
	)
	return s, nil
}

type rodSession struct {
	// browser is nil until Connect succeeds.
	browser *rod.Browser
	page    *rodPage
	// release kills the Chrome process and removes its profile.
	release func()
	log     logger.Logger

	once     sync.Once
	closeErr error
}

func (s *rodSession) Page() Page {
	return s.page
}

// Close shuts the browser down and kills the process even when the
// graceful close fails or panics.
func (s *rodSession) Close() error {
	s.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				s.closeErr = fmt.Errorf("close browser: %v", r)
			}
			if s.release != nil {
				s.release()
			}
			if s.log != nil {
				s.log.Debug("Browser session closed")
			}
		}()

		if s.page != nil {
			_ = s.page.page.Close()
		}
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
	})
	return s.closeErr
}

type rodPage struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *rodPage) bounded(ctx context.Context, timeout time.Duration) *rod.Page {
	return p.page.Context(ctx).Timeout(timeout)
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.bounded(ctx, p.timeout)
	defer pg.CancelTimeout()

	// Listing cards are awaited separately, DOMContentLoaded is enough here.
	wait := pg.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	wait()

	return ctx.Err()
}

func (p *rodPage) BodyText(ctx context.Context) (string, error) {
	pg := p.bounded(ctx, p.timeout)
	defer pg.CancelTimeout()

	body, err := pg.Element("body")
	if err != nil {
		return "", fmt.Errorf("find body: %w", err)
	}
	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("read body text: %w", err)
	}
	return text, nil
}

func (p *rodPage) ClickIfPresent(ctx context.Context, selector string) (bool, error) {
	pg := p.bounded(ctx, p.timeout)
	defer pg.CancelTimeout()

	has, el, err := pg.Has(selector)
	if err != nil {
		return false, fmt.Errorf("look up %s: %w", selector, err)
	}
	if !has {
		return false, nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click %s: %w", selector, err)
	}
	return true, nil
}

func (p *rodPage) WaitForAny(ctx context.Context, selectors []string, timeout time.Duration) (bool, error) {
	pg := p.bounded(ctx, timeout)
	defer pg.CancelTimeout()

	err := pg.WaitElementsMoreThan(strings.Join(selectors, ", "), 0)
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, fmt.Errorf("wait for listings: %w", err)
	}
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	pg := p.bounded(ctx, p.timeout)
	defer pg.CancelTimeout()

	html, err := pg.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}
