// Package testutils provides an in-memory browser for exercising the
// scraping pipeline against fixture HTML.
package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"booking-scraper/internal/browser"

	"github.com/PuerkitoBio/goquery"
)

// FakeLauncher hands out sessions whose page always renders HTML.
type FakeLauncher struct {
	HTML        string
	OpenErr     error
	NavigateErr error

	mu       sync.Mutex
	sessions []*FakeSession
}

// NewFakeLauncher creates a launcher serving html.
func NewFakeLauncher(html string) *FakeLauncher {
	return &FakeLauncher{HTML: html}
}

func (l *FakeLauncher) Open(ctx context.Context) (browser.Session, error) {
	if l.OpenErr != nil {
		return nil, l.OpenErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &FakeSession{page: &FakePage{html: l.HTML, navigateErr: l.NavigateErr}}

	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()

	return s, nil
}

// Sessions returns every session opened so far.
func (l *FakeLauncher) Sessions() []*FakeSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*FakeSession(nil), l.sessions...)
}

// FakeSession counts how often it was closed.
type FakeSession struct {
	page *FakePage

	mu     sync.Mutex
	closes int
}

func (s *FakeSession) Page() browser.Page {
	return s.page
}

// FakePage exposes the page for assertions.
func (s *FakeSession) FakePage() *FakePage {
	return s.page
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// Closes reports how many times Close was called.
func (s *FakeSession) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// FakePage answers selector queries from a static document.
type FakePage struct {
	html        string
	navigateErr error

	mu      sync.Mutex
	visited []string
	clicked []string
}

// NewFakePage creates a page serving html.
func NewFakePage(html string) *FakePage {
	return &FakePage{html: html}
}

func (p *FakePage) doc() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(p.html))
}

func (p *FakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	p.visited = append(p.visited, url)
	p.mu.Unlock()

	if p.navigateErr != nil {
		return p.navigateErr
	}
	return ctx.Err()
}

func (p *FakePage) BodyText(ctx context.Context) (string, error) {
	doc, err := p.doc()
	if err != nil {
		return "", err
	}
	return doc.Find("body").Text(), nil
}

func (p *FakePage) ClickIfPresent(ctx context.Context, selector string) (bool, error) {
	doc, err := p.doc()
	if err != nil {
		return false, err
	}
	if doc.Find(selector).Length() == 0 {
		return false, nil
	}

	p.mu.Lock()
	p.clicked = append(p.clicked, selector)
	p.mu.Unlock()
	return true, nil
}

// WaitForAny answers immediately; the document never changes.
func (p *FakePage) WaitForAny(ctx context.Context, selectors []string, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := p.doc()
	if err != nil {
		return false, err
	}
	for _, selector := range selectors {
		if doc.Find(selector).Length() > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (p *FakePage) HTML(ctx context.Context) (string, error) {
	return p.html, nil
}

// Visited returns the URLs passed to Navigate.
func (p *FakePage) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// Clicked returns the selectors that were clicked.
func (p *FakePage) Clicked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.clicked...)
}
