package parser

import (
	"fmt"
	"strings"

	"booking-scraper/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

// diagnosticSelectors extends the card selectors with page landmarks that
// help tell a layout change apart from a genuinely empty result.
var diagnosticSelectors = append(append([]string{}, CardSelectors...),
	`[data-testid="property-list"]`,
	`[data-component="arp-properties-list"]`,
	`#search_results_table`,
	`[data-testid="no-results"]`,
	`form#frm`,
)

// SelectorHit is how many elements one selector matched.
type SelectorHit struct {
	Selector string
	Count    int
	Sample   string
}

// Diagnosis summarises a page that produced no listing cards.
type Diagnosis struct {
	Title     string
	Hits      []SelectorHit
	BodyStart string
	Indicator string
}

// Diagnose inspects html without touching the network.
func Diagnose(html string) (*Diagnosis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	d := &Diagnosis{Title: normalizeSpace(doc.Find("title").First().Text())}

	for _, selector := range diagnosticSelectors {
		found := doc.Find(selector)
		hit := SelectorHit{Selector: selector, Count: found.Length()}
		if hit.Count > 0 {
			hit.Sample = truncate(normalizeSpace(found.First().Text()), 100)
		}
		d.Hits = append(d.Hits, hit)
	}

	body := normalizeSpace(doc.Find("body").Text())
	d.BodyStart = truncate(body, 500)
	d.Indicator, _ = DetectBlock(body)

	return d, nil
}

// Log writes the diagnosis at debug level, one entry per matched selector.
func (d *Diagnosis) Log(log logger.Logger) {
	log.Debug("Page diagnosis",
		logger.String("title", d.Title),
		logger.String("body_start", d.BodyStart),
		logger.String("block_indicator", d.Indicator),
	)
	for _, hit := range d.Hits {
		if hit.Count == 0 {
			continue
		}
		log.Debug("Selector matched",
			logger.String("selector", hit.Selector),
			logger.Int("count", hit.Count),
			logger.String("sample", hit.Sample),
		)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
