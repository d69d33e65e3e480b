// Package output renders scrape results for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"booking-scraper/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Column widths for the results table.
const (
	nameColumnWidth    = 40
	priceColumnWidth   = 28
	addressColumnWidth = 36
)

// WriteJSON writes listings as an indented JSON array to path. An empty
// result is written as [].
func WriteJSON(path string, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// PrintListings renders listings as a table on w.
func PrintListings(w io.Writer, city string, listings []models.Listing) {
	if len(listings) == 0 {
		fmt.Fprintf(w, "No hotels found for %s\n", city)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: nameColumnWidth},
		{Number: 3, WidthMax: priceColumnWidth},
		{Number: 6, WidthMax: addressColumnWidth},
	})

	t.AppendHeader(table.Row{"#", "Hotel", "Price", "Rating", "Distance", "Address"})
	for i := range listings {
		l := &listings[i]
		t.AppendRow(table.Row{i + 1, l.Name, priceCell(l), ratingCell(l), l.DistanceFromCenter, l.Address})
	}

	fmt.Fprintln(w)
	t.Render()
	fmt.Fprintf(w, "%d hotels in %s\n", len(listings), city)
}

func priceCell(l *models.Listing) string {
	if l.HasDiscount && l.OriginalPrice != nil {
		return fmt.Sprintf("%s (was %s)", l.Price, *l.OriginalPrice)
	}
	return l.Price
}

func ratingCell(l *models.Listing) string {
	if l.ReviewCount == "" || l.ReviewCount == models.NotAvailable {
		return l.Rating
	}
	return fmt.Sprintf("%s (%s)", l.Rating, l.ReviewCount)
}
