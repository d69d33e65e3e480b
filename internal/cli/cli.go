// Package cli implements the booking-scraper command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"booking-scraper/internal/config"
	"booking-scraper/internal/database"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/models"
	"booking-scraper/internal/output"
	"booking-scraper/internal/processor"
	"booking-scraper/internal/scraper"

	"github.com/spf13/cobra"
)

// errUsage marks a run that only printed usage.
var errUsage = errors.New("usage")

// CityScraper runs a city search.
type CityScraper interface {
	ScrapeCity(ctx context.Context, q models.SearchQuery) (*scraper.Result, error)
}

// ResultStore keeps a copy of the latest result per city.
type ResultStore interface {
	LoadResults(ctx context.Context, key string) ([]models.Listing, error)
	SaveResults(ctx context.Context, key string, listings []models.Listing, ttl time.Duration) error
}

// App carries the command's dependencies. Store may be nil.
type App struct {
	Config  *config.Config
	Log     logger.Logger
	Scraper CityScraper
	Store   ResultStore
	Stdout  io.Writer
	Stderr  io.Writer
}

type options struct {
	sort         string
	order        string
	discountOnly bool
	output       string
}

// NewCommand builds the root command.
func NewCommand(app *App) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "booking-scraper <city>",
		Short: "Scrape hotel listings for a city from Booking.com",
		Long: `Search Booking.com for hotels in a city, print them as a table and
save them as JSON.

Examples:
  booking-scraper Paris
  booking-scraper "New York" --sort=price --order=asc --discount-only`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.SetOut(app.Stdout)
				_ = cmd.Usage()
				return errUsage
			}
			return app.run(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.sort, "sort", models.DefaultSortBy, "Sort by price, distance or rating")
	cmd.Flags().StringVar(&opts.order, "order", models.DefaultOrder, "Sort order, asc or desc")
	cmd.Flags().BoolVar(&opts.discountOnly, "discount-only", false, "Only show hotels with a discount")
	cmd.Flags().StringVar(&opts.output, "output", app.Config.Output.File, "File the JSON results are written to")

	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)
	return cmd
}

// Execute runs the command and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd := NewCommand(app)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(app.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *App) run(ctx context.Context, city string, opts options) error {
	if !processor.ValidSortKey(opts.sort) {
		a.Log.Warn("Unknown sort key, results stay in page order", logger.String("sort", opts.sort))
	}

	res, err := a.Scraper.ScrapeCity(ctx, models.SearchQuery{
		City:    city,
		SortBy:  opts.sort,
		Order:   opts.order,
		Filters: models.Filters{OnlyWithDiscount: opts.discountOnly},
	})
	if err != nil {
		return err
	}

	output.PrintListings(a.Stdout, res.Query.City, res.Hotels)

	if err := output.WriteJSON(opts.output, res.Hotels); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Results saved to %s\n", opts.output)

	if a.Store != nil {
		a.publish(ctx, res)
	}
	return nil
}

// publish replaces the stored result for the city. Failures are logged only.
func (a *App) publish(ctx context.Context, res *scraper.Result) {
	key := database.ResultsKey(res.Query.City)
	log := a.Log.With(logger.String("key", key))

	previous, err := a.Store.LoadResults(ctx, key)
	if err != nil {
		log.Warn("Could not read previous results", logger.Error(err))
	} else if len(previous) > 0 {
		log.Info("Replacing previous results", logger.Int("previous", len(previous)), logger.Int("current", len(res.Hotels)))
	}

	if err := a.Store.SaveResults(ctx, key, res.Hotels, a.Config.Redis.ResultsTTL); err != nil {
		log.Error("Failed to publish results to Redis", logger.Error(err))
		return
	}
	log.Info("Results published to Redis", logger.Int("hotels", len(res.Hotels)))
}
