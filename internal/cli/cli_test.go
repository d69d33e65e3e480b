package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"booking-scraper/internal/cli"
	"booking-scraper/internal/config"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/models"
	"booking-scraper/internal/parser"
	"booking-scraper/internal/scraper"
	"booking-scraper/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	key      string
	listings []models.Listing
	ttl      time.Duration
	err      error

	previous []models.Listing
	loadErr  error
	loads    []string
}

func (s *recordingStore) LoadResults(_ context.Context, key string) ([]models.Listing, error) {
	s.loads = append(s.loads, key)
	return s.previous, s.loadErr
}

func (s *recordingStore) SaveResults(_ context.Context, key string, listings []models.Listing, ttl time.Duration) error {
	s.key, s.listings, s.ttl = key, listings, ttl
	return s.err
}

func newApp(t *testing.T, launcher *testutils.FakeLauncher) (*cli.App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		Scraper: config.ScraperConfig{BaseURL: "https://www.booking.com", ListingWait: time.Second},
		Redis:   config.RedisConfig{ResultsTTL: time.Hour},
		Output:  config.OutputConfig{File: filepath.Join(t.TempDir(), "booking-results.json")},
	}

	log := logger.NewNop()
	nav := parser.NewNavigator(cfg.Scraper, log)
	ext, err := parser.NewExtractor(cfg.Scraper.BaseURL, log)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	return &cli.App{
		Config:  cfg,
		Log:     log,
		Scraper: scraper.NewService(launcher, nav, ext, nil, log),
		Stdout:  &stdout,
		Stderr:  &stderr,
	}, &stdout, &stderr
}

func TestExecute_NoArgsPrintsUsage(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.EmptyPage())
	app, stdout, stderr := newApp(t, launcher)

	code := cli.Execute(context.Background(), app, nil)

	assert.NotEqual(t, 0, code)
	assert.Contains(t, stdout.String(), "booking-scraper <city>")
	assert.Contains(t, stdout.String(), "--discount-only")
	assert.Empty(t, stderr.String())
	assert.Empty(t, launcher.Sessions())
}

func TestExecute_WritesTableAndFile(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	app, stdout, _ := newApp(t, launcher)
	store := &recordingStore{}
	app.Store = store

	code := cli.Execute(context.Background(), app, []string{"Paris", "--sort=distance"})
	require.Equal(t, 0, code)

	assert.Contains(t, stdout.String(), "Hotel Lutetia")
	assert.Contains(t, stdout.String(), "3 hotels in Paris")
	assert.Contains(t, stdout.String(), "Results saved to "+app.Config.Output.File)

	data, err := os.ReadFile(app.Config.Output.File)
	require.NoError(t, err)
	var saved []models.Listing
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 3)
	assert.Equal(t, "Hôtel des Grands Boulevards", saved[0].Name)

	assert.Equal(t, []string{"booking:results:paris"}, store.loads)
	assert.Equal(t, "booking:results:paris", store.key)
	assert.Equal(t, saved, store.listings)
	assert.Equal(t, time.Hour, store.ttl)
}

func TestExecute_MultiWordCityAndDiscountOnly(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	app, _, _ := newApp(t, launcher)
	out := filepath.Join(t.TempDir(), "custom.json")

	code := cli.Execute(context.Background(), app, []string{"New", "York", "--discount-only", "--output", out})
	require.Equal(t, 0, code)

	visited := launcher.Sessions()[0].FakePage().Visited()
	require.Len(t, visited, 1)
	assert.Contains(t, visited[0], "ss=New+York")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var saved []models.Listing
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)
	assert.True(t, saved[0].HasDiscount)
}

func TestExecute_StoreFailureIsNotFatal(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	app, _, stderr := newApp(t, launcher)
	app.Store = &recordingStore{err: errors.New("connection refused")}

	assert.Equal(t, 0, cli.Execute(context.Background(), app, []string{"Paris"}))
	assert.Empty(t, stderr.String())
}

func TestExecute_ScrapeErrorGoesToStderr(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.BlockedPage())
	app, _, stderr := newApp(t, launcher)

	code := cli.Execute(context.Background(), app, []string{"Paris"})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: ")
	assert.Contains(t, stderr.String(), "blocked")
	_, err := os.Stat(app.Config.Output.File)
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_ReplacesPreviousStoredResults(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	app, _, stderr := newApp(t, launcher)
	store := &recordingStore{previous: []models.Listing{{Name: "Stale Hotel"}}}
	app.Store = store

	require.Equal(t, 0, cli.Execute(context.Background(), app, []string{"Paris"}))
	assert.Len(t, store.listings, 3)
	assert.Empty(t, stderr.String())
}

func TestExecute_UnreadablePreviousResultsStillPublishes(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	app, _, _ := newApp(t, launcher)
	store := &recordingStore{loadErr: errors.New("WRONGTYPE")}
	app.Store = store

	require.Equal(t, 0, cli.Execute(context.Background(), app, []string{"Paris"}))
	assert.Equal(t, "booking:results:paris", store.key)
	assert.Len(t, store.listings, 3)
}
