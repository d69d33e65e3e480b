package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booking-scraper/internal/api"
	"booking-scraper/internal/config"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/metrics"
	"booking-scraper/internal/models"
	"booking-scraper/internal/parser"
	"booking-scraper/internal/scraper"
	"booking-scraper/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.booking.com"

type response struct {
	Success bool               `json:"success"`
	Error   string             `json:"error"`
	Example map[string]any     `json:"example"`
	Query   models.SearchQuery `json:"query"`
	Count   int                `json:"count"`
	Hotels  []models.Listing   `json:"hotels"`
}

func setupServer(t *testing.T, launcher *testutils.FakeLauncher) *api.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	nav := parser.NewNavigator(config.ScraperConfig{BaseURL: baseURL, ListingWait: time.Second}, log)
	ext, err := parser.NewExtractor(baseURL, log)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc := scraper.NewService(launcher, nav, ext, metrics.New(reg), log)
	return api.NewServer(config.ServerConfig{Port: "0", ShutdownTimeout: time.Second}, svc, reg, log)
}

func do(t *testing.T, srv *api.Server, method, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequestWithContext(t.Context(), method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var resp response
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestScrapeCity_Success(t *testing.T) {
	cards := append(testutils.WellFormedCards(), testutils.MalformedCard())
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(cards...))
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Paris"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Hotels, 3)
	assert.Equal(t, "Paris", resp.Query.City)
	assert.Equal(t, models.DefaultAdults, resp.Query.Adults)
	assert.Equal(t, "price", resp.Query.SortBy)
	assert.Equal(t, "asc", resp.Query.Order)
	for i := 1; i < len(resp.Hotels); i++ {
		assert.LessOrEqual(t, resp.Hotels[i-1].PriceNumeric, resp.Hotels[i].PriceNumeric)
	}
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, launcher.Sessions()[0].Closes())
}

func TestScrapeCity_Filters(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{
		"city":    "Paris",
		"sortBy":  "rating",
		"order":   "desc",
		"filters": map[string]any{"maxPrice": 200, "minRating": 8.0},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Hôtel des Grands Boulevards", resp.Hotels[0].Name)
}

func TestScrapeCity_MissingCity(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.EmptyPage())
	srv := setupServer(t, launcher)

	for _, body := range []any{map[string]any{}, nil} {
		w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, resp.Error)
		assert.Equal(t, "New York", resp.Example["city"])
	}
	assert.Empty(t, launcher.Sessions())
}

func TestScrapeCity_InvalidJSON(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(testutils.EmptyPage()))

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", `{"city":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestScrapeCity_InvalidDates(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.EmptyPage())
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{
		"city":     "Paris",
		"checkIn":  "2025-07-05",
		"checkOut": "2025-07-01",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "checkOut")
	assert.Empty(t, launcher.Sessions())
}

func TestScrapeCity_Blocked(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.BlockedPage())
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Paris"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Nil(t, resp.Hotels)
	assert.Equal(t, 1, launcher.Sessions()[0].Closes())
}

func TestScrapeCity_LaunchFailure(t *testing.T) {
	launcher := testutils.NewFakeLauncher("")
	launcher.OpenErr = errors.New("chrome executable not found")
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Paris"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "chrome executable not found")
}

func TestScrapeCity_EmptyResultsIsArray(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(testutils.EmptyPage()))

	w, _ := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Atlantis"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hotels":[]`)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestScrapeProperty(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...))
	srv := setupServer(t, launcher)

	target := baseURL + "/searchresults.html?ss=Paris"
	w, resp := do(t, srv, http.MethodPost, "/api/scrape/property", map[string]any{
		"url":    target,
		"sortBy": "distance",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, target, resp.Query.URL)
	assert.Empty(t, resp.Query.City)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "Hôtel des Grands Boulevards", resp.Hotels[0].Name)
}

func TestScrapeProperty_MissingURL(t *testing.T) {
	launcher := testutils.NewFakeLauncher(testutils.EmptyPage())
	srv := setupServer(t, launcher)

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/property", map[string]any{"sortBy": "price"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, resp.Error)
	assert.NotEmpty(t, resp.Example["url"])
	assert.Empty(t, launcher.Sessions())
}

func TestHealth(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(""))

	w, _ := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	_, err := time.Parse(time.RFC3339Nano, body["timestamp"])
	assert.NoError(t, err)
}

func TestIndex(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(""))

	w, _ := do(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, api.ServiceName, body["name"])
	assert.Contains(t, body["endpoints"], "POST /api/scrape/city")

	examples := body["examples"].(map[string]any)
	searchCity := examples["searchCity"].(map[string]any)
	filters := searchCity["body"].(map[string]any)["filters"].(map[string]any)
	for _, key := range []string{"maxPrice", "minRating", "maxDistance", "onlyWithDiscount"} {
		assert.Contains(t, filters, key)
	}
}

func TestMetrics(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(testutils.ResultsPage(testutils.WellFormedCards()...)))

	do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Paris"})
	w, _ := do(t, srv, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `booking_scraper_scrapes_total{kind="city",outcome="ok"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := setupServer(t, testutils.NewFakeLauncher(""))

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

type panicScraper struct{}

func (panicScraper) ScrapeCity(context.Context, models.SearchQuery) (*scraper.Result, error) {
	panic("boom")
}

func (panicScraper) ScrapeURL(context.Context, models.SearchQuery) (*scraper.Result, error) {
	panic("boom")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := api.NewServer(config.ServerConfig{Port: "0"}, panicScraper{}, nil, logger.NewNop())

	w, resp := do(t, srv, http.MethodPost, "/api/scrape/city", map[string]any{"city": "Paris"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
