package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"booking-scraper/internal/logger"
	"booking-scraper/internal/models"
	"booking-scraper/internal/scraper"

	"github.com/gin-gonic/gin"
)

// Scraper runs one scrape per call.
type Scraper interface {
	ScrapeCity(ctx context.Context, q models.SearchQuery) (*scraper.Result, error)
	ScrapeURL(ctx context.Context, q models.SearchQuery) (*scraper.Result, error)
}

// Service metadata reported by the index route.
const (
	ServiceName    = "Booking.com Scraper API"
	ServiceVersion = "1.0.0"
)

type cityRequest struct {
	City     string         `json:"city"`
	CheckIn  string         `json:"checkIn"`
	CheckOut string         `json:"checkOut"`
	Adults   int            `json:"adults"`
	SortBy   string         `json:"sortBy"`
	Order    string         `json:"order"`
	Filters  models.Filters `json:"filters"`
}

type propertyRequest struct {
	URL     string         `json:"url"`
	SortBy  string         `json:"sortBy"`
	Order   string         `json:"order"`
	Filters models.Filters `json:"filters"`
}

type scrapeResponse struct {
	Success bool               `json:"success"`
	Query   models.SearchQuery `json:"query"`
	Count   int                `json:"count"`
	Hotels  []models.Listing   `json:"hotels"`
}

var cityExample = gin.H{
	"city":     "New York",
	"checkIn":  "2025-02-15",
	"checkOut": "2025-02-17",
	"adults":   models.DefaultAdults,
	"sortBy":   "price",
	"order":    "asc",
	"filters": gin.H{
		"maxPrice":         200,
		"minRating":        8.0,
		"maxDistance":      5,
		"onlyWithDiscount": true,
	},
}

var propertyExample = gin.H{
	"url":    "https://www.booking.com/searchresults.html?ss=New+York",
	"sortBy": "price",
	"order":  "asc",
}

// Handler serves the scrape endpoints.
type Handler struct {
	scraper Scraper
	log     logger.Logger
}

// NewHandler creates a handler backed by s.
func NewHandler(s Scraper, log logger.Logger) *Handler {
	return &Handler{scraper: s, log: log}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Index handles GET / with a short description of the API.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    ServiceName,
		"version": ServiceVersion,
		"endpoints": gin.H{
			"GET /health":               "Health check",
			"GET /metrics":              "Prometheus metrics",
			"POST /api/scrape/city":     "Search hotels by city name",
			"POST /api/scrape/property": "Scrape hotels from a Booking.com results URL",
		},
		"examples": gin.H{
			"searchCity": gin.H{
				"endpoint": "/api/scrape/city",
				"method":   http.MethodPost,
				"body":     cityExample,
			},
			"searchByUrl": gin.H{
				"endpoint": "/api/scrape/property",
				"method":   http.MethodPost,
				"body": gin.H{
					"url":    "https://www.booking.com/searchresults.html?ss=Paris",
					"sortBy": "distance",
					"order":  "asc",
				},
			},
		},
	})
}

// ScrapeCity handles POST /api/scrape/city.
func (h *Handler) ScrapeCity(c *gin.Context) {
	var req cityRequest
	if !h.bind(c, &req) {
		return
	}
	if req.City == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "City parameter is required",
			"example": cityExample,
		})
		return
	}

	res, err := h.scraper.ScrapeCity(c.Request.Context(), models.SearchQuery{
		City:     req.City,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Adults:   req.Adults,
		SortBy:   req.SortBy,
		Order:    req.Order,
		Filters:  req.Filters,
	})
	h.respond(c, res, err)
}

// ScrapeProperty handles POST /api/scrape/property.
func (h *Handler) ScrapeProperty(c *gin.Context) {
	var req propertyRequest
	if !h.bind(c, &req) {
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "URL parameter is required",
			"example": propertyExample,
		})
		return
	}

	res, err := h.scraper.ScrapeURL(c.Request.Context(), models.SearchQuery{
		URL:     req.URL,
		SortBy:  req.SortBy,
		Order:   req.Order,
		Filters: req.Filters,
	})
	h.respond(c, res, err)
}

// bind decodes the JSON body into req. An empty body decodes to the zero
// request so the missing-field check can answer it.
func (h *Handler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid JSON body: " + err.Error(),
	})
	return false
}

func (h *Handler) respond(c *gin.Context, res *scraper.Result, err error) {
	if err != nil {
		_ = c.Error(err)
		status := http.StatusInternalServerError
		if errors.Is(err, scraper.ErrInvalidQuery) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	hotels := res.Hotels
	if hotels == nil {
		hotels = []models.Listing{}
	}
	c.JSON(http.StatusOK, scrapeResponse{
		Success: true,
		Query:   res.Query,
		Count:   len(hotels),
		Hotels:  hotels,
	})
}
