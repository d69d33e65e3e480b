package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"booking-scraper/internal/api"
	"booking-scraper/internal/browser"
	"booking-scraper/internal/config"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/metrics"
	"booking-scraper/internal/parser"
	"booking-scraper/internal/scraper"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Must(logger.Config{}).Fatal("Failed to load configuration", logger.Error(err))
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	defer func() { _ = log.Sync() }()

	if cfg.Log.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	extractor, err := parser.NewExtractor(cfg.Scraper.BaseURL, log)
	if err != nil {
		log.Fatal("Invalid base URL", logger.String("base_url", cfg.Scraper.BaseURL), logger.Error(err))
	}

	svc := scraper.NewService(
		browser.NewLauncher(cfg.Browser, log),
		parser.NewNavigator(cfg.Scraper, log),
		extractor,
		metrics.New(reg),
		log,
	)

	server := api.NewServer(cfg.Server, svc, reg, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("HTTP server failed", logger.Error(err))
		}
		return
	case sig := <-sigChan:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))
	}

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error("Graceful shutdown failed", logger.Error(err))
	}
}
