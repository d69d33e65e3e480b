package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"booking-scraper/internal/browser"
	"booking-scraper/internal/cli"
	"booking-scraper/internal/config"
	"booking-scraper/internal/database"
	"booking-scraper/internal/logger"
	"booking-scraper/internal/parser"
	"booking-scraper/internal/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	// Logs go to stderr so stdout only carries results
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Cancel the scrape on SIGINT/SIGTERM so the browser is torn down
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	extractor, err := parser.NewExtractor(cfg.Scraper.BaseURL, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	app := &cli.App{
		Config: cfg,
		Log:    log,
		Scraper: scraper.NewService(
			browser.NewLauncher(cfg.Browser, log),
			parser.NewNavigator(cfg.Scraper, log),
			extractor,
			nil,
			log,
		),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	// Optional Redis copy of the results
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, results will only be written to file", logger.Error(err))
		} else {
			defer redisClient.Close()
			app.Store = redisClient
		}
	}

	return cli.Execute(ctx, app, os.Args[1:])
}
