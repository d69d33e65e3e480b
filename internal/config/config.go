package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Browser BrowserConfig
	Scraper ScraperConfig
	Server  ServerConfig
	Redis   RedisConfig
	Log     LogConfig
	Output  OutputConfig
}

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
	// Bin overrides the Chrome binary rod would otherwise download.
	Bin string
}

type ScraperConfig struct {
	BaseURL      string
	ListingWait  time.Duration
	ConsentPause time.Duration
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Password   string
	DB         int
	ResultsTTL time.Duration
}

type LogConfig struct {
	Level       string
	Development bool
}

type OutputConfig struct {
	File string
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return ":" + s.Port
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Browser: BrowserConfig{
			Headless: getBool("HEADLESS", true),
			Timeout:  getSeconds("TIMEOUT", 30),
			Bin:      getEnv("ROD_LAUNCHER_BIN", ""),
		},
		Scraper: ScraperConfig{
			BaseURL:      getEnv("BASE_URL", "https://www.booking.com"),
			ListingWait:  getSeconds("LISTING_WAIT", 15),
			ConsentPause: time.Duration(getInt("CONSENT_PAUSE_MS", 1000)) * time.Millisecond,
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     getSeconds("READ_TIMEOUT", 15),
			WriteTimeout:    getSeconds("WRITE_TIMEOUT", 120),
			ShutdownTimeout: getSeconds("SHUTDOWN_TIMEOUT", 10),
		},
		Redis: RedisConfig{
			Enabled:    getBool("REDIS_ENABLED", false),
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getInt("REDIS_DB", 0),
			ResultsTTL: time.Duration(getInt("RESULTS_TTL", 24)) * time.Hour,
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getBool("LOG_DEVELOPMENT", false),
		},
		Output: OutputConfig{
			File: getEnv("OUTPUT_FILE", "booking-results.json"),
		},
	}

	return config, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Second
}
