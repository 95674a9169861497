package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	PostgresDSN    string
	MigrationsPath string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Listings feed
	ListingsBaseURL string
	ListingsSource  string
	ListingsTimeout time.Duration
	ScrapeCities    []string

	// Pipeline settings
	ScrapeInterval       time.Duration
	MaxListingsPerScrape int
	DispatchInterval     time.Duration
	DispatchBatchSize    int

	// Retention (cron cleanup)
	PropertyRetentionDays     int
	NotificationRetentionDays int

	// Notifications
	TelegramToken string

	// Optional blurb generation
	OpenAIAPIKey string
	OpenAIModel  string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		MigrationsPath:            "migrations",
		ListingsSource:            "feed",
		ListingsTimeout:           30 * time.Second,
		ScrapeInterval:            5 * time.Minute,
		MaxListingsPerScrape:      50,
		DispatchInterval:          30 * time.Second,
		DispatchBatchSize:         20,
		PropertyRetentionDays:     90,
		NotificationRetentionDays: 30,
		OpenAIModel:               "gpt-4o-mini",
		LogLevel:                  "info",
		RedisDB:                   0,
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	cfg.ListingsBaseURL = os.Getenv("LISTINGS_BASE_URL")
	if cfg.ListingsBaseURL == "" {
		return nil, fmt.Errorf("LISTINGS_BASE_URL is required")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		cfg.MigrationsPath = path
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else {
		cfg.RedisAddr = "localhost:6379"
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if source := os.Getenv("LISTINGS_SOURCE"); source != "" {
		cfg.ListingsSource = source
	}

	if timeout := os.Getenv("LISTINGS_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid LISTINGS_TIMEOUT: %w", err)
		}
		cfg.ListingsTimeout = d
	}

	if cities := os.Getenv("SCRAPE_CITIES"); cities != "" {
		for _, city := range strings.Split(cities, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.ScrapeCities = append(cfg.ScrapeCities, city)
			}
		}
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_INTERVAL: %w", err)
		}
		cfg.ScrapeInterval = d
	}

	if maxListings := os.Getenv("MAX_LISTINGS_PER_SCRAPE"); maxListings != "" {
		n, err := strconv.Atoi(maxListings)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_LISTINGS_PER_SCRAPE: %w", err)
		}
		cfg.MaxListingsPerScrape = n
	}

	if interval := os.Getenv("DISPATCH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPATCH_INTERVAL: %w", err)
		}
		cfg.DispatchInterval = d
	}

	if batch := os.Getenv("DISPATCH_BATCH_SIZE"); batch != "" {
		n, err := strconv.Atoi(batch)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPATCH_BATCH_SIZE: %w", err)
		}
		cfg.DispatchBatchSize = n
	}

	if days := os.Getenv("PROPERTY_RETENTION_DAYS"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return nil, fmt.Errorf("invalid PROPERTY_RETENTION_DAYS: %w", err)
		}
		cfg.PropertyRetentionDays = n
	}

	if days := os.Getenv("NOTIFICATION_RETENTION_DAYS"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION_DAYS: %w", err)
		}
		cfg.NotificationRetentionDays = n
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.OpenAIModel = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.ListingsBaseURL == "" {
		return fmt.Errorf("listings base URL is empty")
	}

	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token is empty")
	}

	if c.ScrapeInterval < time.Minute {
		return fmt.Errorf("scrape interval too small: %v", c.ScrapeInterval)
	}

	if c.DispatchInterval < time.Second {
		return fmt.Errorf("dispatch interval too small: %v", c.DispatchInterval)
	}

	if c.MaxListingsPerScrape < 1 || c.MaxListingsPerScrape > 200 {
		return fmt.Errorf("max listings per scrape must be between 1 and 200")
	}

	if c.DispatchBatchSize < 1 || c.DispatchBatchSize > 500 {
		return fmt.Errorf("dispatch batch size must be between 1 and 500")
	}

	if c.PropertyRetentionDays < 1 {
		return fmt.Errorf("property retention days must be positive")
	}

	if c.NotificationRetentionDays < 1 {
		return fmt.Errorf("notification retention days must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
