package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/rentradar")
	t.Setenv("LISTINGS_BASE_URL", "https://feed.example.com")
	t.Setenv("TELEGRAM_TOKEN", "test-token")

	// isolate from the ambient environment
	for _, key := range []string{
		"REDIS_ADDR", "SCRAPE_INTERVAL", "SCRAPE_CITIES",
		"MAX_LISTINGS_PER_SCRAPE", "DISPATCH_INTERVAL", "LOG_LEVEL",
		"OPENAI_API_KEY", "LISTINGS_SOURCE", "PROPERTY_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "feed", cfg.ListingsSource)
	assert.Equal(t, 5*time.Minute, cfg.ScrapeInterval)
	assert.Equal(t, 30*time.Second, cfg.DispatchInterval)
	assert.Equal(t, 50, cfg.MaxListingsPerScrape)
	assert.Equal(t, 90, cfg.PropertyRetentionDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.OpenAIAPIKey)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("LISTINGS_BASE_URL", "https://feed.example.com")
	t.Setenv("TELEGRAM_TOKEN", "test-token")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_INTERVAL", "10m")
	t.Setenv("SCRAPE_CITIES", "Amsterdam, Utrecht ,Rotterdam")
	t.Setenv("MAX_LISTINGS_PER_SCRAPE", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.ScrapeInterval)
	assert.Equal(t, []string{"Amsterdam", "Utrecht", "Rotterdam"}, cfg.ScrapeCities)
	assert.Equal(t, 25, cfg.MaxListingsPerScrape)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	t.Run("interval too small", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		cfg.ScrapeInterval = 10 * time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		cfg.LogLevel = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("batch size out of range", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		cfg.DispatchBatchSize = 0
		assert.Error(t, cfg.Validate())
	})
}
