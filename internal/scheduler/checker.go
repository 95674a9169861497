package scheduler

import (
	"context"
	"errors"
	"time"

	"rentradar/internal/api/listings"
	"rentradar/internal/config"
	"rentradar/internal/matcher"
	"rentradar/internal/models"
	"rentradar/internal/storage/postgres"
	"rentradar/internal/storage/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// feed requests allowed per rate-limit window
const maxFeedRequestsPerWindow = 50

var errRateLimited = errors.New("feed rate limit exceeded")

// ListingChecker periodically pulls the listings feed, ingests new
// properties and triggers a matching run for each one.
type ListingChecker struct {
	store  *postgres.Store
	cache  *redis.Cache
	client *listings.Client
	engine *matcher.Engine
	config *config.Config
	logger *zap.Logger
}

func New(
	store *postgres.Store,
	cache *redis.Cache,
	client *listings.Client,
	engine *matcher.Engine,
	cfg *config.Config,
	logger *zap.Logger,
) *ListingChecker {
	return &ListingChecker{
		store:  store,
		cache:  cache,
		client: client,
		engine: engine,
		config: cfg,
		logger: logger,
	}
}

func (lc *ListingChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(lc.config.ScrapeInterval)
	defer ticker.Stop()

	lc.logger.Info("listing checker started",
		zap.Duration("interval", lc.config.ScrapeInterval),
		zap.Strings("cities", lc.config.ScrapeCities),
	)

	lc.checkListings(ctx)

	for {
		select {
		case <-ctx.Done():
			lc.logger.Info("listing checker stopped")
			return
		case <-ticker.C:
			lc.checkListings(ctx)
		}
	}
}

func (lc *ListingChecker) checkListings(ctx context.Context) {
	lc.logger.Info("starting listing check")

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	cities := lc.config.ScrapeCities
	if len(cities) == 0 {
		// empty city means the feed default selection
		cities = []string{""}
	}

	var totalNew int

	for _, city := range cities {
		if err := lc.checkFeedRateLimit(runCtx); err != nil {
			lc.logger.Warn("feed rate limit reached, stopping cycle",
				zap.String("city", city),
			)
			break
		}

		newCount, err := lc.checkCity(runCtx, city)
		if err != nil {
			lc.logger.Error("failed to check city",
				zap.String("city", city),
				zap.Error(err),
			)
			continue
		}

		totalNew += newCount

		time.Sleep(2 * time.Second)
	}

	lc.logger.Info("finished listing check", zap.Int("new_properties", totalNew))
}

func (lc *ListingChecker) checkCity(ctx context.Context, city string) (int, error) {
	response, err := lc.client.SearchListings(ctx, listings.ListingSearchParams{
		City:    city,
		PerPage: lc.config.MaxListingsPerScrape,
	})
	if err != nil {
		return 0, err
	}

	if len(response.Items) == 0 {
		lc.logger.Debug("no listings returned", zap.String("city", city))
		return 0, nil
	}

	ids := listings.ExtractListingIDs(response)
	unseen := lc.filterUnseen(ctx, ids)

	if len(unseen) == 0 {
		lc.logger.Debug("no new listings",
			zap.String("city", city),
			zap.Int("returned", len(ids)),
		)
		return 0, nil
	}

	newCount := 0

	for i := range response.Items {
		item := &response.Items[i]
		if !unseen[item.ID] {
			continue
		}

		created, err := lc.ingestListing(ctx, item)
		if err != nil {
			lc.logger.Error("failed to ingest listing",
				zap.String("external_id", item.ID),
				zap.Error(err),
			)
			continue
		}

		if created {
			newCount++
		}
	}

	return newCount, nil
}

// filterUnseen drops listings already processed within the dedupe TTL.
// A cache error treats the listing as unseen; the unique constraint on
// (source, external_id) still guards against double inserts.
func (lc *ListingChecker) filterUnseen(ctx context.Context, ids []string) map[string]bool {
	unseen := make(map[string]bool, len(ids))

	for _, id := range ids {
		seen, err := lc.cache.IsListingSeen(ctx, lc.config.ListingsSource, id)
		if err != nil {
			lc.logger.Warn("listing dedupe cache unavailable",
				zap.String("external_id", id),
				zap.Error(err),
			)
			unseen[id] = true
			continue
		}

		if !seen {
			unseen[id] = true
		}
	}

	return unseen
}

// ingestListing dedupes and persists one listing, then runs matching if
// it was genuinely new. The redis claim is a cheap first gate; the
// unique constraint on (source, external_id) is the real guard.
func (lc *ListingChecker) ingestListing(ctx context.Context, item *listings.ListingItem) (bool, error) {
	source := lc.config.ListingsSource

	fresh, err := lc.cache.MarkListingSeen(ctx, source, item.ID)
	if err != nil {
		// redis trouble falls through to the database dedupe
		lc.logger.Warn("listing dedupe cache unavailable",
			zap.String("external_id", item.ID),
			zap.Error(err),
		)
	} else if !fresh {
		return false, nil
	}

	// search rows carry no description; fetch the full listing so
	// keyword scoring has text to work with
	if item.Description == "" {
		full, err := lc.client.GetListing(ctx, item.ID)
		switch {
		case errors.Is(err, listings.ErrNotFound):
			// gone between search and detail fetch
			lc.logger.Debug("listing disappeared before detail fetch",
				zap.String("external_id", item.ID),
			)
			return false, nil
		case err != nil:
			lc.logger.Warn("failed to fetch listing detail, using search row",
				zap.String("external_id", item.ID),
				zap.Error(err),
			)
		default:
			item = full
		}
	}

	property := convertToProperty(item, source)

	created, err := lc.store.CreateProperty(ctx, property)
	if err != nil {
		// release the dedupe claim so the next cycle retries this listing
		if ferr := lc.cache.ForgetListing(ctx, source, item.ID); ferr != nil {
			lc.logger.Warn("failed to release dedupe claim",
				zap.String("external_id", item.ID),
				zap.Error(ferr),
			)
		}
		return false, err
	}

	if !created {
		return false, nil
	}

	lc.engine.FindMatches(ctx, property.ID)

	return true, nil
}

func (lc *ListingChecker) checkFeedRateLimit(ctx context.Context) error {
	count, err := lc.cache.GetFeedRateLimit(ctx)
	if err != nil {
		// fail open: a cache hiccup should not stop scraping
		lc.logger.Error("failed to check feed rate limit", zap.Error(err))
		return nil
	}

	if count > maxFeedRequestsPerWindow {
		return errRateLimited
	}

	if _, err := lc.cache.IncrementFeedRateLimit(ctx); err != nil {
		lc.logger.Error("failed to increment feed rate limit", zap.Error(err))
	}

	return nil
}

func convertToProperty(item *listings.ListingItem, source string) *models.Property {
	scrapedAt := time.Now()

	return &models.Property{
		ID:          uuid.NewString(),
		Source:      source,
		ExternalID:  item.ID,
		City:        item.City,
		Price:       item.Price,
		Bedrooms:    item.Bedrooms,
		Furnished:   item.Furnished,
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		IsActive:    true,
		ScrapedAt:   scrapedAt,
	}
}
