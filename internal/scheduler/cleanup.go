package scheduler

import (
	"context"
	"time"

	"rentradar/internal/config"
	"rentradar/internal/storage/postgres"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cleanup runs the nightly retention jobs: stale inactive properties
// and old delivery records are removed per configured retention. Each
// run ends with a pipeline stats line.
type Cleanup struct {
	cron   *cron.Cron
	store  *postgres.Store
	config *config.Config
	logger *zap.Logger
}

func NewCleanup(store *postgres.Store, cfg *config.Config, logger *zap.Logger) *Cleanup {
	return &Cleanup{
		cron:   cron.New(),
		store:  store,
		config: cfg,
		logger: logger,
	}
}

func (c *Cleanup) Start() error {
	if _, err := c.cron.AddFunc("@daily", c.run); err != nil {
		return err
	}

	c.cron.Start()
	c.logger.Info("retention cleanup scheduled",
		zap.Int("property_retention_days", c.config.PropertyRetentionDays),
		zap.Int("notification_retention_days", c.config.NotificationRetentionDays),
	)

	return nil
}

func (c *Cleanup) Stop() {
	c.cron.Stop()
	c.logger.Info("retention cleanup stopped")
}

func (c *Cleanup) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := c.store.CleanOldProperties(ctx, c.config.PropertyRetentionDays); err != nil {
		c.logger.Error("property cleanup failed", zap.Error(err))
	}

	if _, err := c.store.CleanOldNotifications(ctx, c.config.NotificationRetentionDays); err != nil {
		c.logger.Error("notification cleanup failed", zap.Error(err))
	}

	c.logStats(ctx)
}

func (c *Cleanup) logStats(ctx context.Context) {
	profiles, err := c.store.CountActiveSearchProfiles(ctx)
	if err != nil {
		return
	}

	ingested, err := c.store.CountPropertiesBySource(ctx, c.config.ListingsSource, time.Now().AddDate(0, 0, -1))
	if err != nil {
		return
	}

	c.logger.Info("pipeline stats",
		zap.String("source", c.config.ListingsSource),
		zap.Int("active_profiles", profiles),
		zap.Int("properties_last_day", ingested),
	)
}
