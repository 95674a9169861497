package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	SeenListingTTL        = 7 * 24 * time.Hour
	RateLimitWindowTTL    = 1 * time.Minute
	NotifyRateLimitWindow = 1 * time.Hour
)

func SeenListingKey(source, externalID string) string {
	return fmt.Sprintf("seen:%s:%s", source, externalID)
}

func FeedRateLimitKey() string {
	return "ratelimit:feed"
}

func NotifyRateLimitKey(userID string) string {
	return fmt.Sprintf("ratelimit:notify:%s", userID)
}

// MarkListingSeen claims the dedupe key for a listing. Returns true the
// first time a (source, external id) pair is observed within the TTL
// window; false means the listing was already processed recently.
func (c *Cache) MarkListingSeen(ctx context.Context, source, externalID string) (bool, error) {
	return c.SetNX(ctx, SeenListingKey(source, externalID), "1", SeenListingTTL)
}

func (c *Cache) IsListingSeen(ctx context.Context, source, externalID string) (bool, error) {
	return c.Exists(ctx, SeenListingKey(source, externalID))
}

func (c *Cache) ForgetListing(ctx context.Context, source, externalID string) error {
	return c.Delete(ctx, SeenListingKey(source, externalID))
}

func (c *Cache) IncrementFeedRateLimit(ctx context.Context) (int64, error) {
	return c.IncrementWithExpiry(ctx, FeedRateLimitKey(), RateLimitWindowTTL)
}

func (c *Cache) GetFeedRateLimit(ctx context.Context) (int64, error) {
	return c.GetInt(ctx, FeedRateLimitKey())
}

func (c *Cache) IncrementNotifyRateLimit(ctx context.Context, userID string) (int64, error) {
	return c.IncrementWithExpiry(ctx, NotifyRateLimitKey(userID), NotifyRateLimitWindow)
}

func (c *Cache) GetNotifyRateLimit(ctx context.Context, userID string) (int64, error) {
	return c.GetInt(ctx, NotifyRateLimitKey(userID))
}
