package notifier

import (
	"context"

	"rentradar/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	GetProperty(ctx context.Context, propertyID string) (*models.Property, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	RecordNotification(ctx context.Context, notification *models.Notification) error
}

// Blurber is satisfied by BlurbGenerator; nil means plain formatting.
type Blurber interface {
	Generate(ctx context.Context, property *models.Property) (string, error)
}

// deliveries allowed per user within the notify rate-limit window
const maxNotificationsPerUserWindow = 30

// RateLimiter caps deliveries per user; the redis Cache satisfies it.
// A nil limiter disables the cap.
type RateLimiter interface {
	GetNotifyRateLimit(ctx context.Context, userID string) (int64, error)
	IncrementNotifyRateLimit(ctx context.Context, userID string) (int64, error)
}

// Dispatcher fans a created match out to every deliverable channel and
// records one attempt outcome per channel. It runs outside the matching
// transaction and tolerates matches that have since been deleted.
type Dispatcher struct {
	store    Store
	channels []Channel
	blurber  Blurber
	limiter  RateLimiter
	logger   *zap.Logger
}

func NewDispatcher(store Store, channels []Channel, blurber Blurber, limiter RateLimiter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		channels: channels,
		blurber:  blurber,
		limiter:  limiter,
		logger:   logger,
	}
}

// Notify delivers one match. A match that no longer exists is a no-op.
// A channel failure is recorded and does not stop the remaining
// channels.
func (d *Dispatcher) Notify(ctx context.Context, matchID string) error {
	match, err := d.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	if match == nil {
		d.logger.Debug("match gone before dispatch, skipping",
			zap.String("match_id", matchID),
		)
		return nil
	}

	property, err := d.store.GetProperty(ctx, match.PropertyID)
	if err != nil {
		return err
	}
	if property == nil {
		d.logger.Warn("property gone before dispatch, skipping",
			zap.String("match_id", matchID),
			zap.String("property_id", match.PropertyID),
		)
		return nil
	}

	user, err := d.store.GetUser(ctx, match.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		d.logger.Warn("user gone before dispatch, skipping",
			zap.String("match_id", matchID),
			zap.String("user_id", match.UserID),
		)
		return nil
	}

	if d.isRateLimited(ctx, user.ID) {
		// nothing is recorded, so the watcher re-picks the match once
		// the window expires
		return nil
	}

	var blurb string
	if d.blurber != nil {
		// best effort: a failed blurb falls back to plain formatting
		if generated, err := d.blurber.Generate(ctx, property); err == nil {
			blurb = generated
		}
	}

	msg := &Message{
		Match:    match,
		Property: property,
		User:     user,
		Text:     FormatMatch(property, match, blurb),
		URL:      property.URL,
	}

	attempted := 0
	delivered := 0
	for _, channel := range d.channels {
		if !channel.CanDeliver(user) {
			continue
		}
		attempted++

		outcome := models.Notification{
			ID:      uuid.NewString(),
			MatchID: match.ID,
			Channel: channel.Name(),
			Status:  models.NotificationStatusSent,
		}

		if err := channel.Send(ctx, msg); err != nil {
			errMsg := err.Error()
			outcome.Status = models.NotificationStatusFailed
			outcome.Error = &errMsg

			d.logger.Error("channel delivery failed",
				zap.String("match_id", match.ID),
				zap.String("channel", channel.Name()),
				zap.Error(err),
			)
		} else {
			delivered++
		}

		if err := d.store.RecordNotification(ctx, &outcome); err != nil {
			d.logger.Error("failed to record delivery outcome",
				zap.String("match_id", match.ID),
				zap.String("channel", channel.Name()),
				zap.Error(err),
			)
		}
	}

	if attempted == 0 {
		// record the dead end so the watcher does not re-pick this match
		errMsg := "no delivery target configured"
		outcome := models.Notification{
			ID:      uuid.NewString(),
			MatchID: match.ID,
			Channel: "none",
			Status:  models.NotificationStatusFailed,
			Error:   &errMsg,
		}
		if err := d.store.RecordNotification(ctx, &outcome); err != nil {
			d.logger.Error("failed to record delivery outcome",
				zap.String("match_id", match.ID),
				zap.Error(err),
			)
		}

		d.logger.Warn("no deliverable channel for user",
			zap.String("match_id", match.ID),
			zap.String("user_id", user.ID),
		)
		return nil
	}

	d.logger.Info("match dispatched",
		zap.String("match_id", match.ID),
		zap.String("user_id", user.ID),
		zap.Int("channels_delivered", delivered),
	)

	return nil
}

// isRateLimited gates delivery per user. The counter grows only on
// allowed deliveries, so a deferred match cannot keep itself deferred.
// Cache errors fail open.
func (d *Dispatcher) isRateLimited(ctx context.Context, userID string) bool {
	if d.limiter == nil {
		return false
	}

	count, err := d.limiter.GetNotifyRateLimit(ctx, userID)
	if err != nil {
		d.logger.Error("failed to check notify rate limit",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return false
	}

	if count >= maxNotificationsPerUserWindow {
		d.logger.Warn("notify rate limit reached, deferring match",
			zap.String("user_id", userID),
			zap.Int64("count", count),
		)
		return true
	}

	if _, err := d.limiter.IncrementNotifyRateLimit(ctx, userID); err != nil {
		d.logger.Error("failed to increment notify rate limit",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	return false
}
