package postgres

import (
	"context"
	"fmt"

	"rentradar/internal/models"

	"go.uber.org/zap"
)

// RecordNotification stores one delivery attempt outcome for a match on
// one channel. Tolerates the match row being gone: the foreign key is
// checked, so a deleted match surfaces as an error the caller may drop.
func (s *Store) RecordNotification(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, match_id, channel, status, error, attempted_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`

	_, err := s.sess.
		InsertBySql(query,
			notification.ID,
			notification.MatchID,
			notification.Channel,
			notification.Status,
			notification.Error,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to record notification",
			zap.String("match_id", notification.MatchID),
			zap.String("channel", notification.Channel),
			zap.Error(err),
		)
		return fmt.Errorf("record notification: %w", err)
	}

	s.logger.Info("notification recorded",
		zap.String("match_id", notification.MatchID),
		zap.String("channel", notification.Channel),
		zap.String("status", notification.Status),
	)

	return nil
}

func (s *Store) GetNotificationsForMatch(ctx context.Context, matchID string) ([]models.Notification, error) {
	var notifications []models.Notification

	_, err := s.sess.
		Select("*").
		From("notifications").
		Where("match_id = ?", matchID).
		OrderBy("attempted_at").
		LoadContext(ctx, &notifications)

	if err != nil {
		s.logger.Error("failed to get notifications for match",
			zap.String("match_id", matchID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get notifications for match: %w", err)
	}

	return notifications, nil
}

func (s *Store) CleanOldNotifications(ctx context.Context, daysOld int) (int64, error) {
	result, err := s.sess.
		DeleteFrom("notifications").
		Where("attempted_at < NOW() - INTERVAL '? days'", daysOld).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clean old notifications",
			zap.Int("days_old", daysOld),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clean old notifications: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("old notifications cleaned",
		zap.Int("days_old", daysOld),
		zap.Int64("count", rowsAffected),
	)

	return rowsAffected, nil
}
