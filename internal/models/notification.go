package models

import "time"

const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// Notification records one delivery attempt of a match on one channel.
type Notification struct {
	ID          string    `db:"id"`
	MatchID     string    `db:"match_id"`
	Channel     string    `db:"channel"` // e.g. telegram
	Status      string    `db:"status"`  // sent, failed
	Error       *string   `db:"error"`
	AttemptedAt time.Time `db:"attempted_at"`
}
