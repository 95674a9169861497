package models

import "time"

// Match score bounds: every match starts at the base score and keyword
// bonuses can raise it up to the cap.
const (
	MatchScoreBase  = 100
	MatchScoreBonus = 10
	MatchScoreCap   = 150
)

// Match statuses. Transitions past "new" are owned by clients.
const (
	MatchStatusNew       = "new"
	MatchStatusViewed    = "viewed"
	MatchStatusDismissed = "dismissed"
)

// Match asserts that a Property satisfies a SearchProfile. At most one
// row exists per (property_id, search_profile_id) pair.
type Match struct {
	ID              string    `db:"id"`
	PropertyID      string    `db:"property_id"`
	SearchProfileID string    `db:"search_profile_id"`
	UserID          string    `db:"user_id"`
	MatchScore      int       `db:"match_score"`
	Status          string    `db:"status"`
	MatchedAt       time.Time `db:"matched_at"`
}
