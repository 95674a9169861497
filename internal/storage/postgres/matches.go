package postgres

import (
	"context"
	"fmt"

	"rentradar/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// CreateMatch inserts a match row. The unique constraint on
// (property_id, search_profile_id) makes re-running a matching run
// duplicate-safe: a conflicting insert is reported as not created, not
// as an error.
func (s *Store) CreateMatch(ctx context.Context, match *models.Match) (bool, error) {
	query := `
		INSERT INTO matches (
			id, property_id, search_profile_id, user_id,
			match_score, status, matched_at
		)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
		ON CONFLICT (property_id, search_profile_id) DO NOTHING
		RETURNING matched_at
	`

	err := s.sess.
		SelectBySql(query,
			match.ID,
			match.PropertyID,
			match.SearchProfileID,
			match.UserID,
			match.MatchScore,
			models.MatchStatusNew,
		).
		LoadOneContext(ctx, &match.MatchedAt)

	if err == dbr.ErrNotFound {
		// conflict: this (property, profile) pair was already matched
		s.logger.Debug("match already exists",
			zap.String("property_id", match.PropertyID),
			zap.String("profile_id", match.SearchProfileID),
		)
		return false, nil
	}

	if err != nil {
		s.logger.Error("failed to create match",
			zap.String("property_id", match.PropertyID),
			zap.String("profile_id", match.SearchProfileID),
			zap.Error(err),
		)
		return false, fmt.Errorf("create match: %w", err)
	}

	match.Status = models.MatchStatusNew

	s.logger.Info("match created",
		zap.String("match_id", match.ID),
		zap.String("property_id", match.PropertyID),
		zap.String("profile_id", match.SearchProfileID),
		zap.Int("score", match.MatchScore),
	)

	return true, nil
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match

	err := s.sess.
		Select("*").
		From("matches").
		Where("id = ?", matchID).
		LoadOneContext(ctx, &match)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get match",
			zap.String("match_id", matchID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get match: %w", err)
	}

	return &match, nil
}

// GetUndispatchedMatches returns matches that have no recorded delivery
// attempt yet, oldest first. The dispatch watcher polls this.
func (s *Store) GetUndispatchedMatches(ctx context.Context, limit int) ([]models.Match, error) {
	query := `
		SELECT m.*
		FROM matches m
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications n WHERE n.match_id = m.id
		)
		ORDER BY m.matched_at
		LIMIT ?
	`

	var matches []models.Match

	_, err := s.sess.
		SelectBySql(query, limit).
		LoadContext(ctx, &matches)

	if err != nil {
		s.logger.Error("failed to get undispatched matches", zap.Error(err))
		return nil, fmt.Errorf("get undispatched matches: %w", err)
	}

	s.logger.Debug("undispatched matches",
		zap.Int("count", len(matches)),
	)

	return matches, nil
}

func (s *Store) UpdateMatchStatus(ctx context.Context, matchID, status string) error {
	result, err := s.sess.
		Update("matches").
		Set("status", status).
		Where("id = ?", matchID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update match status",
			zap.String("match_id", matchID),
			zap.String("status", status),
			zap.Error(err),
		)
		return fmt.Errorf("update match status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("match not found")
	}

	s.logger.Info("match status updated",
		zap.String("match_id", matchID),
		zap.String("status", status),
	)

	return nil
}
