package postgres

import (
	"context"
	"fmt"
	"time"

	"rentradar/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

func (s *Store) CreateSearchProfile(ctx context.Context, profile *models.SearchProfile) error {
	query := `
		INSERT INTO search_profiles (
			id, user_id, cities, budget_min, budget_max,
			bedrooms_min, bedrooms_max, furnished, keywords,
			is_active, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`

	_, err := s.sess.
		InsertBySql(query,
			profile.ID,
			profile.UserID,
			pq.Array([]string(profile.Cities)),
			profile.BudgetMin,
			profile.BudgetMax,
			profile.BedroomsMin,
			profile.BedroomsMax,
			profile.Furnished,
			pq.Array([]string(profile.Keywords)),
			profile.IsActive,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create search profile",
			zap.String("user_id", profile.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("create search profile: %w", err)
	}

	s.logger.Info("search profile created",
		zap.String("profile_id", profile.ID),
		zap.String("user_id", profile.UserID),
	)

	return nil
}

func (s *Store) GetSearchProfile(ctx context.Context, profileID string) (*models.SearchProfile, error) {
	var profile models.SearchProfile

	err := s.sess.
		Select("*").
		From("search_profiles").
		Where("id = ?", profileID).
		LoadOneContext(ctx, &profile)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get search profile",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get search profile: %w", err)
	}

	return &profile, nil
}

// GetActiveSearchProfiles returns every profile eligible for matching.
// Called fresh per matching run so profile edits take effect immediately.
func (s *Store) GetActiveSearchProfiles(ctx context.Context) ([]models.SearchProfile, error) {
	var profiles []models.SearchProfile

	_, err := s.sess.
		Select("*").
		From("search_profiles").
		Where("is_active = ?", true).
		OrderBy("created_at").
		LoadContext(ctx, &profiles)

	if err != nil {
		s.logger.Error("failed to get active search profiles", zap.Error(err))
		return nil, fmt.Errorf("get active search profiles: %w", err)
	}

	return profiles, nil
}

func (s *Store) GetSearchProfilesByUser(ctx context.Context, userID string) ([]models.SearchProfile, error) {
	var profiles []models.SearchProfile

	_, err := s.sess.
		Select("*").
		From("search_profiles").
		Where("user_id = ?", userID).
		OrderBy("created_at").
		LoadContext(ctx, &profiles)

	if err != nil {
		s.logger.Error("failed to get search profiles by user",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get search profiles by user: %w", err)
	}

	return profiles, nil
}

func (s *Store) UpdateSearchProfile(ctx context.Context, profile *models.SearchProfile) error {
	_, err := s.sess.
		Update("search_profiles").
		Set("cities", pq.Array([]string(profile.Cities))).
		Set("budget_min", profile.BudgetMin).
		Set("budget_max", profile.BudgetMax).
		Set("bedrooms_min", profile.BedroomsMin).
		Set("bedrooms_max", profile.BedroomsMax).
		Set("furnished", profile.Furnished).
		Set("keywords", pq.Array([]string(profile.Keywords))).
		Set("is_active", profile.IsActive).
		Set("updated_at", time.Now()).
		Where("id = ?", profile.ID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update search profile",
			zap.String("profile_id", profile.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update search profile: %w", err)
	}

	s.logger.Info("search profile updated", zap.String("profile_id", profile.ID))
	return nil
}

// DeactivateSearchProfile soft-deletes a profile. Profiles are never
// hard-deleted so historical matches keep a valid reference.
func (s *Store) DeactivateSearchProfile(ctx context.Context, profileID string) error {
	result, err := s.sess.
		Update("search_profiles").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where("id = ?", profileID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to deactivate search profile",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return fmt.Errorf("deactivate search profile: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("search profile not found")
	}

	s.logger.Info("search profile deactivated", zap.String("profile_id", profileID))
	return nil
}

func (s *Store) CountActiveSearchProfiles(ctx context.Context) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("search_profiles").
		Where("is_active = ?", true).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count active search profiles", zap.Error(err))
		return 0, fmt.Errorf("count active search profiles: %w", err)
	}

	return count, nil
}
