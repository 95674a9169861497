package postgres

import (
	"context"
	"fmt"
	"time"

	"rentradar/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// CreateProperty inserts a listing if its (source, external_id) pair has
// not been seen before. Returns true when a row was actually inserted;
// false means the listing is a duplicate and must not trigger matching.
func (s *Store) CreateProperty(ctx context.Context, property *models.Property) (bool, error) {
	query := `
		INSERT INTO properties (
			id, source, external_id, city, price, bedrooms, furnished,
			title, description, url, is_active, scraped_at, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, true, ?, NOW())
		ON CONFLICT (source, external_id) DO NOTHING
	`

	result, err := s.sess.
		InsertBySql(query,
			property.ID,
			property.Source,
			property.ExternalID,
			property.City,
			property.Price,
			property.Bedrooms,
			property.Furnished,
			property.Title,
			property.Description,
			property.URL,
			property.ScrapedAt,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create property",
			zap.String("source", property.Source),
			zap.String("external_id", property.ExternalID),
			zap.Error(err),
		)
		return false, fmt.Errorf("create property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.Debug("property already known",
			zap.String("source", property.Source),
			zap.String("external_id", property.ExternalID),
		)
		return false, nil
	}

	s.logger.Info("property created",
		zap.String("property_id", property.ID),
		zap.String("city", property.City),
		zap.Float64("price", property.Price),
	)

	return true, nil
}

func (s *Store) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	var property models.Property

	err := s.sess.
		Select("*").
		From("properties").
		Where("id = ?", propertyID).
		LoadOneContext(ctx, &property)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get property",
			zap.String("property_id", propertyID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get property: %w", err)
	}

	return &property, nil
}

func (s *Store) DeactivateProperty(ctx context.Context, propertyID string) error {
	_, err := s.sess.
		Update("properties").
		Set("is_active", false).
		Where("id = ?", propertyID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to deactivate property",
			zap.String("property_id", propertyID),
			zap.Error(err),
		)
		return fmt.Errorf("deactivate property: %w", err)
	}

	s.logger.Info("property deactivated", zap.String("property_id", propertyID))
	return nil
}

// CleanOldProperties removes inactive listings not scraped for daysOld
// days. Match rows referencing them go via ON DELETE CASCADE.
func (s *Store) CleanOldProperties(ctx context.Context, daysOld int) (int64, error) {
	result, err := s.sess.
		DeleteFrom("properties").
		Where("is_active = false AND scraped_at < NOW() - INTERVAL '? days'", daysOld).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clean old properties",
			zap.Int("days_old", daysOld),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clean old properties: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("old properties cleaned",
		zap.Int("days_old", daysOld),
		zap.Int64("count", rowsAffected),
	)

	return rowsAffected, nil
}

func (s *Store) CountPropertiesBySource(ctx context.Context, source string, since time.Time) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("properties").
		Where("source = ? AND created_at >= ?", source, since).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count properties by source",
			zap.String("source", source),
			zap.Error(err),
		)
		return 0, fmt.Errorf("count properties by source: %w", err)
	}

	return count, nil
}
