package matcher

import (
	"context"

	"rentradar/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the slice of persistence the engine needs. The postgres
// Store satisfies it; tests use a fake.
type Store interface {
	GetProperty(ctx context.Context, propertyID string) (*models.Property, error)
	GetActiveSearchProfiles(ctx context.Context) ([]models.SearchProfile, error)
	CreateMatch(ctx context.Context, match *models.Match) (bool, error)
}

// Engine evaluates a newly ingested property against every active
// search profile. It is stateless: concurrent invocations for different
// properties need no coordination.
type Engine struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// FindMatches runs one matching pass for the given property and returns
// the matches it managed to create. Every failure mode degrades to a
// shorter result list: a missing property, an unreadable profile set,
// or a single failed insert never abort the run or crash the pipeline.
func (e *Engine) FindMatches(ctx context.Context, propertyID string) []models.Match {
	property, err := e.store.GetProperty(ctx, propertyID)
	if err != nil {
		e.logger.Error("failed to fetch property for matching",
			zap.String("property_id", propertyID),
			zap.Error(err),
		)
		return nil
	}

	if property == nil {
		// freshly inserted rows can lag behind the trigger; the caller
		// may simply re-run
		e.logger.Warn("property not found for matching",
			zap.String("property_id", propertyID),
		)
		return nil
	}

	profiles, err := e.store.GetActiveSearchProfiles(ctx)
	if err != nil {
		e.logger.Error("failed to fetch active search profiles",
			zap.String("property_id", propertyID),
			zap.Error(err),
		)
		return nil
	}

	if len(profiles) == 0 {
		e.logger.Debug("no active search profiles",
			zap.String("property_id", propertyID),
		)
		return nil
	}

	var matches []models.Match

	for i := range profiles {
		profile := &profiles[i]

		if !IsMatch(property, profile) {
			continue
		}

		match := models.Match{
			ID:              uuid.NewString(),
			PropertyID:      property.ID,
			SearchProfileID: profile.ID,
			UserID:          profile.UserID,
			MatchScore:      Score(property, profile),
		}

		created, err := e.store.CreateMatch(ctx, &match)
		if err != nil {
			e.logger.Error("failed to persist match",
				zap.String("property_id", property.ID),
				zap.String("profile_id", profile.ID),
				zap.Error(err),
			)
			continue
		}

		if !created {
			// pair already matched on an earlier run
			continue
		}

		matches = append(matches, match)
	}

	e.logger.Info("matching run finished",
		zap.String("property_id", property.ID),
		zap.Int("profiles_evaluated", len(profiles)),
		zap.Int("matches_created", len(matches)),
	)

	return matches
}
