package matcher

import (
	"strings"

	"rentradar/internal/models"
)

// IsMatch reports whether a property satisfies every applicable bound of
// a profile. A bound left unset on the profile never excludes anything,
// and an attribute missing on the property never disqualifies it on that
// dimension. Keywords are deliberately not a filter: they only affect
// the score.
func IsMatch(property *models.Property, profile *models.SearchProfile) bool {
	// City list membership is an exact string compare, no case folding
	// or trimming. Empty list means no restriction.
	if len(profile.Cities) > 0 {
		found := false
		for _, city := range profile.Cities {
			if city == property.City {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if profile.BudgetMin != nil && property.Price < *profile.BudgetMin {
		return false
	}

	if profile.BudgetMax != nil && property.Price > *profile.BudgetMax {
		return false
	}

	// Bedroom bounds only apply when the listing reports a bedroom count.
	if property.Bedrooms != nil {
		if profile.BedroomsMin != nil && *property.Bedrooms < *profile.BedroomsMin {
			return false
		}
		if profile.BedroomsMax != nil && *property.Bedrooms > *profile.BedroomsMax {
			return false
		}
	}

	// Furnished preference only applies when both sides state it.
	if profile.Furnished != nil && property.Furnished != nil {
		if *profile.Furnished != *property.Furnished {
			return false
		}
	}

	return true
}

// Score ranks a passing (property, profile) pair: base 100 plus 10 per
// profile keyword found as a case-insensitive substring of the listing
// text, capped at 150.
func Score(property *models.Property, profile *models.SearchProfile) int {
	score := models.MatchScoreBase

	text := strings.ToLower(property.Text())
	for _, keyword := range profile.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += models.MatchScoreBonus
		}
	}

	if score > models.MatchScoreCap {
		score = models.MatchScoreCap
	}

	return score
}
