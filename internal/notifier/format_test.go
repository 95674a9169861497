package notifier

import (
	"testing"

	"rentradar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatMatch(t *testing.T) {
	bedrooms := 2
	furnished := true
	property := &models.Property{
		Title:     "Canal-side apartment",
		City:      "Amsterdam",
		Price:     1450,
		Bedrooms:  &bedrooms,
		Furnished: &furnished,
		URL:       "https://example.com/listing/1",
	}
	match := &models.Match{MatchScore: 120}

	text := FormatMatch(property, match, "")

	assert.Contains(t, text, "Canal\\-side apartment")
	assert.Contains(t, text, "Amsterdam")
	assert.Contains(t, text, "€1450 /month")
	assert.Contains(t, text, "Bedrooms:* 2")
	assert.Contains(t, text, "Furnished:* yes")
	assert.Contains(t, text, "Match score:* 120")
	assert.Contains(t, text, "https://example.com/listing/1")
}

func TestFormatMatch_OptionalFieldsOmitted(t *testing.T) {
	property := &models.Property{
		Title: "Studio",
		City:  "Utrecht",
		Price: 899.5,
	}
	match := &models.Match{MatchScore: 100}

	text := FormatMatch(property, match, "")

	assert.NotContains(t, text, "Bedrooms")
	assert.NotContains(t, text, "Furnished")
	assert.NotContains(t, text, "Open listing")
	assert.Contains(t, text, "€899\\.50 /month")
}

func TestFormatMatch_BlurbIncluded(t *testing.T) {
	property := &models.Property{Title: "Loft", City: "Rotterdam", Price: 1300}
	match := &models.Match{MatchScore: 100}

	text := FormatMatch(property, match, "A bright loft right in your budget.")

	assert.Contains(t, text, "A bright loft right in your budget")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\.b\\-c\\!", EscapeMarkdown("a.b-c!"))
	assert.Equal(t, "plain text", EscapeMarkdown("plain text"))
}
