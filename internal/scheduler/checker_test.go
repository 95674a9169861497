package scheduler

import (
	"testing"
	"time"

	"rentradar/internal/api/listings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToProperty(t *testing.T) {
	bedrooms := 3
	furnished := false
	item := &listings.ListingItem{
		ID:          "ext-7",
		City:        "Rotterdam",
		Price:       1650.50,
		Bedrooms:    &bedrooms,
		Furnished:   &furnished,
		Title:       "Family home",
		Description: "Renovated, near the park",
		URL:         "https://example.com/7",
		PublishedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	property := convertToProperty(item, "pararius")

	assert.NotEmpty(t, property.ID)
	assert.Equal(t, "pararius", property.Source)
	assert.Equal(t, "ext-7", property.ExternalID)
	assert.Equal(t, "Rotterdam", property.City)
	assert.Equal(t, 1650.50, property.Price)
	require.NotNil(t, property.Bedrooms)
	assert.Equal(t, 3, *property.Bedrooms)
	require.NotNil(t, property.Furnished)
	assert.False(t, *property.Furnished)
	assert.Equal(t, "Family home", property.Title)
	assert.True(t, property.IsActive)
	assert.False(t, property.ScrapedAt.IsZero())
}

func TestConvertToProperty_OptionalFieldsStayUnset(t *testing.T) {
	item := &listings.ListingItem{
		ID:    "ext-8",
		City:  "Utrecht",
		Price: 950,
		Title: "Studio",
	}

	property := convertToProperty(item, "feed")

	assert.Nil(t, property.Bedrooms)
	assert.Nil(t, property.Furnished)
}
