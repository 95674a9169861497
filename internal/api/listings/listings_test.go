package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractListingIDs(t *testing.T) {
	response := &ListingSearchResponse{
		Items: []ListingItem{
			{ID: "ext-1"},
			{ID: "ext-2"},
			{ID: "ext-3"},
		},
	}

	assert.Equal(t, []string{"ext-1", "ext-2", "ext-3"}, ExtractListingIDs(response))
}

func TestExtractListingIDs_EmptyResponse(t *testing.T) {
	assert.Empty(t, ExtractListingIDs(&ListingSearchResponse{}))
}
