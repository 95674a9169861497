package listings

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type ListingSearchParams struct {
	City    string
	Since   time.Time
	Page    int
	PerPage int
}

func (c *Client) SearchListings(ctx context.Context, params ListingSearchParams) (*ListingSearchResponse, error) {
	queryParams := url.Values{}

	if params.City != "" {
		queryParams.Set("city", params.City)
	}

	if !params.Since.IsZero() {
		queryParams.Set("since", params.Since.Format(time.RFC3339))
	}

	// pagination
	if params.Page > 0 {
		queryParams.Set("page", strconv.Itoa(params.Page))
	}

	if params.PerPage > 0 {
		queryParams.Set("per_page", strconv.Itoa(params.PerPage))
	} else {
		queryParams.Set("per_page", "20")
	}

	data, err := c.get(ctx, "/listings", queryParams)
	if err != nil {
		c.logger.Error("failed to search listings",
			zap.String("city", params.City),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search listings: %w", err)
	}

	var response ListingSearchResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse search response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("listings found",
		zap.Int("found", response.Found),
		zap.Int("returned", len(response.Items)),
		zap.String("city", params.City),
	)

	return &response, nil
}

func (c *Client) GetListing(ctx context.Context, listingID string) (*ListingItem, error) {
	path := fmt.Sprintf("/listings/%s", listingID)

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get listing",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get listing: %w", err)
	}

	var listing ListingItem
	if err := c.parseResponse(data, &listing); err != nil {
		c.logger.Error("failed to parse listing", zap.Error(err))
		return nil, err
	}

	return &listing, nil
}

// ExtractListingIDs collects ids from a search response.
func ExtractListingIDs(response *ListingSearchResponse) []string {
	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
