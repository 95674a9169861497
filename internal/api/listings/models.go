package listings

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the feed does not know the listing.
var ErrNotFound = errors.New("listing not found")

// ListingItem is one rental listing as served by the feed.
type ListingItem struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Price       float64   `json:"price"`
	Bedrooms    *int      `json:"bedrooms"`
	Furnished   *bool     `json:"furnished"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

type ListingSearchResponse struct {
	Found   int           `json:"found"`
	Page    int           `json:"page"`
	Pages   int           `json:"pages"`
	PerPage int           `json:"per_page"`
	Items   []ListingItem `json:"items"`
}

type ErrorResponse struct {
	Description string `json:"description"`
}
