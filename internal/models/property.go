package models

import "time"

// Property is a single rental listing normalized from an external source.
// Immutable once created; a removed listing is marked inactive upstream.
type Property struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	ExternalID  string    `db:"external_id"`
	City        string    `db:"city"`
	Price       float64   `db:"price"`
	Bedrooms    *int      `db:"bedrooms"`
	Furnished   *bool     `db:"furnished"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	URL         string    `db:"url"`
	IsActive    bool      `db:"is_active"`
	ScrapedAt   time.Time `db:"scraped_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// Text returns the free text searched for profile keywords.
func (p *Property) Text() string {
	return p.Title + " " + p.Description
}
