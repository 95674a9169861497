package models

import (
	"time"

	"github.com/lib/pq"
)

// SearchProfile is a user-defined set of rental criteria. Optional bounds
// are pointers: nil means "no constraint", so a legitimate bound of 0 is
// never mistaken for unset.
type SearchProfile struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Cities      pq.StringArray `db:"cities"` // empty = no city restriction
	BudgetMin   *float64       `db:"budget_min"`
	BudgetMax   *float64       `db:"budget_max"`
	BedroomsMin *int           `db:"bedrooms_min"`
	BedroomsMax *int           `db:"bedrooms_max"`
	Furnished   *bool          `db:"furnished"` // nil = don't care
	Keywords    pq.StringArray `db:"keywords"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
