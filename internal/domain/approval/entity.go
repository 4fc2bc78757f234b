package approval

import (
	"time"
)

// DayApproval is the single source of truth for "is this business day
// locked". One row per (storeID, business date label); created lazily on
// the first approval action and updated, never deleted, afterwards.
type DayApproval struct {
	ID           string
	StoreID      string
	BusinessDate string // YYYY-MM-DD label of the business day's start day
	IsApproved   bool
	ApprovedAt   *time.Time // set iff IsApproved
	ApprovedBy   *string    // set iff IsApproved
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
