package approval

import (
	"context"
)

// Repository persists day-level approval records.
type Repository interface {
	// Upsert creates or replaces the approval row for the record's
	// (storeID, business date) pair and returns the stored row.
	Upsert(ctx context.Context, record DayApproval) (DayApproval, error)

	// Get retrieves the approval row for one business day, or nil when
	// the day has never been through an approval action.
	Get(ctx context.Context, storeID string, businessDate string) (*DayApproval, error)

	// ListMonth returns the approval rows whose business date falls in
	// the given calendar month, ascending by date.
	ListMonth(ctx context.Context, storeID string, year int, month int) ([]DayApproval, error)
}
