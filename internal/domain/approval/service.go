package approval

import (
	"context"
)

// Service coordinates day-level approval so the bulk-tagged punches and
// the denormalized approval row never diverge.
type Service interface {
	// SetDayApproval atomically tags every punch inside the labeled
	// business day and upserts the matching DayApproval row. Unapproving
	// is symmetric and fully reversible.
	SetDayApproval(ctx context.Context, req SetDayApprovalRequest) (DayApprovalResponse, error)

	// GetMonth returns the approval rows for a calendar month (feeds the
	// admin calendar grid).
	GetMonth(ctx context.Context, filter MonthFilter) (MonthResponse, error)

	// IsDayApproved reports whether the business day containing the given
	// label is locked.
	IsDayApproved(ctx context.Context, storeID string, businessDate string) (bool, error)
}
