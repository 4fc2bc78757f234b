package timesheet

import (
	"context"
)

// Service computes payroll-rounded durations from the raw punch log.
type Service interface {
	// Monthly groups a month's punches by (staff, business day), pairs
	// clock and break boundaries per day, rounds each day up to the next
	// quarter hour and sums across the month.
	Monthly(ctx context.Context, filter MonthlyFilter) (MonthlySummary, error)
}
