package approval

import (
	"github.com/nomitake/timeclock-backend-go/internal/pkg/validator"
)

// SetDayApprovalRequest locks or unlocks one business day.
type SetDayApprovalRequest struct {
	Date     string `json:"date"` // YYYY-MM-DD business-day label
	Approved bool   `json:"approved"`
}

func (r *SetDayApprovalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DayApprovalResponse is the wire shape of one day's lock state.
type DayApprovalResponse struct {
	StoreID        string  `json:"store_id"`
	BusinessDate   string  `json:"business_date"`
	IsApproved     bool    `json:"is_approved"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	PunchesTouched int64   `json:"punches_touched"`
}

// MonthFilter selects the approval rows feeding the calendar grid.
type MonthFilter struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (f *MonthFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year < 2000 || f.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2200",
		})
	}
	if f.Month < 1 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MonthResponse lists a month's approval rows.
type MonthResponse struct {
	Days []DayApprovalResponse `json:"days"`
}
