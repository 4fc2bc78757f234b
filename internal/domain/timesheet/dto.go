package timesheet

import (
	"github.com/nomitake/timeclock-backend-go/internal/pkg/validator"
)

// MonthlyFilter selects one wall-clock month of punches for a store,
// optionally restricted to one staff member.
type MonthlyFilter struct {
	StaffID *string `json:"staff_id,omitempty"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
}

func (f *MonthlyFilter) Validate() error {
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

// DayLine is one (staff, business day) row of the monthly sheet.
type DayLine struct {
	StaffID         string  `json:"staff_id"`
	BusinessDate    string  `json:"business_date"`
	MinutesWorked   float64 `json:"minutes_worked"` // unrounded
	MinutesRounded  int     `json:"minutes_rounded"`
	FirstClockIn    *string `json:"first_clock_in,omitempty"` // RFC3339
	LastClockOut    *string `json:"last_clock_out,omitempty"` // RFC3339
	PunchCount      int     `json:"punch_count"`
	ContainsOpenEnd bool    `json:"contains_open_end"` // shift never closed
}

// MonthlySummary is the payroll view of one month. Rounding happens per
// day before summing: the month total is exactly the sum of the rounded
// day lines, never a re-rounding of the raw total.
type MonthlySummary struct {
	Year                  int       `json:"year"`
	Month                 int       `json:"month"`
	StaffID               *string   `json:"staff_id,omitempty"`
	TotalMinutesUnrounded float64   `json:"total_minutes_unrounded"`
	TotalMinutesRounded   int       `json:"total_minutes_rounded"`
	RoundedHours          int       `json:"rounded_hours"`
	RoundedRemainderMins  int       `json:"rounded_remainder_minutes"`
	Days                  []DayLine `json:"days"`
}
