package timesheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/domain/timesheet"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
)

type TimesheetServiceImpl struct {
	punchRepo punch.Repository
	days      businessday.Config
}

func NewTimesheetService(punchRepo punch.Repository, days businessday.Config) timesheet.Service {
	return &TimesheetServiceImpl{
		punchRepo: punchRepo,
		days:      days,
	}
}

// Monthly implements timesheet.Service.
func (s *TimesheetServiceImpl) Monthly(ctx context.Context, filter timesheet.MonthlyFilter) (timesheet.MonthlySummary, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.MonthlySummary{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return timesheet.MonthlySummary{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	storeID, ok := claims["store_id"].(string)
	if !ok || storeID == "" {
		return timesheet.MonthlySummary{}, fmt.Errorf("store_id claim is missing or invalid")
	}

	// One wall-clock month on the JST calendar.
	from := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, businessday.JST)
	to := from.AddDate(0, 1, 0)

	events, err := s.punchRepo.ListRange(ctx, storeID, filter.StaffID, from, to)
	if err != nil {
		return timesheet.MonthlySummary{}, fmt.Errorf("failed to list punches for month: %w", err)
	}

	return s.summarize(filter, events), nil
}

type dayGroup struct {
	staffID string
	date    string
}

// summarize groups punches by (staff, business day), runs the pairing
// scan per group and rounds per day before summing. Rounding the day
// lines, not the monthly total, is the payroll invariant: the reported
// month total equals the sum of the reported day lines exactly.
func (s *TimesheetServiceImpl) summarize(filter timesheet.MonthlyFilter, events []punch.Event) timesheet.MonthlySummary {
	groups := make(map[dayGroup][]punch.Event)
	for _, ev := range events {
		key := dayGroup{staffID: ev.StaffID, date: s.days.KeyFor(ev.Timestamp)}
		groups[key] = append(groups[key], ev)
	}

	summary := timesheet.MonthlySummary{
		Year:    filter.Year,
		Month:   filter.Month,
		StaffID: filter.StaffID,
		Days:    make([]timesheet.DayLine, 0, len(groups)),
	}

	for key, dayEvents := range groups {
		totals := CalculateShift(dayEvents)
		rounded := RoundUpQuarterHour(totals.Minutes)

		summary.TotalMinutesUnrounded += totals.Minutes
		summary.TotalMinutesRounded += rounded

		summary.Days = append(summary.Days, timesheet.DayLine{
			StaffID:         key.staffID,
			BusinessDate:    key.date,
			MinutesWorked:   totals.Minutes,
			MinutesRounded:  rounded,
			FirstClockIn:    formatInstant(totals.FirstClockIn),
			LastClockOut:    formatInstant(totals.LastClockOut),
			PunchCount:      totals.PunchCount,
			ContainsOpenEnd: totals.OpenEnded,
		})
	}

	sort.Slice(summary.Days, func(i, j int) bool {
		if summary.Days[i].BusinessDate != summary.Days[j].BusinessDate {
			return summary.Days[i].BusinessDate < summary.Days[j].BusinessDate
		}
		return summary.Days[i].StaffID < summary.Days[j].StaffID
	})

	summary.RoundedHours = summary.TotalMinutesRounded / 60
	summary.RoundedRemainderMins = summary.TotalMinutesRounded % 60

	return summary
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
