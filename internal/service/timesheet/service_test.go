package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/domain/timesheet"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPunchRepo struct {
	punch.Repository

	events    []punch.Event
	gotFrom   time.Time
	gotTo     time.Time
	gotStaff  *string
	gotStore  string
	listCalls int
}

func (r *stubPunchRepo) ListRange(ctx context.Context, storeID string, staffID *string, from, to time.Time) ([]punch.Event, error) {
	r.listCalls++
	r.gotStore = storeID
	r.gotStaff = staffID
	r.gotFrom = from
	r.gotTo = to
	return r.events, nil
}

func managerContext(t *testing.T, storeID string) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ta.Encode(map[string]interface{}{
		"staff_id": "manager-1",
		"store_id": storeID,
		"role":     "manager",
		"type":     "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestMonthlyRoundsPerDayBeforeSumming(t *testing.T) {
	repo := &stubPunchRepo{events: []punch.Event{
		// Day one: 61 worked minutes, rounds up to 75.
		ev(punch.TypeClockIn, jst(2024, 7, 1, 18, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 1, 19, 1)),
		// Day two: 100 worked minutes, rounds up to 105.
		ev(punch.TypeClockIn, jst(2024, 7, 2, 18, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 2, 19, 40)),
	}}
	svc := NewTimesheetService(repo, businessday.DefaultConfig())

	got, err := svc.Monthly(managerContext(t, "store-1"), timesheet.MonthlyFilter{Year: 2024, Month: 7})
	require.NoError(t, err)

	require.Len(t, got.Days, 2)
	assert.Equal(t, 75, got.Days[0].MinutesRounded)
	assert.Equal(t, 105, got.Days[1].MinutesRounded)

	// The month total is the sum of the rounded day lines, never a
	// re-rounding of the raw total (161 would re-round to 165).
	assert.Equal(t, 180, got.TotalMinutesRounded)
	assert.InDelta(t, 161, got.TotalMinutesUnrounded, 0.001)
	assert.Equal(t, 3, got.RoundedHours)
	assert.Equal(t, 0, got.RoundedRemainderMins)
}

func TestMonthlyGroupsAcrossMidnight(t *testing.T) {
	// A shift running past midnight stays one business day.
	repo := &stubPunchRepo{events: []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 5, 22, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 6, 3, 0)),
	}}
	svc := NewTimesheetService(repo, businessday.DefaultConfig())

	got, err := svc.Monthly(managerContext(t, "store-1"), timesheet.MonthlyFilter{Year: 2024, Month: 7})
	require.NoError(t, err)

	require.Len(t, got.Days, 1)
	assert.Equal(t, "2024-07-05", got.Days[0].BusinessDate)
	assert.Equal(t, 300, got.Days[0].MinutesRounded)
}

func TestMonthlyQueriesTheJSTMonth(t *testing.T) {
	repo := &stubPunchRepo{}
	svc := NewTimesheetService(repo, businessday.DefaultConfig())
	staffID := "staff-7"

	_, err := svc.Monthly(managerContext(t, "store-9"), timesheet.MonthlyFilter{
		StaffID: &staffID,
		Year:    2024,
		Month:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, "store-9", repo.gotStore)
	require.NotNil(t, repo.gotStaff)
	assert.Equal(t, staffID, *repo.gotStaff)
	assert.Equal(t, jst(2024, 2, 1, 0, 0), repo.gotFrom)
	assert.Equal(t, jst(2024, 3, 1, 0, 0), repo.gotTo)
}

func TestMonthlySortsDayLines(t *testing.T) {
	repo := &stubPunchRepo{events: []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 9, 18, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 9, 23, 0)),
		ev(punch.TypeClockIn, jst(2024, 7, 2, 18, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 2, 23, 0)),
		{StaffID: "staff-0", StoreID: "store-1", Type: punch.TypeClockIn, Timestamp: jst(2024, 7, 2, 19, 0)},
		{StaffID: "staff-0", StoreID: "store-1", Type: punch.TypeClockOut, Timestamp: jst(2024, 7, 2, 22, 0)},
	}}
	svc := NewTimesheetService(repo, businessday.DefaultConfig())

	got, err := svc.Monthly(managerContext(t, "store-1"), timesheet.MonthlyFilter{Year: 2024, Month: 7})
	require.NoError(t, err)

	require.Len(t, got.Days, 3)
	assert.Equal(t, "2024-07-02", got.Days[0].BusinessDate)
	assert.Equal(t, "staff-0", got.Days[0].StaffID)
	assert.Equal(t, "2024-07-02", got.Days[1].BusinessDate)
	assert.Equal(t, "staff-1", got.Days[1].StaffID)
	assert.Equal(t, "2024-07-09", got.Days[2].BusinessDate)
}

func TestMonthlyRejectsInvalidFilter(t *testing.T) {
	svc := NewTimesheetService(&stubPunchRepo{}, businessday.DefaultConfig())

	_, err := svc.Monthly(managerContext(t, "store-1"), timesheet.MonthlyFilter{Year: 2024, Month: 13})
	assert.Error(t, err)
}
