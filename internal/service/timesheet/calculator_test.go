package timesheet

import (
	"testing"
	"time"

	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/stretchr/testify/assert"
)

func jst(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, businessday.JST)
}

func ev(t punch.Type, ts time.Time) punch.Event {
	return punch.Event{StaffID: "staff-1", StoreID: "store-1", Type: t, Timestamp: ts}
}

func TestCalculateShiftWithOneBreak(t *testing.T) {
	// 17:55 in, 20:00-20:30 break, 23:10 out: 125 + 160 worked minutes.
	events := []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 17, 55)),
		ev(punch.TypeBreakStart, jst(2024, 7, 1, 20, 0)),
		ev(punch.TypeBreakEnd, jst(2024, 7, 1, 20, 30)),
		ev(punch.TypeClockOut, jst(2024, 7, 1, 23, 10)),
	}

	totals := CalculateShift(events)

	assert.InDelta(t, 285, totals.Minutes, 0.001)
	assert.Equal(t, 4, totals.PunchCount)
	assert.False(t, totals.OpenEnded)
	assert.Equal(t, jst(2024, 7, 1, 17, 55), *totals.FirstClockIn)
	assert.Equal(t, jst(2024, 7, 1, 23, 10), *totals.LastClockOut)
}

func TestCalculateShiftSortsInput(t *testing.T) {
	shuffled := []punch.Event{
		ev(punch.TypeClockOut, jst(2024, 7, 1, 23, 10)),
		ev(punch.TypeBreakEnd, jst(2024, 7, 1, 20, 30)),
		ev(punch.TypeClockIn, jst(2024, 7, 1, 17, 55)),
		ev(punch.TypeBreakStart, jst(2024, 7, 1, 20, 0)),
	}

	totals := CalculateShift(shuffled)

	assert.InDelta(t, 285, totals.Minutes, 0.001)
	assert.False(t, totals.OpenEnded)
}

func TestCalculateShiftCrossesMidnight(t *testing.T) {
	events := []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 22, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 2, 2, 0)),
	}

	totals := CalculateShift(events)

	assert.InDelta(t, 240, totals.Minutes, 0.001)
}

func TestCalculateShiftSplitShiftsAddUp(t *testing.T) {
	// Two separate in/out chunks in one day total the same as the sum of
	// each chunk on its own.
	chunkA := []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 18, 0)),
		ev(punch.TypeClockOut, jst(2024, 7, 1, 20, 0)),
	}
	chunkB := []punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 21, 30)),
		ev(punch.TypeClockOut, jst(2024, 7, 2, 1, 15)),
	}

	combined := CalculateShift(append(append([]punch.Event{}, chunkA...), chunkB...))

	want := CalculateShift(chunkA).Minutes + CalculateShift(chunkB).Minutes
	assert.InDelta(t, want, combined.Minutes, 0.001)
	assert.Equal(t, jst(2024, 7, 1, 18, 0), *combined.FirstClockIn)
	assert.Equal(t, jst(2024, 7, 2, 1, 15), *combined.LastClockOut)
}

func TestCalculateShiftOpenEnded(t *testing.T) {
	totals := CalculateShift([]punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 18, 0)),
	})

	assert.Zero(t, totals.Minutes)
	assert.True(t, totals.OpenEnded)
	assert.Nil(t, totals.LastClockOut)
}

func TestCalculateShiftBreakNeverEnded(t *testing.T) {
	// The worked span before the break still counts; the break itself
	// leaves the day open-ended.
	totals := CalculateShift([]punch.Event{
		ev(punch.TypeClockIn, jst(2024, 7, 1, 18, 0)),
		ev(punch.TypeBreakStart, jst(2024, 7, 1, 20, 0)),
	})

	assert.InDelta(t, 120, totals.Minutes, 0.001)
	assert.True(t, totals.OpenEnded)
}

func TestCalculateShiftOrphanClockOut(t *testing.T) {
	// A clock-out with no open span contributes nothing.
	totals := CalculateShift([]punch.Event{
		ev(punch.TypeClockOut, jst(2024, 7, 1, 19, 0)),
	})

	assert.Zero(t, totals.Minutes)
	assert.False(t, totals.OpenEnded)
	assert.NotNil(t, totals.LastClockOut)
}

func TestCalculateShiftZeroLengthSpan(t *testing.T) {
	at := jst(2024, 7, 1, 18, 0)
	totals := CalculateShift([]punch.Event{
		ev(punch.TypeClockIn, at),
		ev(punch.TypeClockOut, at),
	})

	assert.Zero(t, totals.Minutes)
}

func TestCalculateShiftEmpty(t *testing.T) {
	totals := CalculateShift(nil)

	assert.Zero(t, totals.Minutes)
	assert.Zero(t, totals.PunchCount)
	assert.False(t, totals.OpenEnded)
}

func TestRoundUpQuarterHour(t *testing.T) {
	cases := []struct {
		minutes float64
		want    int
	}{
		{0, 0},
		{-5, 0},
		{0.5, 15},
		{1, 15},
		{15, 15},
		{16, 30},
		{60, 60},
		{61, 75},
		{74.9, 75},
		{285, 300},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundUpQuarterHour(tc.minutes), "minutes=%v", tc.minutes)
	}
}
