package timesheet

import (
	"math"
	"sort"
	"time"

	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
)

// ShiftTotals is the result of pairing one business day's punches for one
// staff member.
type ShiftTotals struct {
	Minutes      float64 // unrounded worked minutes
	FirstClockIn *time.Time
	LastClockOut *time.Time
	PunchCount   int
	OpenEnded    bool // a span was left open and contributed nothing
}

// CalculateShift pairs clock and break boundaries into worked minutes.
//
// The caller does not guarantee order, so events are sorted by timestamp
// first. The scan keeps one open span at a time: clock-in and break-end
// open it, break-start and clock-out close it. Negative spans from clock
// skew are discarded rather than subtracted, and a span left dangling at
// the end contributes nothing beyond what was already accumulated.
func CalculateShift(events []punch.Event) ShiftTotals {
	sorted := make([]punch.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	totals := ShiftTotals{PunchCount: len(sorted)}

	var currentStart *time.Time
	inBreak := false

	accumulate := func(end time.Time) {
		span := end.Sub(*currentStart).Minutes()
		if span > 0 {
			totals.Minutes += span
		}
		currentStart = nil
	}

	for i := range sorted {
		ev := sorted[i]
		ts := ev.Timestamp

		switch ev.Type {
		case punch.TypeClockIn:
			if totals.FirstClockIn == nil {
				totals.FirstClockIn = &sorted[i].Timestamp
			}
			currentStart = &sorted[i].Timestamp
			inBreak = false

		case punch.TypeBreakStart:
			if currentStart != nil && !inBreak {
				accumulate(ts)
			}
			inBreak = true

		case punch.TypeBreakEnd:
			if inBreak {
				currentStart = &sorted[i].Timestamp
				inBreak = false
			}

		case punch.TypeClockOut:
			if currentStart != nil && !inBreak {
				accumulate(ts)
			}
			totals.LastClockOut = &sorted[i].Timestamp
		}
	}

	if currentStart != nil || inBreak {
		totals.OpenEnded = true
	}

	return totals
}

// RoundUpQuarterHour rounds worked minutes up to the next multiple of 15.
// Exact multiples stay as they are; payroll never rounds down.
func RoundUpQuarterHour(minutes float64) int {
	if minutes <= 0 {
		return 0
	}
	return int(math.Ceil(minutes/15)) * 15
}
