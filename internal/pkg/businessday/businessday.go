package businessday

import (
	"errors"
	"fmt"
	"time"
)

// JST is the venue's civil time zone (UTC+9, no DST). All business-day
// arithmetic happens on the JST wall clock regardless of how timestamps
// are stored.
var JST = time.FixedZone("Asia/Tokyo", 9*60*60)

// ErrInvalidDateLabel is returned when a calendar-day label is not a
// valid YYYY-MM-DD date.
var ErrInvalidDateLabel = errors.New("invalid date label, expected YYYY-MM-DD")

// Config holds the operating-day parameters. The default venue day runs
// 18:00 JST to 06:00 JST the next morning, with a 120 minute grace window
// after close during which punches still count toward the ending day.
type Config struct {
	StartHour    int
	EndHour      int
	GraceMinutes int
}

func DefaultConfig() Config {
	return Config{
		StartHour:    18,
		EndHour:      6,
		GraceMinutes: 120,
	}
}

// Interval is one business day as a half-open [From, To) pair of instants.
type Interval struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the half-open interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.From) && t.Before(iv.To)
}

// Key returns the business-day label: the JST calendar date of the
// interval's start, formatted YYYY-MM-DD.
func (iv Interval) Key() string {
	return iv.From.In(JST).Format("2006-01-02")
}

// Project converts an absolute instant to its JST wall-clock components.
func Project(t time.Time) (year int, month time.Month, day, hour, minute, second int) {
	local := t.In(JST)
	year, month, day = local.Date()
	hour, minute, second = local.Clock()
	return
}

// RangeContaining resolves the business day an instant belongs to.
//
// A punch before end-of-day plus grace belongs to the day that started the
// previous calendar evening. A punch at or after the start hour opens
// today's business day. Anything in between falls in the closed mid-day
// gap and is attributed to the previous business day as well, so every
// instant classifies somewhere.
func (c Config) RangeContaining(t time.Time) Interval {
	y, m, d, _, _, _ := Project(t)

	todayStart := time.Date(y, m, d, c.StartHour, 0, 0, 0, JST)
	todayEnd := time.Date(y, m, d, c.EndHour, 0, 0, 0, JST)
	todayEndWithGrace := todayEnd.Add(time.Duration(c.GraceMinutes) * time.Minute)

	previous := Interval{
		From: time.Date(y, m, d-1, c.StartHour, 0, 0, 0, JST),
		To:   todayEnd,
	}

	switch {
	case t.Before(todayEndWithGrace):
		return previous
	case !t.Before(todayStart):
		return Interval{
			From: todayStart,
			To:   time.Date(y, m, d+1, c.EndHour, 0, 0, 0, JST),
		}
	default:
		// Closed hours between grace end and opening. Attribute to the
		// previous business day rather than leaving the punch orphaned.
		return previous
	}
}

// RangeForLabel resolves the business day for a calendar-day label. The
// label always names the start day of its business day; there is no grace
// logic here because labels come from a calendar grid that renders start
// dates, never from a live clock.
func (c Config) RangeForLabel(label string) (Interval, error) {
	day, err := ParseLabel(label)
	if err != nil {
		return Interval{}, err
	}
	y, m, d := day.Date()
	return Interval{
		From: time.Date(y, m, d, c.StartHour, 0, 0, 0, JST),
		To:   time.Date(y, m, d+1, c.EndHour, 0, 0, 0, JST),
	}, nil
}

// KeyFor returns the business-day label for an instant.
func (c Config) KeyFor(t time.Time) string {
	return c.RangeContaining(t).Key()
}

// ParseLabel parses a YYYY-MM-DD label as midnight JST of that day.
func ParseLabel(label string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", label, JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateLabel, label)
	}
	return t, nil
}
