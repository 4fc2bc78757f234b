package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jst(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, JST)
}

func TestProject(t *testing.T) {
	// 2024-06-15 23:30 UTC is 2024-06-16 08:30 JST.
	instant := time.Date(2024, time.June, 15, 23, 30, 45, 0, time.UTC)
	y, m, d, hh, mm, ss := Project(instant)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
	assert.Equal(t, 16, d)
	assert.Equal(t, 8, hh)
	assert.Equal(t, 30, mm)
	assert.Equal(t, 45, ss)
}

func TestRangeContaining_WidthInvariant(t *testing.T) {
	cfg := DefaultConfig()
	want := time.Duration(24-cfg.StartHour+cfg.EndHour) * time.Hour

	instants := []time.Time{
		jst(2024, time.June, 15, 18, 0),
		jst(2024, time.June, 15, 23, 59),
		jst(2024, time.June, 16, 3, 0),
		jst(2024, time.June, 16, 7, 59),
		jst(2024, time.June, 16, 12, 0), // mid-day gap
		jst(2023, time.December, 31, 23, 30),
	}
	for _, instant := range instants {
		iv := cfg.RangeContaining(instant)
		assert.Equal(t, want, iv.To.Sub(iv.From), "instant %s", instant)
	}
}

func TestRangeContaining_Boundaries(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name    string
		instant time.Time
		key     string
	}{
		{"exactly at start opens the new day", jst(2024, time.June, 15, 18, 0), "2024-06-15"},
		{"one minute before start stays on previous day", jst(2024, time.June, 15, 17, 59), "2024-06-14"},
		{"during the night belongs to the started day", jst(2024, time.June, 15, 23, 10), "2024-06-15"},
		{"after midnight still the same business day", jst(2024, time.June, 16, 2, 0), "2024-06-15"},
		{"exactly at end still previous day", jst(2024, time.June, 16, 6, 0), "2024-06-15"},
		{"inside grace window still previous day", jst(2024, time.June, 16, 7, 59), "2024-06-15"},
		{"exactly at end of grace falls into the gap, previous day", jst(2024, time.June, 16, 8, 0), "2024-06-15"},
		{"outside grace in the mid-day gap, previous day", jst(2024, time.June, 16, 8, 1), "2024-06-15"},
		{"mid-day gap noon, previous day", jst(2024, time.June, 16, 12, 0), "2024-06-15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.key, cfg.KeyFor(tc.instant))
		})
	}
}

func TestRangeContaining_MonthAndYearRollover(t *testing.T) {
	cfg := DefaultConfig()

	// Leap year: a punch at 00:30 on March 1st belongs to Feb 29th's day.
	assert.Equal(t, "2024-02-29", cfg.KeyFor(jst(2024, time.March, 1, 0, 30)))
	// Non-leap year.
	assert.Equal(t, "2023-02-28", cfg.KeyFor(jst(2023, time.March, 1, 0, 30)))
	// Year boundary.
	assert.Equal(t, "2023-12-31", cfg.KeyFor(jst(2024, time.January, 1, 1, 0)))
	// Opening a new day on New Year's Eve.
	assert.Equal(t, "2023-12-31", cfg.KeyFor(jst(2023, time.December, 31, 18, 0)))
}

func TestKeyFor_IdempotentOverInterval(t *testing.T) {
	cfg := DefaultConfig()

	iv := cfg.RangeContaining(jst(2024, time.June, 15, 22, 0))
	require.Equal(t, "2024-06-15", iv.Key())

	// Every instant inside the interval re-derives the same key,
	// including the key of the interval's own start.
	for _, instant := range []time.Time{
		iv.From,
		iv.From.Add(time.Minute),
		iv.From.Add(6 * time.Hour),
		iv.To.Add(-time.Minute),
	} {
		assert.Equal(t, iv.Key(), cfg.KeyFor(instant), "instant %s", instant)
		assert.True(t, cfg.RangeContaining(instant).From.Equal(iv.From))
	}
}

func TestKeyFor_MonotonicWithinDay(t *testing.T) {
	cfg := DefaultConfig()
	t1 := jst(2024, time.June, 15, 19, 0)
	t2 := jst(2024, time.June, 16, 5, 30)
	require.True(t, t1.Before(t2))
	assert.Equal(t, cfg.KeyFor(t1), cfg.KeyFor(t2))
}

func TestRangeContaining_TimezoneIndependentInput(t *testing.T) {
	cfg := DefaultConfig()
	// The same instant expressed in UTC classifies identically.
	localIn := jst(2024, time.June, 16, 2, 0)
	utcIn := localIn.UTC()
	assert.Equal(t, cfg.KeyFor(localIn), cfg.KeyFor(utcIn))
}

func TestRangeForLabel(t *testing.T) {
	cfg := DefaultConfig()

	iv, err := cfg.RangeForLabel("2024-06-15")
	require.NoError(t, err)
	assert.True(t, iv.From.Equal(jst(2024, time.June, 15, 18, 0)))
	assert.True(t, iv.To.Equal(jst(2024, time.June, 16, 6, 0)))
	assert.Equal(t, "2024-06-15", iv.Key())

	// Labels always name the start day: no grace reinterpretation.
	iv, err = cfg.RangeForLabel("2024-02-29")
	require.NoError(t, err)
	assert.True(t, iv.To.Equal(jst(2024, time.March, 1, 6, 0)))
}

func TestRangeForLabel_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	for _, label := range []string{"", "2024-13-01", "15-06-2024", "2024/06/15", "yesterday"} {
		_, err := cfg.RangeForLabel(label)
		assert.ErrorIs(t, err, ErrInvalidDateLabel, "label %q", label)
	}
}

func TestInterval_Contains(t *testing.T) {
	cfg := DefaultConfig()
	iv, err := cfg.RangeForLabel("2024-06-15")
	require.NoError(t, err)

	assert.True(t, iv.Contains(iv.From))
	assert.True(t, iv.Contains(iv.To.Add(-time.Second)))
	assert.False(t, iv.Contains(iv.To))
	assert.False(t, iv.Contains(iv.From.Add(-time.Second)))
}
