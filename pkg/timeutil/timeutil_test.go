package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	// 2026-03-10 01:30 UTC is 06:30 local, same calendar day.
	utc := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, TashkentTZ, start.Location())
}

func TestStartOfDay_CrossesMidnightLocally(t *testing.T) {
	// 21:00 UTC is 02:00 the next local day.
	utc := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 11, start.Day())
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 1, 23, 0, 0, 0, TashkentTZ)
	b := time.Date(2026, 1, 4, 0, 30, 0, 0, TashkentTZ)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2008-09-15")
	require.NoError(t, err)
	assert.Equal(t, 2008, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, TashkentTZ, d.Location())

	assert.Equal(t, "2008-09-15", FormatDateStr(d))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15.09.2008")
	assert.Error(t, err)
}

func TestParseClock_SameDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, TashkentTZ)

	next, err := ParseClock("03:30", now)
	require.NoError(t, err)
	assert.Equal(t, 10, next.Day())
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.True(t, next.After(now))
}

func TestParseClock_RollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 3, 30, 0, 0, TashkentTZ)

	// Exactly at the mark counts as passed.
	next, err := ParseClock("03:30", now)
	require.NoError(t, err)
	assert.Equal(t, 11, next.Day())
}

func TestParseClock_Invalid(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, TashkentTZ)
	for _, raw := range []string{"", "25:00", "3:30pm", "03-30"} {
		_, err := ParseClock(raw, now)
		assert.Error(t, err, "raw=%q", raw)
	}
}
