// Package timeutil provides timezone utilities for the Tashkent timezone (UTC+5).
// coinMarkaz serves a single learning centre, so schedules and date fields are
// interpreted in local time while storage stays in UTC.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// TashkentTZ is the Tashkent timezone (UTC+5, no DST).
// Uzbekistan abolished DST in 1992, so this is constant year-round.
var TashkentTZ = time.FixedZone("Asia/Tashkent", 5*60*60)

// Now returns the current time in Tashkent timezone.
func Now() time.Time {
	return time.Now().In(TashkentTZ)
}

// ToTashkent converts a time to Tashkent timezone.
func ToTashkent(t time.Time) time.Time {
	return t.In(TashkentTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// StartOfDay returns the start of the day (00:00:00) in Tashkent timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToTashkent(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, TashkentTZ)
}

// DaysBetween returns the number of whole days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	days := int(a2.Sub(a1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"

	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"

	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Tashkent timezone.
func FormatDateStr(t time.Time) string {
	return ToTashkent(t).Format(FormatDate)
}

// ParseDate parses a date string (YYYY-MM-DD) in Tashkent timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, TashkentTZ)
}

// ParseClock parses a wall-clock string (HH:MM) and returns the next
// occurrence of that time of day in Tashkent timezone, strictly after now.
func ParseClock(value string, now time.Time) (time.Time, error) {
	clock, err := time.ParseInLocation(FormatTime, value, TashkentTZ)
	if err != nil {
		return time.Time{}, err
	}

	local := ToTashkent(now)
	next := time.Date(local.Year(), local.Month(), local.Day(),
		clock.Hour(), clock.Minute(), 0, 0, TashkentTZ)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}
