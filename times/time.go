package times

import (
	"time"

	"cloud.google.com/go/civil"
)

const (
	YearMonthDayLayout = "2006-01-02"
)

const (
	DayDuration = 24 * time.Hour
)

// DayOfUTC truncates a timestamp to its UTC calendar day.
func DayOfUTC(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

// CurrentDayUTC returns the current day in the UTC time zone.
func CurrentDayUTC() civil.Date {
	return civil.DateOf(time.Now().UTC())
}

// DaysBetween returns the number of calendar days from start to end.
// The result is negative when end precedes start.
func DaysBetween(start, end civil.Date) int {
	return end.DaysSince(start)
}
