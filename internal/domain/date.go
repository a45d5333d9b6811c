package domain

import "time"

// Wire formats for calendar dates and months.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDate parses a YYYY-MM-DD calendar date into a midnight-UTC time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// ParseMonth parses a YYYY-MM value into the first day of that month, UTC.
func ParseMonth(value string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, value, time.UTC)
}

// DateOf strips the time of day, returning midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day in UTC.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// WeekStart returns the Monday of the ISO-style week containing d.
func WeekStart(d time.Time) time.Time {
	d = DateOf(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first calendar day of d's month.
func MonthStart(d time.Time) time.Time {
	d = d.UTC()
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last calendar day of d's month.
func MonthEnd(d time.Time) time.Time {
	return MonthStart(d).AddDate(0, 1, -1)
}
