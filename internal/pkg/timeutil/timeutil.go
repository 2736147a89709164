package timeutil

import "time"

// LocalDayRange returns the UTC bounds [start, end) of the calendar day
// that t falls on in loc.
func LocalDayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// SameLocalDay reports whether a and b fall on the same calendar day in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// DeviceWindowFormat is the ISO layout terminals expect for search windows.
const DeviceWindowFormat = "2006-01-02T15:04:05-07:00"
