package workcalendar

import "time"

// Period labels a calendar line inside a day. Lunch lines never count as
// work time.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodLunch     Period = "lunch"
)

// Line is one weekly interval: weekday 0=Monday .. 6=Sunday, hours as
// fractional wall-clock hours (8.5 == 08:30).
type Line struct {
	Weekday  int
	Period   Period
	HourFrom float64
	HourTo   float64
}

// Calendar is an employee's weekly work schedule. Lines are kept sorted by
// (weekday, hour_from) by the repository.
type Calendar struct {
	ID    string
	Name  string
	Lines []Line
}

// IsWorkingDay reports whether the weekday has at least one work line.
func (c Calendar) IsWorkingDay(weekday int) bool {
	for _, l := range c.Lines {
		if l.Weekday == weekday && l.Period != PeriodLunch {
			return true
		}
	}
	return false
}

// LastWorkEnd returns the end hour of the last work interval on the given
// weekday. The second return is false when the day has no work lines.
func (c Calendar) LastWorkEnd(weekday int) (float64, bool) {
	var end float64
	found := false
	for _, l := range c.Lines {
		if l.Weekday != weekday || l.Period == PeriodLunch {
			continue
		}
		if !found || l.HourTo > end {
			end = l.HourTo
		}
		found = true
	}
	return end, found
}

// Weekday maps time.Weekday to the calendar's 0=Monday convention.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// HourOnDay anchors a fractional hour on the calendar day of ref in loc.
func HourOnDay(ref time.Time, hour float64, loc *time.Location) time.Time {
	local := ref.In(loc)
	h := int(hour)
	m := int((hour - float64(h)) * 60.0)
	return time.Date(local.Year(), local.Month(), local.Day(), h, m, 0, 0, loc)
}
