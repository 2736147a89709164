package workcalendar

import (
	"testing"
	"time"
)

func splitShift() Calendar {
	return Calendar{
		ID:   "cal-1",
		Name: "Split shift",
		Lines: []Line{
			{Weekday: 0, Period: PeriodMorning, HourFrom: 9, HourTo: 13},
			{Weekday: 0, Period: PeriodLunch, HourFrom: 13, HourTo: 14},
			{Weekday: 0, Period: PeriodAfternoon, HourFrom: 14, HourTo: 18.5},
			{Weekday: 5, Period: PeriodMorning, HourFrom: 9, HourTo: 12},
		},
	}
}

func TestIsWorkingDay(t *testing.T) {
	cal := splitShift()

	if !cal.IsWorkingDay(0) {
		t.Error("Monday should be a working day")
	}
	if !cal.IsWorkingDay(5) {
		t.Error("Saturday should be a working day")
	}
	if cal.IsWorkingDay(6) {
		t.Error("Sunday should not be a working day")
	}
}

func TestIsWorkingDayIgnoresLunchOnlyDays(t *testing.T) {
	cal := Calendar{Lines: []Line{
		{Weekday: 2, Period: PeriodLunch, HourFrom: 13, HourTo: 14},
	}}
	if cal.IsWorkingDay(2) {
		t.Error("a day with only a lunch line is not a working day")
	}
}

func TestLastWorkEnd(t *testing.T) {
	cal := splitShift()

	end, ok := cal.LastWorkEnd(0)
	if !ok || end != 18.5 {
		t.Errorf("LastWorkEnd(0) = %v, %v; want 18.5, true", end, ok)
	}

	end, ok = cal.LastWorkEnd(5)
	if !ok || end != 12 {
		t.Errorf("LastWorkEnd(5) = %v, %v; want 12, true", end, ok)
	}

	if _, ok := cal.LastWorkEnd(6); ok {
		t.Error("LastWorkEnd(6) should report no work lines")
	}
}

func TestWeekdayMondayBased(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 12, 8, 12, 0, 0, 0, time.UTC), 0},  // Monday
		{time.Date(2025, 12, 12, 12, 0, 0, 0, time.UTC), 4}, // Friday
		{time.Date(2025, 12, 13, 12, 0, 0, 0, time.UTC), 5}, // Saturday
		{time.Date(2025, 12, 14, 12, 0, 0, 0, time.UTC), 6}, // Sunday
	}
	for _, c := range cases {
		if got := Weekday(c.date); got != c.want {
			t.Errorf("Weekday(%s) = %d, want %d", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestHourOnDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		t.Fatal(err)
	}

	ref := time.Date(2025, 12, 8, 4, 0, 0, 0, time.UTC) // 09:00 local
	got := HourOnDay(ref, 18.5, loc)
	want := time.Date(2025, 12, 8, 18, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("HourOnDay = %v, want %v", got, want)
	}
}
