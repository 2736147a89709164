package autoclose

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendances struct {
	spans []attendance.Attendance
}

func (f *fakeAttendances) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.spans = append(f.spans, att)
	return att, nil
}

func (f *fakeAttendances) GetOpenForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendances) GetLatestForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendances) Close(ctx context.Context, id string, checkOut time.Time) error {
	for i := range f.spans {
		if f.spans[i].ID == id {
			if !f.spans[i].Open() {
				return attendance.ErrAlreadyClosed
			}
			f.spans[i].CheckOut = &checkOut
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeAttendances) ListOpenSince(ctx context.Context, since time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, s := range f.spans {
		if s.Open() && !s.CheckIn.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAttendances) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	return f.spans, int64(len(f.spans)), nil
}

type fakeEmployees struct {
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) ListActiveWithBadge(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployees) UpdateAccessStatus(ctx context.Context, id string, status employee.AccessStatus) error {
	return nil
}

type fakeCalendars struct {
	byID map[string]workcalendar.Calendar
}

func (f *fakeCalendars) GetByID(ctx context.Context, id string) (workcalendar.Calendar, error) {
	c, ok := f.byID[id]
	if !ok {
		return workcalendar.Calendar{}, workcalendar.ErrCalendarNotFound
	}
	return c, nil
}

type fakeDevices struct {
	confirmed []device.Device
}

func (f *fakeDevices) Create(ctx context.Context, dev device.Device) (device.Device, error) {
	return dev, nil
}
func (f *fakeDevices) GetByID(ctx context.Context, id string) (device.Device, error) {
	return device.Device{}, device.ErrDeviceNotFound
}
func (f *fakeDevices) GetByIP(ctx context.Context, ip string) (device.Device, error) {
	return device.Device{}, device.ErrDeviceNotFound
}
func (f *fakeDevices) List(ctx context.Context) ([]device.Device, error) { return f.confirmed, nil }
func (f *fakeDevices) ListByState(ctx context.Context, state device.State) ([]device.Device, error) {
	return f.confirmed, nil
}
func (f *fakeDevices) Update(ctx context.Context, dev device.Device) error { return nil }
func (f *fakeDevices) UpdateState(ctx context.Context, id string, state device.State) error {
	return nil
}
func (f *fakeDevices) UpdateLastFetchTime(ctx context.Context, id string, t time.Time) error {
	return nil
}
func (f *fakeDevices) Delete(ctx context.Context, id string) error { return nil }

type fakeEvents struct {
	created []event.Log
}

func (f *fakeEvents) Create(ctx context.Context, entry event.Log) (event.Log, error) {
	f.created = append(f.created, entry)
	return entry, nil
}

func (f *fakeEvents) Exists(ctx context.Context, deviceID, employeeID string, ts time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEvents) ListRecent(ctx context.Context, limit int) ([]event.Log, error) {
	return f.created, nil
}

// standardWeek is Monday through Friday, 09:00-13:00 and 14:00-18:00.
func standardWeek() workcalendar.Calendar {
	cal := workcalendar.Calendar{ID: "cal-1", Name: "Standard 40h"}
	for wd := 0; wd < 5; wd++ {
		cal.Lines = append(cal.Lines,
			workcalendar.Line{Weekday: wd, Period: workcalendar.PeriodMorning, HourFrom: 9, HourTo: 13},
			workcalendar.Line{Weekday: wd, Period: workcalendar.PeriodLunch, HourFrom: 13, HourTo: 14},
			workcalendar.Line{Weekday: wd, Period: workcalendar.PeriodAfternoon, HourFrom: 14, HourTo: 18},
		)
	}
	return cal
}

type fixture struct {
	svc         *Service
	attendances *fakeAttendances
	events      *fakeEvents
	loc         *time.Location
}

func newFixture(t *testing.T, emps map[string]employee.Employee) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	attendances := &fakeAttendances{}
	events := &fakeEvents{}
	svc := NewService(
		passTx{},
		attendances,
		&fakeEmployees{byID: emps},
		&fakeCalendars{byID: map[string]workcalendar.Calendar{"cal-1": standardWeek()}},
		&fakeDevices{confirmed: []device.Device{{ID: "dev-1", State: device.StateConfirmed}}},
		events,
		nil,
		loc,
		"18:00",
	)
	return &fixture{svc: svc, attendances: attendances, events: events, loc: loc}
}

func calPtr() *string {
	s := "cal-1"
	return &s
}

func openSpan(f *fixture, id, empID string, checkInLocal time.Time) {
	f.attendances.spans = append(f.attendances.spans, attendance.Attendance{
		ID:         id,
		EmployeeID: empID,
		CheckIn:    checkInLocal.UTC(),
	})
}

// 2025-12-08 is a Monday.
func monday(f *fixture, hour, min int) time.Time {
	return time.Date(2025, 12, 8, hour, min, 0, 0, f.loc)
}

func TestRunClosesAtShiftEndNotScanTime(t *testing.T) {
	f := newFixture(t, map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Aziza", WorkCalendarID: calPtr()},
	})
	openSpan(f, "att-1", "emp-1", monday(f, 9, 0))
	f.svc.now = func() time.Time { return monday(f, 21, 30) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Closed)

	span := f.attendances.spans[0]
	require.False(t, span.Open())
	// Closed at the calendar's 18:00, not at 21:30.
	assert.Equal(t, monday(f, 18, 0).UTC(), *span.CheckOut)

	// The closure leaves a synthetic check-out in the event log.
	require.Len(t, f.events.created, 1)
	assert.Equal(t, event.KindCheckOut, f.events.created[0].Kind)
	assert.Equal(t, monday(f, 18, 0).UTC(), f.events.created[0].Timestamp)
}

func TestRunLeavesSpanOpenBeforeShiftEnd(t *testing.T) {
	f := newFixture(t, map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Aziza", WorkCalendarID: calPtr()},
	})
	openSpan(f, "att-1", "emp-1", monday(f, 9, 0))
	f.svc.now = func() time.Time { return monday(f, 16, 0) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Closed)
	assert.Equal(t, 1, summary.Skipped)
	assert.True(t, f.attendances.spans[0].Open())
}

func TestRunSkipsEmployeeWithoutCalendar(t *testing.T) {
	f := newFixture(t, map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Aziza"},
	})
	openSpan(f, "att-1", "emp-1", monday(f, 9, 0))
	f.svc.now = func() time.Time { return monday(f, 23, 0) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Closed)
	assert.Equal(t, 1, summary.Skipped)
	assert.True(t, f.attendances.spans[0].Open())
}

func TestRunSkipsNonWorkingDay(t *testing.T) {
	f := newFixture(t, map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Aziza", WorkCalendarID: calPtr()},
	})
	// 2025-12-07 is a Sunday; the standard week has no Sunday lines.
	sunday := time.Date(2025, 12, 7, 10, 0, 0, 0, f.loc)
	openSpan(f, "att-1", "emp-1", sunday)
	f.svc.now = func() time.Time { return sunday.Add(12 * time.Hour) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Closed)
	assert.Equal(t, 1, summary.Skipped)
	assert.True(t, f.attendances.spans[0].Open())
}

func TestRunIsolatesPerEmployeeFailures(t *testing.T) {
	f := newFixture(t, map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Name: "Aziza", WorkCalendarID: calPtr()},
		// emp-2 is missing from the employee table.
	})
	openSpan(f, "att-1", "emp-2", monday(f, 8, 0))
	openSpan(f, "att-2", "emp-1", monday(f, 9, 0))
	f.svc.now = func() time.Time { return monday(f, 21, 0) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Closed)
	assert.Equal(t, 1, summary.Errors)

	for _, span := range f.attendances.spans {
		if span.EmployeeID == "emp-1" {
			assert.False(t, span.Open())
		} else {
			assert.True(t, span.Open())
		}
	}
}

func TestExpectedEndFallsBackToDefault(t *testing.T) {
	f := newFixture(t, nil)

	// A calendar that marks Monday as working via a morning line only;
	// LastWorkEnd still resolves, so use an empty-day variant directly.
	cal := workcalendar.Calendar{ID: "cal-x"}
	end := f.svc.expectedEnd(cal, 0, monday(f, 9, 0))
	assert.Equal(t, monday(f, 18, 0), end)
}

func TestRunManySpans(t *testing.T) {
	emps := make(map[string]employee.Employee)
	f := newFixture(t, emps)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("emp-%d", i)
		emps[id] = employee.Employee{ID: id, Name: id, WorkCalendarID: calPtr()}
		openSpan(f, fmt.Sprintf("att-%d", i), id, monday(f, 9, 0))
	}
	f.svc.now = func() time.Time { return monday(f, 19, 0) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Closed)
}
