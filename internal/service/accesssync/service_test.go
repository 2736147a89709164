package accesssync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	list   []employee.Employee
	stored map[string]employee.AccessStatus
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.list {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) ListActiveWithBadge(ctx context.Context) ([]employee.Employee, error) {
	return f.list, nil
}

func (f *fakeEmployees) UpdateAccessStatus(ctx context.Context, id string, status employee.AccessStatus) error {
	if f.stored == nil {
		f.stored = make(map[string]employee.AccessStatus)
	}
	f.stored[id] = status
	return nil
}

type fakeLeaves struct {
	onLeave map[string]struct{}
}

func (f *fakeLeaves) EmployeeIDsOnFullDayLeave(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	if f.onLeave == nil {
		return map[string]struct{}{}, nil
	}
	return f.onLeave, nil
}

type fakeHolidays struct {
	holiday bool
}

func (f *fakeHolidays) ExistsOn(ctx context.Context, day time.Time) (bool, error) {
	return f.holiday, nil
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

type pushedCall struct {
	deviceID string
	badgeID  string
	blocked  bool
}

type fakeTransport struct {
	pushed  []pushedCall
	failFor map[string]bool // badgeID -> fail
}

func (f *fakeTransport) DeviceInfo(ctx context.Context, dev device.Device) (device.Info, error) {
	return device.Info{}, nil
}

func (f *fakeTransport) SearchEvents(ctx context.Context, dev device.Device, startTime, endTime string, position, pageSize int) (device.EventPage, error) {
	return device.EventPage{}, nil
}

func (f *fakeTransport) SetUserBlocked(ctx context.Context, dev device.Device, badgeID string, blocked bool) error {
	if f.failFor[badgeID] {
		return fmt.Errorf("set user %s: %w", badgeID, device.ErrUnreachable)
	}
	f.pushed = append(f.pushed, pushedCall{dev.ID, badgeID, blocked})
	return nil
}

func (f *fakeTransport) CreateUser(ctx context.Context, dev device.Device, badgeID, name string) error {
	return nil
}

func (f *fakeTransport) ListUserBadges(ctx context.Context, dev device.Device) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (f *fakeTransport) ConfigureHTTPHost(ctx context.Context, dev device.Device, hostIP string, hostPort int, path string) error {
	return nil
}

func standardWeek() workcalendar.Calendar {
	cal := workcalendar.Calendar{ID: "cal-1", Name: "Standard 40h"}
	for wd := 0; wd < 5; wd++ {
		cal.Lines = append(cal.Lines,
			workcalendar.Line{Weekday: wd, Period: workcalendar.PeriodMorning, HourFrom: 9, HourTo: 13},
			workcalendar.Line{Weekday: wd, Period: workcalendar.PeriodAfternoon, HourFrom: 14, HourTo: 18},
		)
	}
	return cal
}

func strPtr(s string) *string { return &s }

type fixture struct {
	svc       *Service
	employees *fakeEmployees
	leaves    *fakeLeaves
	holidays  *fakeHolidays
	transport *fakeTransport
	loc       *time.Location
}

func newFixture(t *testing.T, emps ...employee.Employee) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	employees := &fakeEmployees{list: emps}
	leaves := &fakeLeaves{}
	holidays := &fakeHolidays{}
	transport := &fakeTransport{failFor: make(map[string]bool)}

	svc := NewService(
		employees,
		leaves,
		holidays,
		&fakeCalendars{byID: map[string]workcalendar.Calendar{"cal-1": standardWeek()}},
		&fakeDevices{confirmed: []device.Device{
			{ID: "dev-1", State: device.StateConfirmed},
			{ID: "dev-2", State: device.StateConfirmed},
		}},
		transport,
		nil,
		loc,
	)
	// 2025-12-08 is a Monday.
	svc.now = func() time.Time { return time.Date(2025, 12, 8, 6, 0, 0, 0, loc) }

	return &fixture{svc: svc, employees: employees, leaves: leaves, holidays: holidays, transport: transport, loc: loc}
}

func worker(id, badge string, status employee.AccessStatus) employee.Employee {
	return employee.Employee{
		ID: id, Name: id, BadgeID: strPtr(badge),
		WorkCalendarID: strPtr("cal-1"), AccessStatus: status, Active: true,
	}
}

func TestRunBlocksEmployeeOnLeave(t *testing.T) {
	f := newFixture(t, worker("emp-1", "1001", employee.AccessNormal))
	f.leaves.onLeave = map[string]struct{}{"emp-1": {}}

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Blocked)

	// Pushed to both terminals, then stored.
	require.Len(t, f.transport.pushed, 2)
	assert.True(t, f.transport.pushed[0].blocked)
	assert.Equal(t, employee.AccessBlocked, f.employees.stored["emp-1"])
}

func TestRunBlocksEveryoneOnHoliday(t *testing.T) {
	f := newFixture(t,
		worker("emp-1", "1001", employee.AccessNormal),
		worker("emp-2", "1002", employee.AccessNormal),
	)
	f.holidays.holiday = true

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Blocked)
}

func TestRunUnblocksOnWorkingDay(t *testing.T) {
	f := newFixture(t, worker("emp-1", "1001", employee.AccessBlocked))

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unblocked)
	assert.Equal(t, employee.AccessNormal, f.employees.stored["emp-1"])
}

func TestRunUnchangedStatusNotPushed(t *testing.T) {
	f := newFixture(t, worker("emp-1", "1001", employee.AccessNormal))

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Empty(t, f.transport.pushed)
	assert.Empty(t, f.employees.stored)
}

func TestRunNoCalendarMeansAlwaysWorking(t *testing.T) {
	emp := worker("emp-1", "1001", employee.AccessBlocked)
	emp.WorkCalendarID = nil
	f := newFixture(t, emp)
	// Make it a Sunday; without a calendar the weekday rule cannot block.
	f.svc.now = func() time.Time { return time.Date(2025, 12, 7, 6, 0, 0, 0, f.loc) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unblocked)
}

func TestRunBlocksOnNonWorkingWeekday(t *testing.T) {
	f := newFixture(t, worker("emp-1", "1001", employee.AccessNormal))
	// Sunday has no lines in the standard week.
	f.svc.now = func() time.Time { return time.Date(2025, 12, 7, 6, 0, 0, 0, f.loc) }

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Blocked)
}

func TestRunLeaveBeatsWorkingDay(t *testing.T) {
	// On a normal working Monday a validated leave still blocks.
	f := newFixture(t, worker("emp-1", "1001", employee.AccessNormal))
	f.leaves.onLeave = map[string]struct{}{"emp-1": {}}

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Blocked)
	assert.Equal(t, employee.AccessBlocked, f.employees.stored["emp-1"])
}

func TestRunPushFailureKeepsStoredStatus(t *testing.T) {
	f := newFixture(t, worker("emp-1", "1001", employee.AccessNormal))
	f.leaves.onLeave = map[string]struct{}{"emp-1": {}}
	f.transport.failFor["1001"] = true

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Blocked)

	// The stored status must not claim a block the terminals never got.
	assert.Empty(t, f.employees.stored)
}

func TestRunFailureIsolatedPerEmployee(t *testing.T) {
	f := newFixture(t,
		worker("emp-1", "1001", employee.AccessNormal),
		worker("emp-2", "1002", employee.AccessNormal),
	)
	f.leaves.onLeave = map[string]struct{}{"emp-1": {}, "emp-2": {}}
	f.transport.failFor["1001"] = true

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Blocked)
	assert.Equal(t, employee.AccessBlocked, f.employees.stored["emp-2"])
}
