package accesssync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/bridgelog"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/leave"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
)

// Summary aggregates one access-status sync run.
type Summary struct {
	Employees int
	Blocked   int
	Unblocked int
	Unchanged int
	Errors    int
}

func (s Summary) String() string {
	return fmt.Sprintf("employees=%d blocked=%d unblocked=%d unchanged=%d errors=%d",
		s.Employees, s.Blocked, s.Unblocked, s.Unchanged, s.Errors)
}

// Service keeps terminal access in step with absence data: employees on a
// validated full-day leave are blocked for the day, everyone else follows
// the holiday and working-day rules. Decisions are pushed to every
// confirmed terminal before the stored status changes, so the database
// never claims a block the devices do not enforce.
type Service struct {
	employees employee.EmployeeRepository
	leaves    leave.LeaveRepository
	holidays  leave.HolidayRepository
	calendars workcalendar.CalendarRepository
	devices   device.DeviceRepository
	transport device.Transport
	logs      bridgelog.LogRepository

	loc *time.Location
	now func() time.Time
}

func NewService(
	employees employee.EmployeeRepository,
	leaves leave.LeaveRepository,
	holidays leave.HolidayRepository,
	calendars workcalendar.CalendarRepository,
	devices device.DeviceRepository,
	transport device.Transport,
	logs bridgelog.LogRepository,
	loc *time.Location,
) *Service {
	return &Service{
		employees: employees,
		leaves:    leaves,
		holidays:  holidays,
		calendars: calendars,
		devices:   devices,
		transport: transport,
		logs:      logs,
		loc:       loc,
		now:       time.Now,
	}
}

// Run recomputes today's desired access status for every active badge
// holder and pushes the delta to all confirmed terminals.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	today := s.now().In(s.loc)

	employees, err := s.employees.ListActiveWithBadge(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list employees: %w", err)
	}

	summary := Summary{Employees: len(employees)}
	if len(employees) == 0 {
		return summary, nil
	}

	devices, err := s.devices.ListByState(ctx, device.StateConfirmed)
	if err != nil {
		return Summary{}, fmt.Errorf("list confirmed devices: %w", err)
	}
	if len(devices) == 0 {
		slog.Info("Access sync: no confirmed devices, nothing to push")
		return summary, nil
	}

	onLeave, err := s.leaves.EmployeeIDsOnFullDayLeave(ctx, today)
	if err != nil {
		return Summary{}, fmt.Errorf("load leaves: %w", err)
	}
	isHoliday, err := s.holidays.ExistsOn(ctx, today)
	if err != nil {
		return Summary{}, fmt.Errorf("check holiday: %w", err)
	}

	calendarCache := make(map[string]workcalendar.Calendar)

	for _, emp := range employees {
		desired, err := s.desiredStatus(ctx, emp, today, onLeave, isHoliday, calendarCache)
		if err != nil {
			summary.Errors++
			slog.Error("Access sync: decision failed", "employee", emp.Name, "error", err)
			continue
		}

		if desired == emp.AccessStatus {
			summary.Unchanged++
			continue
		}

		if err := s.apply(ctx, emp, desired, devices); err != nil {
			summary.Errors++
			slog.Error("Access sync: push failed", "employee", emp.Name, "error", err)
			s.record(ctx, bridgelog.LevelError,
				fmt.Sprintf("[access-sync] %s: %v", emp.Name, err))
			continue
		}

		if desired == employee.AccessBlocked {
			summary.Blocked++
		} else {
			summary.Unblocked++
		}
	}

	slog.Info("Access sync: run finished", "summary", summary.String())
	s.record(ctx, bridgelog.LevelCron, "[access-sync] "+summary.String())
	return summary, nil
}

// desiredStatus resolves today's status by priority: a validated full-day
// leave blocks, then a public holiday blocks, then a non-working weekday
// blocks. Employees without a calendar are treated as working every day,
// so only leave or a holiday can block them.
func (s *Service) desiredStatus(
	ctx context.Context,
	emp employee.Employee,
	today time.Time,
	onLeave map[string]struct{},
	isHoliday bool,
	cache map[string]workcalendar.Calendar,
) (employee.AccessStatus, error) {
	if _, ok := onLeave[emp.ID]; ok {
		return employee.AccessBlocked, nil
	}
	if isHoliday {
		return employee.AccessBlocked, nil
	}
	if emp.WorkCalendarID == nil {
		return employee.AccessNormal, nil
	}

	cal, ok := cache[*emp.WorkCalendarID]
	if !ok {
		var err error
		cal, err = s.calendars.GetByID(ctx, *emp.WorkCalendarID)
		if err != nil {
			return "", fmt.Errorf("load calendar: %w", err)
		}
		cache[*emp.WorkCalendarID] = cal
	}

	if !cal.IsWorkingDay(workcalendar.Weekday(today)) {
		return employee.AccessBlocked, nil
	}
	return employee.AccessNormal, nil
}

// apply pushes the new status to every confirmed terminal, then persists
// it. A push failure on any device aborts before the store, leaving the
// employee due for retry on the next run.
func (s *Service) apply(ctx context.Context, emp employee.Employee, desired employee.AccessStatus, devices []device.Device) error {
	blocked := desired == employee.AccessBlocked
	for _, dev := range devices {
		if err := s.transport.SetUserBlocked(ctx, dev, *emp.BadgeID, blocked); err != nil {
			return fmt.Errorf("device %s: %w", dev.Name, err)
		}
	}

	if err := s.employees.UpdateAccessStatus(ctx, emp.ID, desired); err != nil {
		return fmt.Errorf("store status: %w", err)
	}

	slog.Info("Access sync: status changed",
		"employee", emp.Name, "status", desired)
	return nil
}

func (s *Service) record(ctx context.Context, level bridgelog.Level, message string) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Create(ctx, level, message); err != nil {
		slog.Error("Access sync: bridge log write failed", "error", err)
	}
}
