package autoclose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/bridgelog"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
)

// Summary aggregates one auto-close sweep.
type Summary struct {
	Open    int
	Closed  int
	Skipped int
	Errors  int
}

func (s Summary) String() string {
	return fmt.Sprintf("open=%d closed=%d skipped=%d errors=%d",
		s.Open, s.Closed, s.Skipped, s.Errors)
}

// Service closes attendance spans left open past the employee's expected
// end of shift. People forget to badge out; without this sweep their spans
// stay open forever and the next morning's check-in is rejected.
type Service struct {
	tx          database.TxRunner
	attendances attendance.AttendanceRepository
	employees   employee.EmployeeRepository
	calendars   workcalendar.CalendarRepository
	devices     device.DeviceRepository
	events      event.LogRepository
	logs        bridgelog.LogRepository

	loc *time.Location
	// defaultEnd is the "15:04" fallback used when a working day has no
	// calendar interval. Deployments disagree on the right value, so it is
	// configuration, not a constant.
	defaultEnd string
	now        func() time.Time
}

func NewService(
	tx database.TxRunner,
	attendances attendance.AttendanceRepository,
	employees employee.EmployeeRepository,
	calendars workcalendar.CalendarRepository,
	devices device.DeviceRepository,
	events event.LogRepository,
	logs bridgelog.LogRepository,
	loc *time.Location,
	defaultEnd string,
) *Service {
	return &Service{
		tx:          tx,
		attendances: attendances,
		employees:   employees,
		calendars:   calendars,
		devices:     devices,
		events:      events,
		logs:        logs,
		loc:         loc,
		defaultEnd:  defaultEnd,
		now:         time.Now,
	}
}

// Run sweeps today's open spans. Each closure commits independently so a
// failure on one employee never rolls back the others.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	now := s.now().In(s.loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).UTC()

	open, err := s.attendances.ListOpenSince(ctx, todayStart)
	if err != nil {
		return Summary{}, fmt.Errorf("list open spans: %w", err)
	}

	summary := Summary{Open: len(open)}
	if len(open) == 0 {
		slog.Info("Auto-close: no open spans")
		return summary, nil
	}

	// Synthetic check-outs are attributed to any confirmed device; which
	// one does not matter, the log entry exists for audit consistency.
	var attribution *device.Device
	if confirmed, err := s.devices.ListByState(ctx, device.StateConfirmed); err == nil && len(confirmed) > 0 {
		attribution = &confirmed[0]
	}

	calendarCache := make(map[string]workcalendar.Calendar)

	for _, span := range open {
		closed, err := s.closeOne(ctx, span, now, attribution, calendarCache)
		switch {
		case err != nil:
			summary.Errors++
			slog.Error("Auto-close: span failed", "attendance_id", span.ID, "error", err)
		case closed:
			summary.Closed++
		default:
			summary.Skipped++
		}
	}

	slog.Info("Auto-close: sweep finished", "summary", summary.String())
	s.record(ctx, bridgelog.LevelCron, "[auto-close] "+summary.String())
	return summary, nil
}

// closeOne decides and applies the closure for a single span. Returns
// (false, nil) for the normal skip cases: no calendar, non-working day,
// shift not over yet.
func (s *Service) closeOne(
	ctx context.Context,
	span attendance.Attendance,
	now time.Time,
	attribution *device.Device,
	cache map[string]workcalendar.Calendar,
) (bool, error) {
	emp, err := s.employees.GetByID(ctx, span.EmployeeID)
	if err != nil {
		return false, fmt.Errorf("load employee: %w", err)
	}

	// Employees without a calendar are never auto-closed; their spans need
	// a human decision.
	if emp.WorkCalendarID == nil {
		slog.Debug("Auto-close: no calendar, skipping", "employee", emp.Name)
		return false, nil
	}

	cal, ok := cache[*emp.WorkCalendarID]
	if !ok {
		cal, err = s.calendars.GetByID(ctx, *emp.WorkCalendarID)
		if err != nil {
			return false, fmt.Errorf("load calendar: %w", err)
		}
		cache[*emp.WorkCalendarID] = cal
	}

	checkInLocal := span.CheckIn.In(s.loc)
	weekday := workcalendar.Weekday(checkInLocal)

	if !cal.IsWorkingDay(weekday) {
		slog.Debug("Auto-close: non-working day, skipping", "employee", emp.Name)
		return false, nil
	}

	expectedEnd := s.expectedEnd(cal, weekday, checkInLocal)
	if now.Before(expectedEnd) {
		return false, nil
	}

	// Close at the expected end, not the scan time: the sweep may run
	// hours after the shift ended.
	checkOut := expectedEnd.UTC()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendances.Close(ctx, span.ID, checkOut); err != nil {
			return err
		}
		if attribution == nil {
			return nil
		}
		_, err := s.events.Create(ctx, event.Log{
			DeviceID:   attribution.ID,
			EmployeeID: emp.ID,
			Timestamp:  checkOut,
			Kind:       event.KindCheckOut,
		})
		if errors.Is(err, event.ErrDuplicate) {
			return nil
		}
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClosed) {
			// A late device event closed it between the list and here.
			return false, nil
		}
		return false, err
	}

	slog.Info("Auto-close: span closed",
		"employee", emp.Name, "check_out", checkOut)
	return true, nil
}

// expectedEnd derives the employee's end of shift on the check-in's day:
// the end of the last work interval, or the configured default when the
// calendar has no interval for a day it still marks as working.
func (s *Service) expectedEnd(cal workcalendar.Calendar, weekday int, checkInLocal time.Time) time.Time {
	if endHour, ok := cal.LastWorkEnd(weekday); ok {
		return workcalendar.HourOnDay(checkInLocal, endHour, s.loc)
	}

	t, err := time.Parse("15:04", s.defaultEnd)
	if err != nil {
		t = time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC)
	}
	return time.Date(checkInLocal.Year(), checkInLocal.Month(), checkInLocal.Day(),
		t.Hour(), t.Minute(), 0, 0, s.loc)
}

func (s *Service) record(ctx context.Context, level bridgelog.Level, message string) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Create(ctx, level, message); err != nil {
		slog.Error("Auto-close: bridge log write failed", "error", err)
	}
}
