package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/bridgelog"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/timeutil"
)

// Outcome is the per-event result of reconciliation. Every event ends up
// in exactly one bucket; nothing is silently lost.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// RunSummary aggregates one fetch-and-reconcile run.
type RunSummary struct {
	Devices int
	Fetched int
	Created int
	Skipped int
	Errors  int
}

func (s RunSummary) String() string {
	return fmt.Sprintf("devices=%d fetched=%d created=%d skipped=%d errors=%d",
		s.Devices, s.Fetched, s.Created, s.Skipped, s.Errors)
}

// Service is the reconciliation engine: it pulls raw events from every
// confirmed terminal, merges them into a single timestamp-ordered batch
// and applies each event at most once against live attendance state.
type Service struct {
	tx          database.TxRunner
	devices     device.DeviceRepository
	transport   device.Transport
	events      event.LogRepository
	attendances attendance.AttendanceRepository
	employees   employee.EmployeeRepository
	logs        bridgelog.LogRepository

	loc      *time.Location
	pageSize int
	overlap  time.Duration
	now      func() time.Time
}

func NewService(
	tx database.TxRunner,
	devices device.DeviceRepository,
	transport device.Transport,
	events event.LogRepository,
	attendances attendance.AttendanceRepository,
	employees employee.EmployeeRepository,
	logs bridgelog.LogRepository,
	loc *time.Location,
	pageSize int,
	overlap time.Duration,
) *Service {
	return &Service{
		tx:          tx,
		devices:     devices,
		transport:   transport,
		events:      events,
		attendances: attendances,
		employees:   employees,
		logs:        logs,
		loc:         loc,
		pageSize:    pageSize,
		overlap:     overlap,
		now:         time.Now,
	}
}

// pendingEvent is a raw event tagged with its source device and the
// normalized UTC timestamp used for cross-device ordering.
type pendingEvent struct {
	dev device.Device
	raw device.RawEvent
	ts  time.Time
}

// Run executes one fetch-and-reconcile cycle over all confirmed devices.
// A transport failure on one device is isolated: its watermark stays put
// and the other devices' events are still applied. Only run-level setup
// failures (listing devices) are returned as errors.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	devices, err := s.devices.ListByState(ctx, device.StateConfirmed)
	if err != nil {
		return RunSummary{}, fmt.Errorf("list confirmed devices: %w", err)
	}

	summary := RunSummary{Devices: len(devices)}
	if len(devices) == 0 {
		slog.Info("Reconcile: no confirmed devices")
		return summary, nil
	}

	var pending []pendingEvent
	for _, dev := range devices {
		collected, errorCount, err := s.collectDevice(ctx, dev)
		summary.Errors += errorCount
		if err != nil {
			summary.Errors++
			slog.Error("Reconcile: device fetch failed", "device", dev.Name, "error", err)
			s.record(ctx, bridgelog.LevelError, fmt.Sprintf("[fetch] %s: %v", dev.Name, err))
			continue
		}
		summary.Fetched += len(collected)
		pending = append(pending, collected...)

		// Watermark advances only after the device's whole window was
		// fetched, so a failed cycle re-fetches the same window next run.
		if err := s.devices.UpdateLastFetchTime(ctx, dev.ID, s.now().UTC()); err != nil {
			slog.Error("Reconcile: failed to advance watermark", "device", dev.Name, "error", err)
		}
	}

	// Events arrive per device and per page in arbitrary order; a single
	// ascending sort over the merged batch is what makes check-in/check-out
	// pairing independent of fetch order.
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ts.Before(pending[j].ts)
	})

	for _, p := range pending {
		switch s.applyPending(ctx, p, false) {
		case OutcomeCreated:
			summary.Created++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Errors++
		}
	}

	slog.Info("Reconcile: run finished", "summary", summary.String())
	s.record(ctx, bridgelog.LevelCron, "[fetch] "+summary.String())
	return summary, nil
}

// collectDevice pulls all pages of the device's current window. Events
// with unparseable timestamps are dropped and counted as errors here, so
// the merge sort only sees normalized instants.
func (s *Service) collectDevice(ctx context.Context, dev device.Device) ([]pendingEvent, int, error) {
	startStr, endStr := s.fetchWindow(dev)

	var collected []pendingEvent
	errorCount := 0
	position := 0
	total := -1

	for {
		page, err := s.transport.SearchEvents(ctx, dev, startStr, endStr, position, s.pageSize)
		if err != nil {
			return nil, errorCount, err
		}
		if total < 0 {
			total = page.Total
		}
		if len(page.Events) == 0 {
			break
		}

		for _, raw := range page.Events {
			if raw.BadgeID == "" || raw.Time == "" {
				continue
			}
			ts, err := ParseDeviceTime(raw.Time, s.loc)
			if err != nil {
				errorCount++
				slog.Warn("Reconcile: bad device timestamp", "device", dev.Name, "time", raw.Time)
				continue
			}
			collected = append(collected, pendingEvent{dev: dev, raw: raw, ts: ts})
		}

		position += s.pageSize
		if position >= total || len(page.Events) < s.pageSize {
			break
		}
	}

	slog.Info("Reconcile: device window collected", "device", dev.Name, "events", len(collected))
	return collected, errorCount, nil
}

// fetchWindow bounds the search to today in the reference timezone,
// narrowed to the watermark (minus a small overlap) when the device was
// already polled today. The overlap tolerates device clock drift and
// pagination slack; re-fetched events fall out at the duplicate check.
func (s *Service) fetchWindow(dev device.Device) (string, string) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)

	start := dayStart
	if dev.LastFetchTime != nil {
		last := dev.LastFetchTime.In(s.loc)
		if timeutil.SameLocalDay(last, now, s.loc) {
			start = last.Add(-s.overlap)
		}
	}

	return start.Format(timeutil.DeviceWindowFormat), dayEnd.Format(timeutil.DeviceWindowFormat)
}

// ApplyOne runs the classify→dedup→apply path for a single event, used by
// the webhook ingress. fallbackToState lets a labelless push be classified
// from the employee's current open-span state instead of being dropped.
func (s *Service) ApplyOne(ctx context.Context, dev device.Device, raw device.RawEvent, fallbackToState bool) (Outcome, error) {
	if raw.BadgeID == "" || raw.Time == "" {
		return OutcomeSkipped, nil
	}
	ts, err := ParseDeviceTime(raw.Time, s.loc)
	if err != nil {
		return OutcomeError, err
	}
	return s.applyPending(ctx, pendingEvent{dev: dev, raw: raw, ts: ts}, fallbackToState), nil
}

// applyPending applies one normalized event and maps every failure mode to
// an outcome. Per-event errors never propagate; the batch must keep going.
func (s *Service) applyPending(ctx context.Context, p pendingEvent, fallbackToState bool) Outcome {
	emp, err := s.employees.GetByBadge(ctx, p.raw.BadgeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("Reconcile: unknown badge", "badge", p.raw.BadgeID, "device", p.dev.Name)
			return OutcomeSkipped
		}
		slog.Error("Reconcile: employee lookup failed", "badge", p.raw.BadgeID, "error", err)
		return OutcomeError
	}

	dayStart, dayEnd := timeutil.LocalDayRange(p.ts, s.loc)

	kind, err := Classify(p.dev.Role, p.raw.Label)
	if err != nil {
		if !fallbackToState {
			slog.Debug("Reconcile: ambiguous event dropped", "badge", p.raw.BadgeID, "label", p.raw.Label)
			return OutcomeSkipped
		}
		kind, err = s.classifyByState(ctx, emp.ID, dayStart, dayEnd)
		if err != nil {
			slog.Error("Reconcile: state fallback failed", "employee", emp.ID, "error", err)
			return OutcomeError
		}
	}

	// Exact-key duplicate: the same device already reported this instant.
	exists, err := s.events.Exists(ctx, p.dev.ID, emp.ID, p.ts)
	if err != nil {
		slog.Error("Reconcile: duplicate check failed", "employee", emp.ID, "error", err)
		return OutcomeError
	}
	if exists {
		return OutcomeSkipped
	}

	// State guard against live persisted state, not a batch snapshot.
	open, err := s.attendances.GetOpenForDay(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		slog.Error("Reconcile: open span lookup failed", "employee", emp.ID, "error", err)
		return OutcomeError
	}
	if !shouldApply(kind, open) {
		slog.Debug("Reconcile: event skipped by state guard",
			"employee", emp.Name, "kind", kind)
		return OutcomeSkipped
	}

	// Log entry and span mutation commit together; a crash between them
	// would otherwise swallow the event forever (the refetch would hit the
	// duplicate check and skip).
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.events.Create(ctx, event.Log{
			DeviceID:   p.dev.ID,
			EmployeeID: emp.ID,
			Timestamp:  p.ts,
			Kind:       kind,
		}); err != nil {
			return err
		}
		switch kind {
		case event.KindCheckIn:
			_, err := s.attendances.Create(ctx, attendance.Attendance{
				EmployeeID: emp.ID,
				CheckIn:    p.ts,
			})
			return err
		case event.KindCheckOut:
			return s.attendances.Close(ctx, open.ID, p.ts)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, event.ErrDuplicate) {
			// Lost a race with a concurrent webhook push for the same event.
			return OutcomeSkipped
		}
		slog.Error("Reconcile: event apply failed", "employee", emp.ID, "kind", kind, "error", err)
		return OutcomeError
	}

	slog.Info("Reconcile: event applied", "employee", emp.Name, "kind", kind, "at", p.ts)
	return OutcomeCreated
}

// classifyByState is the webhook fallback: no span today or a closed one
// means arrival, an open one means departure.
func (s *Service) classifyByState(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (event.Kind, error) {
	latest, err := s.attendances.GetLatestForDay(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return "", err
	}
	if latest == nil || !latest.Open() {
		return event.KindCheckIn, nil
	}
	return event.KindCheckOut, nil
}

func (s *Service) record(ctx context.Context, level bridgelog.Level, message string) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Create(ctx, level, message); err != nil {
		slog.Error("Reconcile: bridge log write failed", "error", err)
	}
}
