package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/bridgelog"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/telegram"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/service/accesssync"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/service/autoclose"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/service/reconcile"
)

// Job names, also used by the manual-trigger API.
const (
	JobFetchLogs       = "fetch_logs"
	JobAutoClose       = "auto_close_attendance"
	JobSyncAccess      = "sync_access_status"
	JobShipBridgeLogs  = "ship_bridge_logs"
	JobCleanBridgeLogs = "cleanup_bridge_logs"
)

const bridgeLogRetention = 7 * 24 * time.Hour

type BridgeJobs struct {
	reconcileSvc  *reconcile.Service
	autoCloseSvc  *autoclose.Service
	accessSyncSvc *accesssync.Service
	bridgeLogRepo bridgelog.LogRepository
	telegramCli   telegram.Client
}

func NewBridgeJobs(
	reconcileSvc *reconcile.Service,
	autoCloseSvc *autoclose.Service,
	accessSyncSvc *accesssync.Service,
	bridgeLogRepo bridgelog.LogRepository,
	telegramCli telegram.Client,
) *BridgeJobs {
	return &BridgeJobs{
		reconcileSvc:  reconcileSvc,
		autoCloseSvc:  autoCloseSvc,
		accessSyncSvc: accessSyncSvc,
		bridgeLogRepo: bridgeLogRepo,
		telegramCli:   telegramCli,
	}
}

func (j *BridgeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobFetchLogs, 1*time.Minute, j.FetchLogs)
	scheduler.AddJob(JobAutoClose, 10*time.Minute, j.AutoCloseAttendance)
	scheduler.AddJob(JobSyncAccess, 24*time.Hour, j.SyncAccessStatus)
	scheduler.AddJob(JobShipBridgeLogs, 1*time.Minute, j.ShipBridgeLogs)
	scheduler.AddJob(JobCleanBridgeLogs, 1*time.Hour, j.CleanupBridgeLogs)
}

func (j *BridgeJobs) FetchLogs(ctx context.Context) error {
	_, err := j.reconcileSvc.Run(ctx)
	return err
}

func (j *BridgeJobs) AutoCloseAttendance(ctx context.Context) error {
	_, err := j.autoCloseSvc.Run(ctx)
	return err
}

func (j *BridgeJobs) SyncAccessStatus(ctx context.Context) error {
	_, err := j.accessSyncSvc.Run(ctx)
	return err
}

// ShipBridgeLogs forwards unshipped bridge log entries to Telegram in one
// batched message. Entries stay unshipped until the send succeeds, so an
// outage only delays delivery.
func (j *BridgeJobs) ShipBridgeLogs(ctx context.Context) error {
	if !j.telegramCli.Configured() {
		return nil
	}

	entries, err := j.bridgeLogRepo.ListUnshipped(ctx, 50)
	if err != nil {
		return fmt.Errorf("failed to list unshipped logs: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "[%s] %s %s\n",
			e.Level, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Message)
		ids = append(ids, e.ID)
	}

	if err := j.telegramCli.SendMessage(ctx, sb.String()); err != nil {
		return fmt.Errorf("failed to ship bridge logs: %w", err)
	}

	if err := j.bridgeLogRepo.MarkShipped(ctx, ids); err != nil {
		return fmt.Errorf("failed to mark logs shipped: %w", err)
	}

	slog.Info("Cron: bridge logs shipped", "count", len(ids))
	return nil
}

// CleanupBridgeLogs trims old entries. The job ticks hourly but only acts
// on Sunday nights to keep the delete off business hours.
func (j *BridgeJobs) CleanupBridgeLogs(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Weekday() != time.Sunday || now.Hour() != 22 {
		return nil
	}

	deleted, err := j.bridgeLogRepo.DeleteOlderThan(ctx, now.Add(-bridgeLogRetention))
	if err != nil {
		return fmt.Errorf("failed to clean up bridge logs: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: old bridge logs deleted", "count", deleted)
	}
	return nil
}
