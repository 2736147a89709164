package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrUnknownJob = errors.New("unknown cron job")

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler manages scheduled jobs. Each job type runs single-flight:
// when a tick fires while the previous run of the same job is still in
// progress, the tick is dropped instead of starting a second run.
// Concurrent runs of the same batch operation could double-apply events
// despite the event-log dedup, so this is a correctness guard, not an
// optimization.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	group  singleflight.Group
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

// executeJob executes a job single-flight and logs results
func (s *Scheduler) executeJob(job Job) {
	ch := s.group.DoChan(job.Name, func() (interface{}, error) {
		start := time.Now()
		slog.Debug("Cron job starting", "name", job.Name)

		if err := job.Fn(s.ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
			return nil, err
		}
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("Cron tick coalesced with in-flight run", "name", job.Name)
		}
	case <-s.ctx.Done():
	}
}

// Trigger runs a registered job on demand, sharing the single-flight key
// with the scheduled runs so a manual trigger can never race a tick.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	var job *Job
	for i := range s.jobs {
		if s.jobs[i].Name == name {
			job = &s.jobs[i]
			break
		}
	}
	s.mu.Unlock()

	if job == nil {
		return ErrUnknownJob
	}

	_, err, shared := s.group.Do(job.Name, func() (interface{}, error) {
		return nil, job.Fn(ctx)
	})
	if shared {
		slog.Debug("Manual trigger coalesced with in-flight run", "name", job.Name)
	}
	return err
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
