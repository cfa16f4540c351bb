// Package scheduler runs periodic maintenance on a cron schedule.
//
// The scheduler itself does no work: on each tick it enqueues the audit
// retention and loan reconciliation tasks on the task queue.
//
// # Usage
//
//	s := scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
//	if err := s.Start(ctx); err != nil { ... }
//	defer s.Stop()
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/PotatoCodder/library-management-backend/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer adds tasks to the task queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// MaintenanceScheduler enqueues maintenance tasks on a cron schedule.
type MaintenanceScheduler struct {
	queue         Enqueuer
	schedule      string
	retentionDays int

	cron       *cron.Cron
	parsed     cron.Schedule
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance. An empty schedule
// makes Start a no-op; configuration turns it off with MAINTENANCE_ENABLED.
func NewMaintenanceScheduler(queue Enqueuer, schedule string, retentionDays int) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		queue:         queue,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler. It stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	sched, err := cronParser.Parse(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		s.RunNow()
	}))
	s.parsed = sched

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, sched.Next(time.Now()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next scheduled run, or the zero time when stopped.
func (s *MaintenanceScheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.parsed.Next(time.Now())
}

// RunNow enqueues every maintenance task once. Enqueue failures are logged
// and do not stop the remaining tasks.
func (s *MaintenanceScheduler) RunNow() []string {
	jobs := []backlite.Task{
		tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays},
		tasks.ReconcileLoansTask{},
	}

	var ids []string
	for _, job := range jobs {
		id, err := s.queue.Enqueue(job)
		if err != nil {
			log.Printf("Maintenance scheduler: failed to enqueue %s: %v", job.Config().Name, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
