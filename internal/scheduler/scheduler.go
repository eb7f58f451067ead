// Package scheduler runs the triage batch on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/hito-kotaro/torch/internal/database/models"
	"github.com/hito-kotaro/torch/internal/pipeline"
	"github.com/hito-kotaro/torch/internal/services"
)

// logRetentionDays bounds the logs table; the daily maintenance job purges
// anything older
const logRetentionDays = 30

// Scheduler wraps robfig/cron and manages the batch loop
type Scheduler struct {
	cron       *cron.Cron
	runner     *pipeline.Runner
	logService *services.LogService
	spec       string     // cron spec, e.g. "@every 5m"
	running    sync.Mutex // 実行中のバッチと重ねない
}

// New creates a Scheduler that fires every intervalMinutes minutes
func New(runner *pipeline.Runner, logService *services.LogService, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner:     runner,
		logService: logService,
		spec:       fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the batch and maintenance jobs and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runBatch(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	if _, err := s.cron.AddFunc("@daily", s.cleanupLogs); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[Scheduler] Cron started with spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Scheduler] Cron stopped")
}

// TryRunNow runs a batch immediately unless one is already in flight.
// Used by the manual trigger endpoint.
func (s *Scheduler) TryRunNow(ctx context.Context, trigger models.RunTrigger) (*models.BatchRun, bool, error) {
	if !s.running.TryLock() {
		return nil, false, nil
	}
	defer s.running.Unlock()

	run, err := s.runner.Run(ctx, trigger)
	return run, true, err
}

// runBatch executes one scheduled batch, skipping the cycle when the
// previous one is still running
func (s *Scheduler) runBatch(ctx context.Context) {
	if !s.running.TryLock() {
		log.Println("[Scheduler] Previous batch still running, skipping this cycle")
		return
	}
	defer s.running.Unlock()

	log.Println("[Scheduler] Running scheduled batch...")
	run, err := s.runner.Run(ctx, models.TriggerSchedule)
	if err != nil {
		log.Printf("[Scheduler] Batch failed: %v", err)
		return
	}
	log.Printf("[Scheduler] Batch %d done: %d fetched, %d imported, %d errors", run.ID, run.Fetched, run.SuccessCount, run.ErrorCount)
}

// cleanupLogs purges log entries past the retention window
func (s *Scheduler) cleanupLogs() {
	deleted, err := s.logService.CleanupOldLogs(logRetentionDays)
	if err != nil {
		log.Printf("[Scheduler] Log cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Scheduler] Purged %d log entries older than %d days", deleted, logRetentionDays)
	}
}
