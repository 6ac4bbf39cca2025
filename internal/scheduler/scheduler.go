// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/javigracia12/toofinance/internal/services"
)

// jobTimeout bounds a single run of a job.
const jobTimeout = 5 * time.Minute

// Scheduler wraps a cron instance whose jobs share a base context.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

// New creates a Scheduler. Specs have six fields, seconds first, and are
// evaluated in loc.
func New(baseCtx context.Context, logger *zap.Logger, loc *time.Location) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add registers job under spec.
func (s *Scheduler) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.baseCtx, jobTimeout)
		defer cancel()
		job(ctx)
	})
}

// AddRecurring registers the materialisation of due recurring expenses.
func (s *Scheduler) AddRecurring(spec string, svc services.RecurringServicer, now func() time.Time) (cron.EntryID, error) {
	return s.Add(spec, MaterializeJob(svc, now, s.logger))
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("scheduler started", zap.Int("jobs", s.Entries()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// MaterializeJob returns a job that creates this month's expenses for due
// recurring templates.
func MaterializeJob(svc services.RecurringServicer, now func() time.Time, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		created, err := svc.MaterializeDue(ctx, now())
		if err != nil {
			logger.Error("recurring materialisation failed",
				zap.Int("created", created),
				zap.Error(err),
			)
			return
		}
		logger.Info("recurring materialisation finished",
			zap.Int("created", created),
			zap.Duration("took", time.Since(start)),
		)
	}
}
