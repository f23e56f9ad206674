package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"TravelPublisher/internal/ports"
)

// CronScheduler runs registered jobs on cron expressions, evaluated in the
// configured timezone.
type CronScheduler struct {
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler bound to loc.
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{cron: cron.New(cron.WithLocation(loc))}
}

// AddCron registers a job on a standard 5-field cron spec (or an @every
// descriptor).
func (s *CronScheduler) AddCron(spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("add cron job %q: %w", spec, err)
	}
	return nil
}

// AddInterval registers a job that fires every given number of minutes.
func (s *CronScheduler) AddInterval(minutes int, job func()) error {
	if minutes <= 0 {
		return fmt.Errorf("interval must be positive, got %d", minutes)
	}
	return s.AddCron(fmt.Sprintf("@every %dm", minutes), job)
}

// Start launches the scheduler loop in its own goroutine.
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish, bounded by ctx.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
