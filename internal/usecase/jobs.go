package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/ports"
)

// Jobs registers the recurring pipeline entry points with the scheduler:
// a daily ingestion run and an interval publishing run.
type Jobs struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	cfg      config.SchedulerConfig
	logger   *slog.Logger
}

// NewJobs builds the job registrar.
func NewJobs(driver ports.Scheduler, pipeline *Pipeline, cfg config.SchedulerConfig, logger *slog.Logger) *Jobs {
	return &Jobs{driver: driver, pipeline: pipeline, cfg: cfg, logger: logger}
}

// Start registers both jobs and starts the scheduler. The context is carried
// into every job run so shutdown cancels in-flight work.
func (j *Jobs) Start(ctx context.Context) error {
	ingest := j.guard("ingest", func(ctx context.Context) error {
		added, err := j.pipeline.Ingest(ctx)
		if err != nil {
			return err
		}
		j.logger.Info("ingestion run finished", "added", added)
		return nil
	})
	if err := j.driver.AddCron(j.cfg.IngestCron, func() { ingest(ctx) }); err != nil {
		return fmt.Errorf("register ingest job: %w", err)
	}

	publish := j.guard("publish", func(ctx context.Context) error {
		return j.pipeline.ProcessBatch(ctx, j.cfg.MaxArticlesPerRun)
	})
	if err := j.driver.AddInterval(j.cfg.PublishIntervalMinutes, func() { publish(ctx) }); err != nil {
		return fmt.Errorf("register publish job: %w", err)
	}

	j.driver.Start()
	j.logger.Info("scheduler started",
		"ingestCron", j.cfg.IngestCron,
		"publishIntervalMinutes", j.cfg.PublishIntervalMinutes,
		"maxArticlesPerRun", j.cfg.MaxArticlesPerRun)
	return nil
}

// Stop waits for running jobs to complete or the context to expire.
func (j *Jobs) Stop(ctx context.Context) error {
	return j.driver.Stop(ctx)
}

// guard wraps a job so a panic or error inside one run never takes down the
// scheduler loop.
func (j *Jobs) guard(name string, run func(context.Context) error) func(context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				j.logger.Error("job panicked", "job", name, "panic", r)
			}
		}()

		if err := run(ctx); err != nil {
			j.logger.Error("job failed", "job", name, "error", err)
		}
	}
}
