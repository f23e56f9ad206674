package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/infrastructure/health"
	"TravelPublisher/internal/infrastructure/openai"
	"TravelPublisher/internal/infrastructure/scheduler"
	"TravelPublisher/internal/infrastructure/scraper"
	"TravelPublisher/internal/infrastructure/storage"
	"TravelPublisher/internal/infrastructure/telegram"
	"TravelPublisher/internal/logging"
	"TravelPublisher/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	pool   *pgxpool.Pool
	jobs   *usecase.Jobs
	status *health.Server
}

// New builds a runnable application: store, ingestion source, providers,
// scheduler and the status endpoint.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.NewWithFile(cfg.Logging.Level, cfg.Logging.Dir)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	store := storage.NewPostgresStore(pool, baseLogger.With("component", "store"))
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	strategies := []scraper.Strategy{
		scraper.NewFeedStrategy(cfg.Source.FeedURL),
		scraper.NewPageStrategy(httpClient, cfg.Source, baseLogger.With("component", "scraper")),
	}
	var demo scraper.Strategy
	if cfg.Source.DemoSeed {
		demo = scraper.NewDemoStrategy()
	}
	source := scraper.NewChainSource(strategies, demo, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:       store,
		Source:      source,
		Rewriter:    openai.NewRewriter(cfg.OpenAI, baseLogger.With("component", "rewriter")),
		Illustrator: openai.NewIllustrator(cfg.OpenAI, cfg.Images, baseLogger.With("component", "illustrator")),
		Publisher:   telegram.NewPublisher(cfg.Telegram, baseLogger.With("component", "publisher")),
		SourceName:  cfg.Source.Name,
		Location:    cfg.Scheduler.Location(),
		Logger:      baseLogger.With("component", "pipeline"),
	})

	jobs := usecase.NewJobs(
		scheduler.NewCronScheduler(cfg.Scheduler.Location()),
		pipeline,
		cfg.Scheduler,
		baseLogger.With("component", "jobs"),
	)

	status := health.NewServer(cfg, store, baseLogger.With("component", "status"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		pool:   pool,
		jobs:   jobs,
		status: status,
	}, nil
}

// Run starts the scheduler and the status endpoint, then blocks until ctx is
// canceled. Shutdown waits for in-flight jobs within a fixed grace period.
func (a *Application) Run(ctx context.Context) error {
	if err := a.jobs.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.status.Start()
	}()
	a.logger.Info("status endpoint listening", "addr", a.cfg.HTTP.Addr)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			a.shutdown(context.Background())
			return fmt.Errorf("status endpoint: %w", err)
		}
	}

	a.logger.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.shutdown(stopCtx)
	return nil
}

func (a *Application) shutdown(ctx context.Context) {
	if err := a.jobs.Stop(ctx); err != nil {
		a.logger.Warn("scheduler did not stop cleanly", "error", err)
	}
	if err := a.status.Shutdown(ctx); err != nil {
		a.logger.Warn("status endpoint did not stop cleanly", "error", err)
	}
	a.pool.Close()
}
