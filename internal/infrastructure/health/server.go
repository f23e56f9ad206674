package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shirou/gopsutil/v4/disk"

	"TravelPublisher/internal/config"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// Disk space under this threshold flips the disk status to a warning.
const lowDiskBytes = 1 << 30

// ArticleCounter is the slice of the store the status endpoint needs.
type ArticleCounter interface {
	CountArticles(ctx context.Context) (int64, error)
}

// Report is the status endpoint payload.
type Report struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Database  DatabaseReport `json:"database"`
	Config    ConfigReport   `json:"config"`
	Disk      DiskReport     `json:"disk"`
	Version   string         `json:"version"`
}

// DatabaseReport describes store connectivity.
type DatabaseReport struct {
	Connected     bool  `json:"connected"`
	ArticlesCount int64 `json:"articles_count"`
}

// ConfigReport shows which external providers are configured.
type ConfigReport struct {
	OpenAIAPIConfigured bool `json:"openai_api_configured"`
	TelegramConfigured  bool `json:"telegram_configured"`
}

// DiskReport describes free space where images are written.
type DiskReport struct {
	FreeSpaceGB float64 `json:"free_space_gb"`
	Status      string  `json:"status"`
}

type errorReport struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Server exposes the health/status endpoint over HTTP.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger

	store              ArticleCounter
	imagesDir          string
	openaiConfigured   bool
	telegramConfigured bool
}

// NewServer wires the status endpoint.
func NewServer(cfg config.Config, store ArticleCounter, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:               e,
		addr:               cfg.HTTP.Addr,
		logger:             logger,
		store:              store,
		imagesDir:          cfg.Images.Dir,
		openaiConfigured:   cfg.OpenAI.APIKey != "",
		telegramConfigured: cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "",
	}

	e.GET("/", s.handleStatus)
	e.GET("/health", s.handleStatus)

	return s
}

// Start serves until Shutdown is called. http.ErrServerClosed is swallowed
// so a clean shutdown reports no error.
func (s *Server) Start() error {
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleStatus(c echo.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)

	count, err := s.store.CountArticles(c.Request().Context())
	if err != nil {
		s.logger.Error("status check failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorReport{
			Status:    "unhealthy",
			Error:     err.Error(),
			Timestamp: now,
		})
	}

	return c.JSON(http.StatusOK, Report{
		Status:    "healthy",
		Timestamp: now,
		Database:  DatabaseReport{Connected: true, ArticlesCount: count},
		Config: ConfigReport{
			OpenAIAPIConfigured: s.openaiConfigured,
			TelegramConfigured:  s.telegramConfigured,
		},
		Disk:    s.diskReport(),
		Version: Version,
	})
}

func (s *Server) diskReport() DiskReport {
	dir := s.imagesDir
	if dir == "" {
		dir = "."
	}

	usage, err := disk.Usage(dir)
	if err != nil {
		// The images dir may not exist until the first illustration lands.
		usage, err = disk.Usage(".")
	}
	if err != nil {
		s.logger.Warn("disk usage unavailable", "error", err)
		return DiskReport{Status: "warning"}
	}

	status := "ok"
	if usage.Free < lowDiskBytes {
		status = "warning"
	}
	return DiskReport{
		FreeSpaceGB: float64(usage.Free) / (1 << 30),
		Status:      status,
	}
}
