package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TravelPublisher/internal/config"
)

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) CountArticles(_ context.Context) (int64, error) {
	return f.count, f.err
}

func statusResponse(t *testing.T, server *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestStatus_Healthy(t *testing.T) {
	cfg := config.Config{
		OpenAI:   config.OpenAIConfig{APIKey: "key"},
		Telegram: config.TelegramConfig{BotToken: "token", ChatID: "42"},
		Images:   config.ImageConfig{Dir: t.TempDir()},
	}
	server := NewServer(cfg, &fakeCounter{count: 7}, slog.Default())

	rec := statusResponse(t, server, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, "healthy", report.Status)
	assert.True(t, report.Database.Connected)
	assert.EqualValues(t, 7, report.Database.ArticlesCount)
	assert.True(t, report.Config.OpenAIAPIConfigured)
	assert.True(t, report.Config.TelegramConfigured)
	assert.Equal(t, Version, report.Version)
	assert.NotEmpty(t, report.Timestamp)
	assert.Contains(t, []string{"ok", "warning"}, report.Disk.Status)
}

func TestStatus_MissingProviderConfig(t *testing.T) {
	server := NewServer(config.Config{Images: config.ImageConfig{Dir: t.TempDir()}},
		&fakeCounter{}, slog.Default())

	rec := statusResponse(t, server, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Config.OpenAIAPIConfigured)
	assert.False(t, report.Config.TelegramConfigured)
}

func TestStatus_StoreFailure(t *testing.T) {
	server := NewServer(config.Config{}, &fakeCounter{err: errors.New("connection refused")}, slog.Default())

	rec := statusResponse(t, server, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Contains(t, body["error"], "connection refused")
}
