package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TravelPublisher/internal/config"
)

func newTestRewriter(baseURL string) *Rewriter {
	r := NewRewriter(config.OpenAIConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		AssistantID: "asst_test",
	}, nil)
	r.pollInterval = 0
	r.retryDelay = 0
	return r
}

func assistantsMux(t *testing.T, runStatuses []string) *http.ServeMux {
	t.Helper()

	var polls atomic.Int32
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/threads", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "thread_1"})
	})
	mux.HandleFunc("POST /v1/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user", body["role"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_1"})
	})
	mux.HandleFunc("POST /v1/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asst_test", body["assistant_id"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("GET /v1/threads/thread_1/runs/run_1", func(w http.ResponseWriter, _ *http.Request) {
		idx := int(polls.Add(1)) - 1
		if idx >= len(runStatuses) {
			idx = len(runStatuses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": runStatuses[idx]})
	})
	mux.HandleFunc("GET /v1/threads/thread_1/messages", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"role": "assistant",
					"content": []map[string]any{
						{"type": "text", "text": map[string]string{"value": "A polished travel story."}},
					},
				},
				{
					"role":    "user",
					"content": []map[string]any{{"type": "text", "text": map[string]string{"value": "raw"}}},
				},
			},
		})
	})

	return mux
}

func TestRewrite(t *testing.T) {
	server := httptest.NewServer(assistantsMux(t, []string{"in_progress", "completed"}))
	defer server.Close()

	rewriter := newTestRewriter(server.URL)
	out, err := rewriter.Rewrite(context.Background(), "Berlin Tour\n\nA long enough original text.")
	require.NoError(t, err)
	assert.Equal(t, "A polished travel story.", out)
}

func TestRewrite_RunFails(t *testing.T) {
	server := httptest.NewServer(assistantsMux(t, []string{"failed"}))
	defer server.Close()

	rewriter := newTestRewriter(server.URL)
	_, err := rewriter.Rewrite(context.Background(), "Berlin Tour\n\nA long enough original text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status failed")
}

func TestRewrite_WallClockTimeout(t *testing.T) {
	server := httptest.NewServer(assistantsMux(t, []string{"queued"}))
	defer server.Close()

	rewriter := newTestRewriter(server.URL)
	rewriter.wallClock = 0

	_, err := rewriter.Rewrite(context.Background(), "Berlin Tour\n\nA long enough original text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRewrite_RetriesRunStart(t *testing.T) {
	var failures atomic.Int32
	mux := assistantsMux(t, []string{"completed"})

	outer := http.NewServeMux()
	outer.HandleFunc("POST /v1/threads", func(w http.ResponseWriter, r *http.Request) {
		if failures.Add(1) <= 2 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "thread_1"})
	})
	outer.Handle("/", mux)

	server := httptest.NewServer(outer)
	defer server.Close()

	rewriter := newTestRewriter(server.URL)
	out, err := rewriter.Rewrite(context.Background(), "Berlin Tour\n\nA long enough original text.")
	require.NoError(t, err)
	assert.Equal(t, "A polished travel story.", out)
	assert.Equal(t, int32(3), failures.Load())
}

func TestRewrite_Misconfigured(t *testing.T) {
	rewriter := NewRewriter(config.OpenAIConfig{BaseURL: "https://unused"}, nil)

	_, err := rewriter.Rewrite(context.Background(), "A long enough original text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misconfigured")
}

func TestRewrite_TooShortInput(t *testing.T) {
	rewriter := newTestRewriter("https://unused")

	_, err := rewriter.Rewrite(context.Background(), "  tiny  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}
