package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/ports"
)

const (
	// minRewriteLength guards against sending fragments to the assistant.
	minRewriteLength = 10

	defaultPollInterval = 2 * time.Second
	defaultWallClock    = 120 * time.Second
)

// Rewriter polishes article text through an OpenAI assistant run.
type Rewriter struct {
	client      *resty.Client
	apiKey      string
	assistantID string
	logger      *slog.Logger

	pollInterval time.Duration
	wallClock    time.Duration
	retryDelay   time.Duration
}

var _ ports.Rewriter = (*Rewriter)(nil)

// NewRewriter builds a client from configuration.
func NewRewriter(cfg config.OpenAIConfig, logger *slog.Logger) *Rewriter {
	return &Rewriter{
		client:       newClient(cfg.BaseURL, cfg.APIKey).SetHeader("OpenAI-Beta", "assistants=v2"),
		apiKey:       cfg.APIKey,
		assistantID:  cfg.AssistantID,
		logger:       logger,
		pollInterval: defaultPollInterval,
		wallClock:    defaultWallClock,
		retryDelay:   retryDelay,
	}
}

type threadResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// Rewrite runs the assistant over the text and returns its reply. Any error
// is terminal for this attempt; the orchestrator applies its own fallback.
func (r *Rewriter) Rewrite(ctx context.Context, text string) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("rewriter misconfigured: missing api key")
	}
	if r.assistantID == "" {
		return "", fmt.Errorf("rewriter misconfigured: missing assistant id")
	}
	if len(strings.TrimSpace(text)) < minRewriteLength {
		return "", fmt.Errorf("text too short to rewrite")
	}

	threadID, runID, err := r.startRunWithRetry(ctx, text)
	if err != nil {
		return "", err
	}

	if err := r.awaitRun(ctx, threadID, runID); err != nil {
		return "", err
	}

	return r.assistantReply(ctx, threadID)
}

func (r *Rewriter) startRunWithRetry(ctx context.Context, text string) (string, string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		threadID, runID, err := r.startRun(ctx, text)
		if err == nil {
			return threadID, runID, nil
		}
		lastErr = err
		r.debug("run start failed", "attempt", attempt, "error", err)

		if attempt < maxAttempts {
			if err := sleepCtx(ctx, r.retryDelay*time.Duration(attempt)); err != nil {
				return "", "", err
			}
		}
	}
	return "", "", fmt.Errorf("start assistant run: %w", lastErr)
}

func (r *Rewriter) startRun(ctx context.Context, text string) (string, string, error) {
	var thread threadResponse
	if err := postJSON(ctx, r.client, "/v1/threads", map[string]any{}, &thread); err != nil {
		return "", "", err
	}

	message := map[string]string{"role": "user", "content": text}
	if err := postJSON(ctx, r.client, "/v1/threads/"+thread.ID+"/messages", message, nil); err != nil {
		return "", "", err
	}

	var run runResponse
	body := map[string]string{"assistant_id": r.assistantID}
	if err := postJSON(ctx, r.client, "/v1/threads/"+thread.ID+"/runs", body, &run); err != nil {
		return "", "", err
	}

	return thread.ID, run.ID, nil
}

// awaitRun polls the run until it completes, fails, or overruns the wall clock.
func (r *Rewriter) awaitRun(ctx context.Context, threadID, runID string) error {
	deadline := time.Now().Add(r.wallClock)

	for {
		var run runResponse
		if err := getJSON(ctx, r.client, "/v1/threads/"+threadID+"/runs/"+runID, &run); err != nil {
			return err
		}

		switch run.Status {
		case "completed":
			return nil
		case "failed", "cancelled", "expired":
			return fmt.Errorf("assistant run ended with status %s", run.Status)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("assistant run timed out after %s", r.wallClock)
		}
		if err := sleepCtx(ctx, r.pollInterval); err != nil {
			return err
		}
	}
}

func (r *Rewriter) assistantReply(ctx context.Context, threadID string) (string, error) {
	var messages messageList
	if err := getJSON(ctx, r.client, "/v1/threads/"+threadID+"/messages", &messages); err != nil {
		return "", err
	}

	// Messages arrive newest first; the first assistant text is the reply.
	for _, message := range messages.Data {
		if message.Role != "assistant" {
			continue
		}
		for _, content := range message.Content {
			if content.Type == "text" && content.Text.Value != "" {
				return content.Text.Value, nil
			}
		}
	}

	return "", fmt.Errorf("no assistant reply in thread %s", threadID)
}

func (r *Rewriter) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
