package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	maxAttempts = 3
	retryDelay  = 2 * time.Second
)

func newClient(baseURL, apiKey string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(60 * time.Second)
}

func postJSON(ctx context.Context, client *resty.Client, path string, body, out any) error {
	req := client.R().SetContext(ctx).SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("openai %s returned %s: %s", path, resp.Status(), truncate(resp.String(), 256))
	}
	return nil
}

func getJSON(ctx context.Context, client *resty.Client, path string, out any) error {
	resp, err := client.R().SetContext(ctx).SetResult(out).Get(path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("openai %s returned %s: %s", path, resp.Status(), truncate(resp.String(), 256))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
