package openai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/ports"
)

// Illustrator generates an image for an article and stores it on disk.
type Illustrator struct {
	client *resty.Client
	apiKey string
	cfg    config.ImageConfig
	logger *slog.Logger

	retryDelay time.Duration
}

var _ ports.Illustrator = (*Illustrator)(nil)

// NewIllustrator builds the image-generation adapter.
func NewIllustrator(openaiCfg config.OpenAIConfig, imageCfg config.ImageConfig, logger *slog.Logger) *Illustrator {
	return &Illustrator{
		client:     newClient(openaiCfg.BaseURL, openaiCfg.APIKey),
		apiKey:     openaiCfg.APIKey,
		cfg:        imageCfg,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Illustrate generates one image from the article text and returns the saved
// path. Failures are returned as-is: the article proceeds without an image.
func (i *Illustrator) Illustrate(ctx context.Context, text string) (string, error) {
	if i.apiKey == "" {
		return "", fmt.Errorf("illustrator misconfigured: missing api key")
	}

	prompt := buildImagePrompt(text)
	i.debug("generating image", "prompt", prompt)

	imageURL, err := i.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return i.download(ctx, imageURL)
}

func (i *Illustrator) generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":   i.cfg.Model,
		"prompt":  prompt,
		"n":       1,
		"size":    i.cfg.Size,
		"quality": i.cfg.Quality,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var out imageResponse
		err := postJSON(ctx, i.client, "/v1/images/generations", body, &out)
		if err == nil {
			if len(out.Data) == 0 || out.Data[0].URL == "" {
				err = fmt.Errorf("image response carries no url")
			} else {
				return out.Data[0].URL, nil
			}
		}

		lastErr = err
		i.debug("image generation failed", "attempt", attempt, "error", err)
		if attempt < maxAttempts {
			if err := sleepCtx(ctx, i.retryDelay*time.Duration(attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("generate image: %w", lastErr)
}

// download fetches the generated artifact into the images directory under a
// fresh uuid name; the returned path is what gets recorded on the article.
func (i *Illustrator) download(ctx context.Context, imageURL string) (string, error) {
	resp, err := i.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("download image: %s", resp.Status())
	}

	if err := os.MkdirAll(i.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}

	path := filepath.Join(i.cfg.Dir, uuid.New().String()+".png")
	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	i.debug("image saved", "path", path)
	return path, nil
}

func (i *Illustrator) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}
