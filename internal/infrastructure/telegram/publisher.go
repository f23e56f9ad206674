package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/domain"
	"TravelPublisher/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	maxAttempts = 3
	retryDelay  = 2 * time.Second

	// Telegram's own limits for photo captions and messages.
	captionLimit = 1024
	messageLimit = 4000

	maxParagraphs = 5
)

var (
	paragraphExpr = regexp.MustCompile(`\n{2,}`)
	tagExpr       = regexp.MustCompile(`<[^>]*>`)
)

// Publisher delivers formatted posts to a Telegram chat via the bot API.
type Publisher struct {
	client   *resty.Client
	botToken string
	chatID   string
	logger   *slog.Logger

	retryDelay time.Duration
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher registers bot token and chat identifier.
func NewPublisher(cfg config.TelegramConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:     resty.New().SetBaseURL(defaultAPIBase).SetTimeout(30 * time.Second),
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

// Publish sends the post: photo with caption when the text fits the caption
// limit, otherwise photo first and text after. A markup rejection falls back
// to one plain-text send. Only a confirmed send returns nil.
func (p *Publisher) Publish(ctx context.Context, post domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return fmt.Errorf("refusing to publish empty text")
	}
	if p.botToken == "" || p.chatID == "" {
		return fmt.Errorf("telegram publisher misconfigured")
	}

	formatted := FormatArticleHTML(post.Text, post.URL)

	if post.ImagePath != "" {
		if _, err := os.Stat(post.ImagePath); err == nil {
			if utf8.RuneCountInString(formatted) <= captionLimit {
				if err := p.withRetry(ctx, func() error {
					return p.sendPhoto(ctx, post.ImagePath, formatted)
				}); err == nil {
					return nil
				}
				p.warn("caption send failed, sending photo and text separately")
			}

			// Best effort: the text send below still decides success.
			if err := p.sendPhoto(ctx, post.ImagePath, ""); err != nil {
				p.warn("photo send failed", "error", err)
			}
		} else {
			p.warn("image missing on disk, sending text only", "path", post.ImagePath)
		}
	}

	return p.sendTextWithFallback(ctx, formatted)
}

func (p *Publisher) sendTextWithFallback(ctx context.Context, formatted string) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := p.sendMessage(ctx, formatted, "HTML")
		if err == nil {
			return nil
		}
		lastErr = err
		p.warn("message send failed", "attempt", attempt, "error", err)

		if isParseError(err) {
			plain := truncateRunes(tagExpr.ReplaceAllString(formatted, ""), messageLimit)
			if plainErr := p.sendMessage(ctx, plain, ""); plainErr == nil {
				p.warn("markup rejected, plain text delivered instead")
				return nil
			}
		}

		if attempt < maxAttempts {
			if err := sleepCtx(ctx, p.retryDelay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("send message: %w", lastErr)
}

func (p *Publisher) withRetry(ctx context.Context, send func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = send(); lastErr == nil {
			return nil
		}
		p.warn("send failed", "attempt", attempt, "error", lastErr)
		if attempt < maxAttempts {
			if err := sleepCtx(ctx, p.retryDelay); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func (p *Publisher) sendMessage(ctx context.Context, text, parseMode string) error {
	form := map[string]string{
		"chat_id":                  p.chatID,
		"text":                     text,
		"disable_web_page_preview": "true",
	}
	if parseMode != "" {
		form["parse_mode"] = parseMode
	}

	resp, err := p.client.R().SetContext(ctx).SetFormData(form).
		Post("/bot" + p.botToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("send message request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram error %s: %s", resp.Status(), resp.String())
	}
	return nil
}

func (p *Publisher) sendPhoto(ctx context.Context, path, caption string) error {
	req := p.client.R().SetContext(ctx).
		SetFile("photo", path).
		SetFormData(map[string]string{"chat_id": p.chatID})
	if caption != "" {
		req.SetFormData(map[string]string{"caption": caption, "parse_mode": "HTML"})
	}

	resp, err := req.Post("/bot" + p.botToken + "/sendPhoto")
	if err != nil {
		return fmt.Errorf("send photo request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram error %s: %s", resp.Status(), resp.String())
	}
	return nil
}

func isParseError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "can't parse entities")
}

// FormatArticleHTML renders article text for Telegram: first line as a bold
// title, up to five following paragraphs, and an optional source link, all
// within the message size limit.
func FormatArticleHTML(text, url string) string {
	escaped := escapeHTML(strings.TrimSpace(text))

	lines := strings.SplitN(escaped, "\n", 2)
	title := strings.TrimSpace(lines[0])

	var b strings.Builder
	b.WriteString("<b>" + title + "</b>\n\n")

	paragraphs := paragraphExpr.Split(escaped, -1)
	if len(paragraphs) > 1 {
		count := 0
		for _, paragraph := range paragraphs[1:] {
			if count == maxParagraphs {
				break
			}
			if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
				b.WriteString(trimmed + "\n\n")
				count++
			}
		}
	}

	if url != "" {
		b.WriteString("\n<a href=\"" + url + "\">Read the full story</a>")
	}

	formatted := b.String()
	if utf8.RuneCountInString(formatted) > messageLimit {
		formatted = truncateRunes(formatted, messageLimit-3) + "..."
	}
	return formatted
}

// truncateRunes caps s at limit characters on a rune boundary, so the result
// is always valid UTF-8 regardless of byte length.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	return strings.ReplaceAll(text, ">", "&gt;")
}

func (p *Publisher) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

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
