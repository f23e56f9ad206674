package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"TravelPublisher/internal/domain"
	"TravelPublisher/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Store       ports.ArticleStore
	Source      ports.ArticleSource
	Rewriter    ports.Rewriter
	Illustrator ports.Illustrator
	Publisher   ports.Publisher
	SourceName  string
	Location    *time.Location
	Logger      *slog.Logger
}

// Pipeline orchestrates each article through its stages: rewrite, illustrate,
// deliver. The current stage is derived from field null-ness, so re-running
// any stage on a finished article is a no-op.
type Pipeline struct {
	store       ports.ArticleStore
	source      ports.ArticleSource
	rewriter    ports.Rewriter
	illustrator ports.Illustrator
	publisher   ports.Publisher
	sourceName  string
	location    *time.Location
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		store:       deps.Store,
		source:      deps.Source,
		rewriter:    deps.Rewriter,
		illustrator: deps.Illustrator,
		publisher:   deps.Publisher,
		sourceName:  deps.SourceName,
		location:    loc,
		logger:      deps.Logger,
	}
}

// Ingest discovers candidate items, dedups them against the store, and
// inserts the new ones. It returns how many articles were added.
func (p *Pipeline) Ingest(ctx context.Context) (int, error) {
	if p.source == nil || p.store == nil {
		return 0, fmt.Errorf("ingestion not configured")
	}

	items, err := p.source.Discover(ctx)
	if err != nil {
		return 0, fmt.Errorf("discover items: %w", err)
	}
	p.log().Info("discovery finished", "candidates", len(items))

	added := 0
	for _, item := range items {
		if skip, err := p.isDuplicate(ctx, item); err != nil {
			p.log().Error("dedup check failed", "title", item.Title, "error", err)
			continue
		} else if skip {
			continue
		}

		article := &domain.Article{
			OriginalText: item.OriginalText(),
			SourceName:   p.sourceName,
			Title:        item.Title,
			Summary:      item.Summary,
			URL:          item.URL,
			PublishAt:    time.Now().In(p.location),
		}

		inserted, err := p.store.Insert(ctx, article)
		if err != nil {
			p.log().Error("insert failed", "title", item.Title, "error", err)
			continue
		}
		if !inserted {
			// A concurrent run inserted the same item between the dedup
			// check and here; the unique index absorbed it.
			p.log().Info("skipping duplicate lost to insert race", "title", item.Title)
			continue
		}

		p.log().Info("article added", "id", article.ID, "title", article.Title)
		added++
	}

	return added, nil
}

func (p *Pipeline) isDuplicate(ctx context.Context, item domain.RawItem) (bool, error) {
	if item.URL != "" {
		exists, err := p.store.ExistsByURL(ctx, item.URL)
		if err != nil {
			return false, err
		}
		if exists {
			p.log().Debug("skipping duplicate url", "url", item.URL)
			return true, nil
		}
	}

	exists, err := p.store.ExistsByTitle(ctx, item.Title)
	if err != nil {
		return false, err
	}
	if exists {
		p.log().Debug("skipping duplicate title", "title", item.Title)
	}
	return exists, nil
}

// ProcessBatch drains up to limit pending articles, oldest first. A failure
// on one article is logged and never aborts the rest of the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, limit int) error {
	if p.store == nil {
		return fmt.Errorf("store not configured")
	}

	pending, err := p.store.NextPending(ctx, limit)
	if err != nil {
		return fmt.Errorf("load pending articles: %w", err)
	}
	p.log().Info("processing run", "pending", len(pending))

	for i := range pending {
		article := &pending[i]
		if err := p.processOne(ctx, article); err != nil {
			p.log().Error("article processing failed", "id", article.ID, "title", article.Title, "error", err)
		}
	}

	return nil
}

// processOne advances a single article through every stage it still needs.
func (p *Pipeline) processOne(ctx context.Context, article *domain.Article) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing article %d: %v", article.ID, r)
		}
	}()

	p.log().Info("processing article", "id", article.ID, "title", article.Title, "stage", article.Stage())

	// Content-quality gate: unpublishable source material is marked done
	// rather than deleted so it never comes back around.
	if article.TooShort() {
		p.log().Warn("original text too short, marking as posted", "id", article.ID)
		if err := p.store.MarkPosted(ctx, article.ID); err != nil {
			return fmt.Errorf("mark short article posted: %w", err)
		}
		return nil
	}

	if err := p.rewriteStage(ctx, article); err != nil {
		return err
	}
	p.illustrateStage(ctx, article)
	return p.deliverStage(ctx, article)
}

// rewriteStage sets rewritten_text exactly once. Provider failure is not
// fatal: the original text is carried over verbatim so the article always
// moves past this stage.
func (p *Pipeline) rewriteStage(ctx context.Context, article *domain.Article) error {
	if article.RewrittenText != nil {
		return nil
	}

	text, err := p.rewrite(ctx, article.OriginalText)
	if err != nil || strings.TrimSpace(text) == "" {
		p.log().Warn("rewrite failed, falling back to original text", "id", article.ID, "error", err)
		text = article.OriginalText
	}

	if err := p.store.MarkRewritten(ctx, article.ID, text); err != nil {
		return fmt.Errorf("persist rewritten text: %w", err)
	}
	article.RewrittenText = &text
	p.log().Info("article rewritten", "id", article.ID)
	return nil
}

func (p *Pipeline) rewrite(ctx context.Context, text string) (string, error) {
	if p.rewriter == nil {
		return "", fmt.Errorf("no rewriter configured")
	}
	return p.rewriter.Rewrite(ctx, text)
}

// illustrateStage is best effort: without an image the article still ships.
func (p *Pipeline) illustrateStage(ctx context.Context, article *domain.Article) {
	if article.ImagePath != nil || p.illustrator == nil {
		return
	}

	path, err := p.illustrator.Illustrate(ctx, article.PublishableText())
	if err != nil {
		p.log().Warn("illustration failed, continuing without image", "id", article.ID, "error", err)
		return
	}

	if err := p.store.SetImagePath(ctx, article.ID, path); err != nil {
		p.log().Error("persist image path failed", "id", article.ID, "error", err)
		return
	}
	article.ImagePath = &path
	p.log().Info("article illustrated", "id", article.ID, "path", path)
}

// deliverStage is the only stage retried across runs: the article stays
// pending until the publisher confirms the send.
func (p *Pipeline) deliverStage(ctx context.Context, article *domain.Article) error {
	if p.publisher == nil {
		return fmt.Errorf("no publisher configured")
	}

	post := domain.Post{
		Text: article.PublishableText(),
		URL:  article.URL,
	}
	if article.ImagePath != nil {
		post.ImagePath = *article.ImagePath
	}

	if err := p.publisher.Publish(ctx, post); err != nil {
		return fmt.Errorf("publish article %d: %w", article.ID, err)
	}

	if err := p.store.MarkPosted(ctx, article.ID); err != nil {
		return fmt.Errorf("mark article posted: %w", err)
	}
	article.IsPosted = true
	p.log().Info("article published", "id", article.ID, "title", article.Title)
	return nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
