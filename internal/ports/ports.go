package ports

import (
	"context"

	"TravelPublisher/internal/domain"
)

// ArticleStore persists articles and their stage fields.
type ArticleStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// Insert stores a new article. It returns false without error when a
	// duplicate won the race; callers log and move on.
	Insert(ctx context.Context, article *domain.Article) (bool, error)
	// NextPending returns unposted articles, oldest created_at first.
	NextPending(ctx context.Context, limit int) ([]domain.Article, error)
	MarkRewritten(ctx context.Context, id int64, text string) error
	SetImagePath(ctx context.Context, id int64, path string) error
	MarkPosted(ctx context.Context, id int64) error
	CountArticles(ctx context.Context) (int64, error)
}

// ArticleSource discovers candidate articles from the configured site.
type ArticleSource interface {
	Discover(ctx context.Context) ([]domain.RawItem, error)
}

// Rewriter turns raw article text into polished copy.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// Illustrator produces an image for the article text and returns its path.
type Illustrator interface {
	Illustrate(ctx context.Context, text string) (string, error)
}

// Publisher delivers a post to the destination channel.
type Publisher interface {
	Publish(ctx context.Context, post domain.Post) error
}

// Scheduler drives recurring jobs and owns its own lifecycle.
type Scheduler interface {
	AddCron(spec string, job func()) error
	AddInterval(minutes int, job func()) error
	Start()
	Stop(ctx context.Context) error
}
