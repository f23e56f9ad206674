package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"TravelPublisher/internal/domain"
	"TravelPublisher/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const articleColumns = "id, original_text, rewritten_text, image_path, is_posted, created_at, publish_at, source_name, title, summary, url"

// PostgresStore persists articles and their stage fields in Postgres.
type PostgresStore struct {
	db     DB
	logger *slog.Logger
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a pgx pool (or compatible) implementation.
func NewPostgresStore(db DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema applies the embedded schema; every statement is idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ExistsByURL reports whether an article with this non-empty url is stored.
func (s *PostgresStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	if url == "" {
		return false, nil
	}
	return s.exists(ctx, sq.Eq{"url": url})
}

// ExistsByTitle reports whether an article with this title is stored.
func (s *PostgresStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.exists(ctx, sq.Eq{"title": title})
}

func (s *PostgresStore) exists(ctx context.Context, pred sq.Eq) (bool, error) {
	query, args, err := psql.Select("1").From("articles").Where(pred).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = s.db.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return true, nil
}

// Insert stores a new article. A duplicate url or title is suppressed by the
// unique indexes; the method then reports false without an error so callers
// can log the race and continue.
func (s *PostgresStore) Insert(ctx context.Context, article *domain.Article) (bool, error) {
	query, args, err := psql.Insert("articles").
		Columns("original_text", "source_name", "title", "summary", "url", "publish_at").
		Values(article.OriginalText, article.SourceName, article.Title, article.Summary, article.URL, article.PublishAt).
		Suffix("ON CONFLICT DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert query: %w", err)
	}

	err = s.db.QueryRow(ctx, query, args...).Scan(&article.ID, &article.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		s.debug("insert suppressed by dedup constraint", "title", article.Title, "url", article.URL)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	return true, nil
}

// NextPending returns unposted articles ordered oldest first.
func (s *PostgresStore) NextPending(ctx context.Context, limit int) ([]domain.Article, error) {
	query, args, err := psql.Select(articleColumns).
		From("articles").
		Where(sq.Eq{"is_posted": false}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending: %w", err)
	}
	defer rows.Close()

	var pending []domain.Article
	for rows.Next() {
		var art domain.Article
		if err := rows.Scan(
			&art.ID, &art.OriginalText, &art.RewrittenText, &art.ImagePath,
			&art.IsPosted, &art.CreatedAt, &art.PublishAt,
			&art.SourceName, &art.Title, &art.Summary, &art.URL,
		); err != nil {
			return nil, fmt.Errorf("scan pending article: %w", err)
		}
		pending = append(pending, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending: %w", err)
	}

	return pending, nil
}

// MarkRewritten sets rewritten_text once; a second call is a no-op because
// the stage field is monotonic.
func (s *PostgresStore) MarkRewritten(ctx context.Context, id int64, text string) error {
	return s.update(ctx, "rewritten_text",
		psql.Update("articles").
			Set("rewritten_text", text).
			Where(sq.Eq{"id": id}).
			Where("rewritten_text IS NULL"))
}

// SetImagePath sets image_path once, same monotonic discipline.
func (s *PostgresStore) SetImagePath(ctx context.Context, id int64, path string) error {
	return s.update(ctx, "image_path",
		psql.Update("articles").
			Set("image_path", path).
			Where(sq.Eq{"id": id}).
			Where("image_path IS NULL"))
}

// MarkPosted flips the article to its terminal state.
func (s *PostgresStore) MarkPosted(ctx context.Context, id int64) error {
	return s.update(ctx, "is_posted",
		psql.Update("articles").
			Set("is_posted", true).
			Where(sq.Eq{"id": id}))
}

func (s *PostgresStore) update(ctx context.Context, field string, builder sq.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s update: %w", field, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		s.debug("update touched no rows", "field", field)
	}
	return nil
}

// CountArticles returns the total number of stored articles.
func (s *PostgresStore) CountArticles(ctx context.Context) (int64, error) {
	query, _, err := psql.Select("COUNT(*)").From("articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := s.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
