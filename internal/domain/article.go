package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinPublishableLength is the shortest original text worth publishing.
// Anything below it is marked posted without running any stage.
const MinPublishableLength = 50

// Article is the central entity: one discovered piece of source content
// together with its processing state. The pipeline stage is derived from
// which fields are set rather than stored explicitly.
type Article struct {
	ID            int64
	OriginalText  string
	RewrittenText *string
	ImagePath     *string
	IsPosted      bool
	CreatedAt     time.Time
	PublishAt     time.Time
	SourceName    string
	Title         string
	Summary       string
	URL           string
}

// Stage is the derived pipeline position of an article.
type Stage string

const (
	StageNew         Stage = "new"
	StageRewritten   Stage = "rewritten"
	StageIllustrated Stage = "illustrated"
	StagePosted      Stage = "posted"
)

// Stage derives the current pipeline position from field null-ness.
func (a Article) Stage() Stage {
	switch {
	case a.IsPosted:
		return StagePosted
	case a.ImagePath != nil:
		return StageIllustrated
	case a.RewrittenText != nil:
		return StageRewritten
	default:
		return StageNew
	}
}

// PublishableText returns the rewritten text when present, the original otherwise.
func (a Article) PublishableText() string {
	if a.RewrittenText != nil && *a.RewrittenText != "" {
		return *a.RewrittenText
	}
	return a.OriginalText
}

// TooShort reports whether the source material falls under the quality gate.
// The threshold counts characters, not bytes, so non-Latin text measures the
// same as Latin text.
func (a Article) TooShort() bool {
	return utf8.RuneCountInString(strings.TrimSpace(a.OriginalText)) < MinPublishableLength
}

// RawItem is a candidate article produced by an ingestion strategy,
// before dedup and persistence.
type RawItem struct {
	Title   string
	URL     string
	Summary string
	Body    string
}

// OriginalText assembles the stored text from the discovered parts.
func (r RawItem) OriginalText() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.Title, r.Summary, r.Body} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, "\n\n")
}

// Post is the payload handed to the delivery provider.
type Post struct {
	Text      string
	ImagePath string
	URL       string
}
