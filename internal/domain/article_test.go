package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestArticleStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		article Article
		want    Stage
	}{
		{"new", Article{}, StageNew},
		{"rewritten", Article{RewrittenText: ptr("text")}, StageRewritten},
		{"illustrated", Article{RewrittenText: ptr("text"), ImagePath: ptr("img.png")}, StageIllustrated},
		{"posted", Article{RewrittenText: ptr("text"), ImagePath: ptr("img.png"), IsPosted: true}, StagePosted},
		{"posted without image", Article{RewrittenText: ptr("text"), IsPosted: true}, StagePosted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.article.Stage())
		})
	}
}

func TestPublishableText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "original", Article{OriginalText: "original"}.PublishableText())
	assert.Equal(t, "rewritten", Article{OriginalText: "original", RewrittenText: ptr("rewritten")}.PublishableText())
	assert.Equal(t, "original", Article{OriginalText: "original", RewrittenText: ptr("")}.PublishableText())
}

func TestTooShort(t *testing.T) {
	t.Parallel()

	assert.True(t, Article{OriginalText: "  short  "}.TooShort())
	assert.False(t, Article{OriginalText: strings.Repeat("long enough text ", 5)}.TooShort())

	// The threshold is 50 characters, not bytes: 30 Cyrillic letters occupy
	// 60 bytes but are still too short to publish.
	assert.True(t, Article{OriginalText: strings.Repeat("п", 30)}.TooShort())
	assert.False(t, Article{OriginalText: strings.Repeat("п", 50)}.TooShort())
}

func TestRawItemOriginalText(t *testing.T) {
	t.Parallel()

	item := RawItem{Title: "Title", Summary: "  ", Body: "Body text"}
	assert.Equal(t, "Title\n\nBody text", item.OriginalText())

	assert.Equal(t, "Only title", RawItem{Title: "Only title"}.OriginalText())
}
