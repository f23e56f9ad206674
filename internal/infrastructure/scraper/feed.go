package scraper

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"TravelPublisher/internal/domain"
)

// FeedStrategy ingests the site's RSS/Atom feed, the structured path that
// is tried before any page scraping.
type FeedStrategy struct {
	parser  *gofeed.Parser
	feedURL string
}

// NewFeedStrategy builds a feed-backed strategy; feedURL may be empty, in
// which case the strategy yields nothing.
func NewFeedStrategy(feedURL string) *FeedStrategy {
	parser := gofeed.NewParser()
	parser.UserAgent = "TravelPublisher/1.0"
	return &FeedStrategy{parser: parser, feedURL: feedURL}
}

func (f *FeedStrategy) Name() string {
	return "feed"
}

// Discover parses the feed and maps its entries to candidate items.
func (f *FeedStrategy) Discover(ctx context.Context) ([]domain.RawItem, error) {
	if f.feedURL == "" {
		return nil, nil
	}

	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.feedURL, err)
	}

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, domain.RawItem{
			Title:   entry.Title,
			URL:     entry.Link,
			Summary: entry.Description,
			Body:    entry.Content,
		})
	}

	return items, nil
}
