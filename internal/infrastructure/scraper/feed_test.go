package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Travel News</title>
    <item>
      <title>New winter tours announced</title>
      <link>https://www.levitin.de/news/winter-tours</link>
      <description>The winter programme adds three alpine destinations.</description>
    </item>
    <item>
      <title>Office closed on public holiday</title>
      <link>https://www.levitin.de/news/holiday</link>
      <description>We are back the next morning.</description>
    </item>
  </channel>
</rss>`

func TestFeedStrategyDiscover(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer server.Close()

	strategy := NewFeedStrategy(server.URL)
	items, err := strategy.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "New winter tours announced", items[0].Title)
	assert.Equal(t, "https://www.levitin.de/news/winter-tours", items[0].URL)
	assert.Equal(t, "The winter programme adds three alpine destinations.", items[0].Summary)
}

func TestFeedStrategyDiscover_NoURLConfigured(t *testing.T) {
	t.Parallel()

	strategy := NewFeedStrategy("")
	items, err := strategy.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
