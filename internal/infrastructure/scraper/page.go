package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TravelPublisher/internal/config"
	"TravelPublisher/internal/domain"
)

var (
	headingSelectors = "h1, h2, h3, h4, h5, .title, .heading, .card-title"

	summarySelectors = []string{
		"p", ".description", ".preview-text", ".text", ".tour-description",
		".short-description", ".excerpt", ".summary", ".card-text",
		".content", ".teaser", ".subtitle",
	}

	detailSelectors = []string{
		".article-content", ".post-content", ".tour-description",
		".main-content", "article", ".text-content", ".description",
		".content", "main", ".entry-content", ".page-content",
		".news-content", "section", "div.container",
	}
)

// PageStrategy scrapes the site's rendered section pages with CSS selectors,
// the fallback path for content the feed does not carry.
type PageStrategy struct {
	client   *http.Client
	baseURL  string
	sections []config.SectionConfig
	logger   *slog.Logger
}

// NewPageStrategy wires an HTTP client; nil gets a sane default.
func NewPageStrategy(client *http.Client, src config.SourceConfig, logger *slog.Logger) *PageStrategy {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PageStrategy{
		client:   client,
		baseURL:  strings.TrimSuffix(src.BaseURL, "/"),
		sections: src.Sections,
		logger:   logger,
	}
}

func (p *PageStrategy) Name() string {
	return "page"
}

// Discover walks every configured section and extracts article cards.
// A failing section is logged and skipped so one broken page does not sink
// the whole run.
func (p *PageStrategy) Discover(ctx context.Context) ([]domain.RawItem, error) {
	var items []domain.RawItem

	for _, section := range p.sections {
		sectionURL := p.baseURL + "/" + strings.TrimPrefix(section.Path, "/")
		doc, err := p.fetchDocument(ctx, sectionURL)
		if err != nil {
			p.debug("section fetch failed", "url", sectionURL, "error", err)
			continue
		}

		doc.Find(section.Selector).Each(func(_ int, card *goquery.Selection) {
			item, ok := p.extractItem(card)
			if !ok {
				return
			}
			p.enrich(ctx, &item)
			items = append(items, item)
		})
	}

	return items, nil
}

func (p *PageStrategy) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TravelPublisher/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// extractItem pulls title, url, and summary out of one article card.
func (p *PageStrategy) extractItem(card *goquery.Selection) (domain.RawItem, bool) {
	var item domain.RawItem

	card.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return true
		}
		item.URL = p.absolutize(href)
		return false
	})

	card.Find(headingSelectors).EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.TrimSpace(heading.Text())
		if len(text) > 3 {
			item.Title = text
			return false
		}
		return true
	})
	if item.Title == "" {
		card.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			text := strings.TrimSpace(link.Text())
			if len(text) > 3 {
				item.Title = text
				return false
			}
			return true
		})
	}

	for _, selector := range summarySelectors {
		card.Find(selector).EachWithBreak(func(_ int, tag *goquery.Selection) bool {
			text := strings.TrimSpace(tag.Text())
			if len(text) > 10 && text != item.Title {
				item.Summary = text
				return false
			}
			return true
		})
		if item.Summary != "" {
			break
		}
	}
	if item.Summary == "" {
		if alt, ok := card.Find("img").First().Attr("alt"); ok {
			item.Summary = strings.TrimSpace(alt)
		}
	}

	if item.Title == "" || (item.URL == "" && item.Summary == "") {
		return domain.RawItem{}, false
	}
	return item, true
}

// enrich fetches the article's own page for same-domain urls and appends its
// paragraphs as the body. Best effort: the summary-only item survives any error.
func (p *PageStrategy) enrich(ctx context.Context, item *domain.RawItem) {
	if item.URL == "" || !strings.HasPrefix(item.URL, p.baseURL) {
		return
	}

	doc, err := p.fetchDocument(ctx, item.URL)
	if err != nil {
		p.debug("detail fetch failed", "url", item.URL, "error", err)
		return
	}

	for _, selector := range detailSelectors {
		content := doc.Find(selector).First()
		if content.Length() == 0 {
			continue
		}

		var paragraphs []string
		content.Find("p").Each(func(_ int, paragraph *goquery.Selection) {
			if text := strings.TrimSpace(paragraph.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			item.Body = strings.Join(paragraphs, "\n\n")
			p.debug("detail content found", "url", item.URL, "chars", len(item.Body))
			return
		}
	}
}

func (p *PageStrategy) absolutize(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return p.baseURL + "/" + strings.TrimPrefix(href, "/")
}

func (p *PageStrategy) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
