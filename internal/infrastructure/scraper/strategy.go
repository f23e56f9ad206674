package scraper

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"TravelPublisher/internal/domain"
	"TravelPublisher/internal/ports"
)

// minTitleLength filters out link fragments and navigation noise.
const minTitleLength = 5

// Strategy is a single acquisition technique (feed, rendered page, demo seed).
type Strategy interface {
	Name() string
	Discover(ctx context.Context) ([]domain.RawItem, error)
}

// ChainSource runs the configured strategies in order and aggregates their
// items. A failing strategy is logged and skipped, never fatal. The demo
// strategy, when present, runs only if every real strategy came back empty.
type ChainSource struct {
	strategies []Strategy
	demo       Strategy
	logger     *slog.Logger
}

var _ ports.ArticleSource = (*ChainSource)(nil)

// NewChainSource wires the acquisition strategies; demo may be nil.
func NewChainSource(strategies []Strategy, demo Strategy, logger *slog.Logger) *ChainSource {
	return &ChainSource{strategies: strategies, demo: demo, logger: logger}
}

// Discover aggregates candidate items across all strategies, dropping
// too-short titles and within-run duplicates.
func (c *ChainSource) Discover(ctx context.Context) ([]domain.RawItem, error) {
	var collected []domain.RawItem
	seen := map[string]struct{}{}

	for _, strategy := range c.strategies {
		items, err := strategy.Discover(ctx)
		if err != nil {
			c.log().Warn("strategy failed", "strategy", strategy.Name(), "error", err)
			continue
		}
		c.log().Debug("strategy produced items", "strategy", strategy.Name(), "count", len(items))
		collected = append(collected, keep(items, seen)...)
	}

	if len(collected) == 0 && c.demo != nil {
		c.log().Warn("no items discovered, seeding demo articles", "strategy", c.demo.Name())
		items, err := c.demo.Discover(ctx)
		if err != nil {
			return nil, err
		}
		collected = keep(items, seen)
	}

	return collected, nil
}

func keep(items []domain.RawItem, seen map[string]struct{}) []domain.RawItem {
	var kept []domain.RawItem
	for _, item := range items {
		if utf8.RuneCountInString(item.Title) < minTitleLength {
			continue
		}

		key := item.URL
		if key == "" {
			key = item.Title
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

func (c *ChainSource) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
