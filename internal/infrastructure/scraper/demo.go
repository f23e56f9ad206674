package scraper

import (
	"context"

	"TravelPublisher/internal/domain"
)

// DemoStrategy seeds a handful of synthetic articles so the pipeline has
// material to exercise when the live source yields nothing. It is opt-in
// via configuration and never runs while real strategies produce items.
type DemoStrategy struct{}

func NewDemoStrategy() *DemoStrategy {
	return &DemoStrategy{}
}

func (d *DemoStrategy) Name() string {
	return "demo"
}

func (d *DemoStrategy) Discover(_ context.Context) ([]domain.RawItem, error) {
	return []domain.RawItem{
		{
			Title:   "Best tours of Berlin: exploring the German capital",
			URL:     "https://www.levitin.de/berlin-tours",
			Summary: "Berlin blends a layered history with a restless modern culture. Our guided tours cover the landmarks and the places locals actually go.",
			Body: "Berlin is the capital of Germany and one of Europe's most rewarding cities to walk. " +
				"The Brandenburg Gate, the Reichstag, and the remnants of the Wall tell the city's complicated past, " +
				"while its galleries and nightlife show where it is heading. Our tours combine the major sights with " +
				"neighbourhoods known mostly to residents, led by guides who live there.",
		},
		{
			Title:   "A romantic escape to the Bavarian Alps",
			URL:     "https://www.levitin.de/bavaria-tours",
			Summary: "Discover dramatic alpine scenery and storybook villages on our exclusive Bavaria itineraries.",
			Body: "Bavaria is famous for its mountain landscapes, traditional architecture, and hospitality. " +
				"The trip takes in Neuschwanstein Castle, historic Munich, and quiet alpine villages, with tastings " +
				"of regional food and drink along the way. Group and private departures can be adapted to your interests.",
		},
		{
			Title:   "Rhine river cruise: wine country and medieval castles",
			URL:     "https://www.levitin.de/rhine-cruise",
			Summary: "Sail one of Europe's great rivers past terraced vineyards, fortress ruins, and UNESCO-listed valley towns.",
			Body: "The Rhine flows past some of the most scenic country in Germany. The cruise begins in Cologne " +
				"beneath its gothic cathedral and continues through the Upper Middle Rhine Valley, passing the " +
				"Lorelei rock and the wine towns of Ruedesheim and Bacharach. Each day mixes river views, tastings, " +
				"and time ashore in towns that have traded on the river for centuries.",
		},
	}, nil
}
