package sources

import (
	"context"
	"strings"

	"github.com/maine/vc_radar/internal/config"
)

// Collector последовательно обходит источники всех фирм в порядке конфигурации.
type Collector struct {
	firms []config.Firm
	feeds Extractor
	pages Extractor
}

// NewCollector создаёт новый экземпляр.
func NewCollector(firms []config.Firm, feeds, pages Extractor) *Collector {
	return &Collector{firms: firms, feeds: feeds, pages: pages}
}

// Collect возвращает по одному Result на источник: сначала ленты фирмы, затем страницы.
// Ошибка источника остаётся в его Result и не прерывает обход.
func (c *Collector) Collect(ctx context.Context) []Result {
	var results []Result
	for _, firm := range c.firms {
		for _, feedURL := range nonEmpty(firm.RSS) {
			results = append(results, c.run(ctx, c.feeds, firm.Name, feedURL))
		}
		for _, pageURL := range nonEmpty(firm.Pages) {
			results = append(results, c.run(ctx, c.pages, firm.Name, pageURL))
		}
	}
	return results
}

func (c *Collector) run(ctx context.Context, ex Extractor, firm, sourceURL string) Result {
	res := ex.Extract(ctx, sourceURL)
	res.Source.Firm = firm
	for i := range res.Items {
		res.Items[i].Firm = firm
	}
	return res
}

func nonEmpty(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
