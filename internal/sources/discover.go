package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// feedLinkTypes - MIME-типы в <link rel="alternate">, которые считаем лентами.
var feedLinkTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/feed+json",
}

// feedPathMarkers - признаки ленты в пути ссылки.
var feedPathMarkers = []string{"/rss", "/feed", ".rss", ".xml", "/atom"}

// Discoverer ищет ленты на HTML-странице фирмы, чтобы перевести её из pages в rss.
type Discoverer struct {
	fetcher
	parser *gofeed.Parser
}

// NewDiscoverer создаёт поисковик лент.
func NewDiscoverer(client *http.Client, userAgent string) *Discoverer {
	return &Discoverer{
		fetcher: newFetcher(client, userAgent),
		parser:  gofeed.NewParser(),
	}
}

// Candidates возвращает отсортированные адреса, похожие на ленты:
// объявленные через <link rel="alternate"> и ссылки <a> с признаками ленты в пути.
func (d *Discoverer) Candidates(ctx context.Context, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid page url %s: missing host", pageURL)
	}

	resp, err := d.get(ctx, pageURL, pageAccept)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	found := make(map[string]struct{})
	doc.Find(`link[rel="alternate"][href]`).Each(func(_ int, s *goquery.Selection) {
		typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		for _, t := range feedLinkTypes {
			if typ == t {
				if u, ok := resolve(base, s.AttrOr("href", "")); ok {
					found[u] = struct{}{}
				}
				return
			}
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || !looksLikeFeed(href) {
			return
		}
		if u, ok := resolve(base, href); ok {
			found[u] = struct{}{}
		}
	})

	out := make([]string, 0, len(found))
	for u := range found {
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

// Verify скачивает кандидата и проверяет, что это разбираемая лента хотя бы с одной записью.
func (d *Discoverer) Verify(ctx context.Context, feedURL string) bool {
	resp, err := d.get(ctx, feedURL, feedAccept)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	feed, err := d.parser.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	return err == nil && len(feed.Items) > 0
}

// Discover возвращает только подтверждённые ленты страницы.
func (d *Discoverer) Discover(ctx context.Context, pageURL string) ([]string, error) {
	candidates, err := d.Candidates(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	feeds := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if d.Verify(ctx, c) {
			feeds = append(feeds, c)
		}
	}
	return feeds, nil
}

func looksLikeFeed(href string) bool {
	lower := strings.ToLower(href)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, m := range feedPathMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
