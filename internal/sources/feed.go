package sources

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/maine/vc_radar/internal/news"
	"github.com/maine/vc_radar/internal/urlnorm"
)

const feedAccept = "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml, */*"

// createdNamespaces - префиксы расширений, в которых ищем поле created.
var createdNamespaces = []string{"dcterms", "dc", "atom"}

// dateLayouts - форматы дат, которые встречаются в полях-расширениях лент.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 02 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FeedExtractor разбирает RSS/Atom/JSON-ленты.
type FeedExtractor struct {
	fetcher
	parser *gofeed.Parser
	policy *bluemonday.Policy
}

// NewFeedExtractor создаёт экстрактор лент. nil client заменяется клиентом с таймаутом 20s.
func NewFeedExtractor(client *http.Client, userAgent string) *FeedExtractor {
	return &FeedExtractor{
		fetcher: newFetcher(client, userAgent),
		parser:  gofeed.NewParser(),
		policy:  bluemonday.StrictPolicy(),
	}
}

// Extract реализует Extractor.
func (e *FeedExtractor) Extract(ctx context.Context, feedURL string) Result {
	src := news.Source{Kind: news.SourceFeed, URL: feedURL}

	resp, err := e.get(ctx, feedURL, feedAccept)
	if err != nil {
		return failed(src, err)
	}
	defer resp.Body.Close()

	feed, err := e.parser.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failed(src, fmt.Errorf("parse feed: %w", err))
	}

	return Result{Source: src, Items: e.itemsFromFeed(feed, feedURL)}
}

func (e *FeedExtractor) itemsFromFeed(feed *gofeed.Feed, feedURL string) []news.CandidateItem {
	items := make([]news.CandidateItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}

		link := strings.TrimSpace(it.Link)
		if link == "" {
			link = strings.TrimSpace(it.GUID)
		}
		link = urlnorm.Normalize(link)
		title := e.cleanTitle(it.Title)
		if link == "" || title == "" {
			continue
		}

		items = append(items, news.CandidateItem{
			Title:     title,
			URL:       link,
			SourceURL: feedURL,
			Date:      itemDate(it),
		})
	}
	return items
}

// cleanTitle убирает HTML-разметку, которую некоторые ленты кладут в заголовки.
func (e *FeedExtractor) cleanTitle(title string) string {
	if strings.ContainsAny(title, "<&") {
		title = html.UnescapeString(e.policy.Sanitize(title))
	}
	return collapseSpace(title)
}

// itemDate: published → updated → created; nil, если даты нет.
func itemDate(it *gofeed.Item) *time.Time {
	for _, t := range []*time.Time{it.PublishedParsed, it.UpdatedParsed} {
		if t != nil && !t.IsZero() {
			utc := t.UTC()
			return &utc
		}
	}

	for _, ns := range createdNamespaces {
		for _, ext := range it.Extensions[ns]["created"] {
			if t, ok := parseDate(ext.Value); ok {
				return &t
			}
		}
	}
	return nil
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
