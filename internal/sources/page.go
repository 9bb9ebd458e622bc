package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/maine/vc_radar/internal/news"
	"github.com/maine/vc_radar/internal/urlnorm"
)

const (
	// DefaultMaxLinks - сколько ссылок максимум берём с одной страницы.
	DefaultMaxLinks = 40
	pageAccept      = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// PageExtractor достаёт ссылки на материалы со страниц News/Press.
//
// Если на странице есть блоки <article>, из каждого берётся первая ссылка
// (структурный режим). Иначе просматриваются все ссылки основной области
// (<main>, div[role=main] или весь документ) и остаются только ссылки
// на том же хосте с «новостным» путём (fallback-режим).
type PageExtractor struct {
	fetcher
	rules    Rules
	maxLinks int
}

// NewPageExtractor создаёт экстрактор страниц. maxLinks <= 0 означает DefaultMaxLinks,
// rules == nil - DefaultRules().
func NewPageExtractor(client *http.Client, userAgent string, maxLinks int, rules *Rules) *PageExtractor {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	r := DefaultRules()
	if rules != nil {
		r = *rules
	}
	return &PageExtractor{
		fetcher:  newFetcher(client, userAgent),
		rules:    r,
		maxLinks: maxLinks,
	}
}

// Extract реализует Extractor.
func (e *PageExtractor) Extract(ctx context.Context, pageURL string) Result {
	src := news.Source{Kind: news.SourcePage, URL: pageURL}

	resp, err := e.get(ctx, pageURL, pageAccept)
	if err != nil {
		return failed(src, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failed(src, fmt.Errorf("parse document: %w", err))
	}

	items, err := e.extractLinks(doc, pageURL)
	if err != nil {
		return failed(src, err)
	}
	return Result{Source: src, Items: items}
}

type link struct {
	title string
	url   string
}

func (e *PageExtractor) extractLinks(doc *goquery.Document, pageURL string) ([]news.CandidateItem, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}
	base := &url.URL{Scheme: page.Scheme, Host: page.Host}

	var links []link
	if articles := doc.Find("article"); articles.Length() > 0 {
		links = e.structuralLinks(articles, base)
	} else {
		links = e.fallbackLinks(mainRegion(doc), base)
	}

	seen := make(map[string]struct{}, len(links))
	out := make([]news.CandidateItem, 0, min(len(links), e.maxLinks))
	for _, l := range links {
		if _, ok := seen[l.url]; ok {
			continue
		}
		seen[l.url] = struct{}{}
		out = append(out, news.CandidateItem{
			Title:     l.title,
			URL:       l.url,
			SourceURL: pageURL,
		})
		if len(out) >= e.maxLinks {
			break
		}
	}
	return out, nil
}

// structuralLinks берёт первую ссылку каждого <article>; хост не проверяется.
func (e *PageExtractor) structuralLinks(articles *goquery.Selection, base *url.URL) []link {
	var links []link
	articles.Each(func(_ int, art *goquery.Selection) {
		a := art.Find("a[href]").First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		title := collapseSpace(a.Text())
		if e.rules.IsNav(title, href) {
			return
		}

		resolved, ok := resolve(base, href)
		if title == "" || !ok {
			return
		}
		links = append(links, link{title: title, url: resolved})
	})
	return links
}

func (e *PageExtractor) fallbackLinks(region *goquery.Selection, base *url.URL) []link {
	var links []link
	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := collapseSpace(a.Text())
		if e.rules.IsNav(title, href) {
			return
		}
		if utf8.RuneCountInString(title) < e.rules.MinTextLen {
			return
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
			return
		}

		resolved, ok := resolve(base, href)
		if !ok {
			return
		}
		u, err := parseLoose(resolved)
		if err != nil || !strings.EqualFold(u.Host, base.Host) {
			return
		}
		if !e.rules.IsNewsyPath(u.Path) {
			return
		}
		links = append(links, link{title: title, url: resolved})
	})
	return links
}

// mainRegion: <main>, затем div[role=main], затем весь документ.
func mainRegion(doc *goquery.Document) *goquery.Selection {
	if m := doc.Find("main").First(); m.Length() > 0 {
		return m
	}
	if m := doc.Find(`div[role="main"]`).First(); m.Length() > 0 {
		return m
	}
	return doc.Selection
}

// resolve делает ссылку абсолютной относительно scheme://host страницы и нормализует её.
func resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "http") {
		return urlnorm.Normalize(href), true
	}
	normalized := urlnorm.Normalize(href)
	ref, err := url.Parse(normalized)
	if err != nil {
		// битый %-escape: Normalize вернул href как есть, склеиваем вручную
		if !strings.HasPrefix(normalized, "/") {
			normalized = base.Path[:strings.LastIndex(base.Path, "/")+1] + normalized
			if !strings.HasPrefix(normalized, "/") {
				normalized = "/" + normalized
			}
		}
		return base.Scheme + "://" + base.Host + normalized, true
	}
	return urlnorm.Normalize(base.ResolveReference(ref).String()), true
}

// parseLoose разбирает абсолютную ссылку, допуская битые %-escape:
// '%' экранируется до разбора, поэтому Host и Path совпадают с исходной строкой.
func parseLoose(raw string) (*url.URL, error) {
	if u, err := url.Parse(raw); err == nil {
		return u, nil
	}
	return url.Parse(strings.ReplaceAll(raw, "%", "%25"))
}
