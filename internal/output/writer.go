// Package output пишет результаты прогона: Markdown-дайджест, latest.json и latest.xml.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/feeds"

	"github.com/maine/vc_radar/internal/news"
)

const (
	latestJSONName = "latest.json"
	latestFeedName = "latest.xml"
	feedTitle      = "VC Investment Radar"
)

// Latest - содержимое latest.json.
type Latest struct {
	GeneratedAt string               `json:"generated_at"`
	RunID       string               `json:"run_id"`
	NewItems    []news.CandidateItem `json:"new_items"`
}

// Writer пишет файлы в каталог результатов. Ошибки записи возвращаются вызывающему.
type Writer struct {
	dir      string
	maxItems int
}

// NewWriter создаёт writer; maxItems ограничивает latest.json и latest.xml.
func NewWriter(dir string, maxItems int) *Writer {
	return &Writer{dir: dir, maxItems: maxItems}
}

// DigestPath возвращает путь дайджеста за дату YYYY-MM-DD.
func (w *Writer) DigestPath(date string) string {
	return filepath.Join(w.dir, fmt.Sprintf("digest_%s.md", date))
}

// WriteDigest перезаписывает дайджест за дату.
func (w *Writer) WriteDigest(date, markdown string) (string, error) {
	path := w.DigestPath(date)
	if err := writeFileAtomic(path, []byte(markdown)); err != nil {
		return "", fmt.Errorf("write digest: %w", err)
	}
	return path, nil
}

// WriteLatest пишет latest.json с первыми maxItems новыми ссылками.
func (w *Writer) WriteLatest(now time.Time, runID string, items []news.CandidateItem) error {
	latest := Latest{
		GeneratedAt: now.UTC().Format(time.RFC3339Nano),
		RunID:       runID,
		NewItems:    w.capped(items),
	}

	data, err := json.MarshalIndent(latest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal latest: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(w.dir, latestJSONName), data); err != nil {
		return fmt.Errorf("write latest: %w", err)
	}
	return nil
}

// WriteFeed пишет latest.xml (RSS 2.0) из тех же ссылок, что и latest.json.
func (w *Writer) WriteFeed(now time.Time, items []news.CandidateItem) error {
	feed := &feeds.Feed{
		Title:       feedTitle,
		Link:        &feeds.Link{Href: ""},
		Description: "New links from tracked venture firms",
		Created:     now.UTC(),
	}

	for _, item := range w.capped(items) {
		created := now.UTC()
		if item.Date != nil {
			created = *item.Date
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.URL},
			Source:      &feeds.Link{Href: item.SourceURL},
			Author:      &feeds.Author{Name: item.Firm},
			Description: item.Firm,
			Id:          item.URL,
			Created:     created,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("render feed: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(w.dir, latestFeedName), []byte(rss)); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

func (w *Writer) capped(items []news.CandidateItem) []news.CandidateItem {
	if items == nil {
		return []news.CandidateItem{}
	}
	if w.maxItems > 0 && len(items) > w.maxItems {
		return items[:w.maxItems]
	}
	return items
}

// writeFileAtomic пишет через временный файл и rename, создавая каталог.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
