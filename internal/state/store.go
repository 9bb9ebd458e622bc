package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maine/vc_radar/internal/logging"
	"github.com/maine/vc_radar/internal/news"
)

// firstSeenLayouts - форматы first_seen, которые встречаются в старых файлах
// (ISO-8601 без часового пояса трактуется как UTC).
var firstSeenLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type fileState struct {
	Seen map[string]fileRecord `json:"seen"`
}

type fileRecord struct {
	Title     string `json:"title"`
	FirstSeen string `json:"first_seen"`
}

// FileStore хранит seen-store в JSON-файле.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore создаёт новый файловый стор.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logging.OrDefault(logger)}
}

// Path возвращает путь к файлу состояния.
func (s *FileStore) Path() string {
	return s.path
}

// Load читает состояние из файла. Отсутствующий, нечитаемый или повреждённый
// файл даёт пустой стор: прогон продолжается с чистого листа.
func (s *FileStore) Load(ctx context.Context) (*Seen, error) {
	_ = ctx

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("state file unreadable, starting empty", "path", s.path, "error", err)
		}
		return NewSeen(), nil
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		// Повреждённый файл сохраняем рядом для диагностики.
		brokenPath := s.path + ".broken"
		_ = os.WriteFile(brokenPath, data, 0644)
		s.logger.Warn("state file corrupted, starting empty", "path", s.path, "broken", brokenPath, "error", err)
		return NewSeen(), nil
	}

	seen := NewSeen()
	for id, rec := range st.Seen {
		seen.records[id] = news.SeenRecord{
			Title:     rec.Title,
			FirstSeen: parseFirstSeen(rec.FirstSeen),
		}
	}
	return seen, nil
}

// Save записывает состояние в файл атомарно (через временный файл).
func (s *FileStore) Save(ctx context.Context, seen *Seen) error {
	_ = ctx

	st := fileState{Seen: make(map[string]fileRecord, seen.Len())}
	for id, rec := range seen.records {
		st.Seen[id] = fileRecord{
			Title:     rec.Title,
			FirstSeen: rec.FirstSeen.UTC().Format(time.RFC3339Nano),
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp state file: %w", err)
	}

	return nil
}

// parseFirstSeen возвращает нулевое время для нераспознанных значений:
// такие записи считаются самыми старыми и уходят первыми при сокращении.
func parseFirstSeen(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range firstSeenLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
