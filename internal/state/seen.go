package state

import (
	"sort"
	"time"

	"github.com/maine/vc_radar/internal/news"
)

// DefaultTrimLimit - размер, после которого seen-store сокращается вдвое.
const DefaultTrimLimit = 5000

// Seen - множество уже принятых ссылок: id -> запись о первом появлении.
// Не потокобезопасен: пайплайн работает в одном потоке.
type Seen struct {
	records map[string]news.SeenRecord
}

// NewSeen создаёт пустое множество.
func NewSeen() *Seen {
	return &Seen{records: make(map[string]news.SeenRecord)}
}

// Contains сообщает, встречался ли id раньше.
func (s *Seen) Contains(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Get возвращает запись по id.
func (s *Seen) Get(id string) (news.SeenRecord, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Record добавляет запись. Повторный вызов для того же id ничего не меняет:
// first_seen фиксируется один раз.
func (s *Seen) Record(id, title string, now time.Time) {
	if _, ok := s.records[id]; ok {
		return
	}
	s.records[id] = news.SeenRecord{Title: title, FirstSeen: now.UTC()}
}

// Len возвращает количество записей.
func (s *Seen) Len() int {
	return len(s.records)
}

// TrimIfOversized при превышении limit оставляет более позднюю половину записей
// (по first_seen) и возвращает количество удалённых.
// Это полная пересортировка за O(n log n), а не вытеснение по одному.
func (s *Seen) TrimIfOversized(limit int) int {
	n := len(s.records)
	if limit <= 0 || n <= limit {
		return 0
	}

	ids := make([]string, 0, n)
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.records[ids[i]], s.records[ids[j]]
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return ids[i] < ids[j]
	})

	drop := n - n/2
	for _, id := range ids[:drop] {
		delete(s.records, id)
	}
	return drop
}
