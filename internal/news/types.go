package news

import "time"

// SourceKind различает RSS-ленты и HTML-страницы со списком новостей.
type SourceKind string

const (
	SourceFeed SourceKind = "rss"
	SourcePage SourceKind = "page"
)

// Source описывает один источник фирмы.
type Source struct {
	Firm string     `json:"firm"`
	Kind SourceKind `json:"kind"`
	URL  string     `json:"url"`
}

// CandidateItem описывает ссылку сразу после извлечения из источника.
// Date == nil, если источник не сообщает дату публикации.
type CandidateItem struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	SourceURL string     `json:"source_url"`
	Firm      string     `json:"firm"`
	Date      *time.Time `json:"date"`
}

// SeenRecord - запись о ранее принятой ссылке.
type SeenRecord struct {
	Title     string    `json:"title"`
	FirstSeen time.Time `json:"first_seen"`
}

// DigestGroup - блок дайджеста одной фирмы.
type DigestGroup struct {
	Firm  string
	Items []CandidateItem
}

// Digest - итоговое представление новых ссылок за один запуск.
type Digest struct {
	Date   string
	Groups []DigestGroup
}

// Empty сообщает, что в дайджесте нет ни одной ссылки.
func (d Digest) Empty() bool {
	return len(d.Groups) == 0
}

// Total возвращает количество ссылок во всех группах.
func (d Digest) Total() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Items)
	}
	return n
}
