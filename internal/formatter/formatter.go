package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maine/vc_radar/internal/news"
)

const (
	// digestTitle - заголовок Markdown-дайджеста.
	digestTitle = "VC Investment Radar"
	// noFirm - группа для ссылок без фирмы.
	noFirm = "other"
)

// Formatter собирает дайджест новых ссылок и рендерит его в Markdown.
type Formatter struct{}

// NewFormatter создаёт новый экземпляр форматтера.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Build сортирует ссылки по (фирма, заголовок без учёта регистра) и группирует по фирмам.
// Входной срез не изменяется.
func (f *Formatter) Build(date string, items []news.CandidateItem) news.Digest {
	digest := news.Digest{Date: date}
	if len(items) == 0 {
		return digest
	}

	sorted := SortItems(items)
	for _, item := range sorted {
		firm := item.Firm
		if firm == "" {
			firm = noFirm
		}
		last := len(digest.Groups) - 1
		if last < 0 || digest.Groups[last].Firm != firm {
			digest.Groups = append(digest.Groups, news.DigestGroup{Firm: firm})
			last++
		}
		digest.Groups[last].Items = append(digest.Groups[last].Items, item)
	}

	return digest
}

// Render превращает дайджест в Markdown: заголовок с датой, раздел на фирму,
// строка на ссылку.
func (f *Formatter) Render(d news.Digest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s — %s\n", digestTitle, d.Date))

	for _, group := range d.Groups {
		sb.WriteString(fmt.Sprintf("\n## %s\n\n", group.Firm))
		for _, item := range group.Items {
			sb.WriteString(fmt.Sprintf("- [%s](%s)\n", escapeLinkText(item.Title), item.URL))
		}
	}

	return sb.String()
}

// SortItems возвращает копию, упорядоченную по (фирма, заголовок в нижнем регистре).
// Сортировка стабильная: при равных ключах порядок обнаружения сохраняется.
func SortItems(items []news.CandidateItem) []news.CandidateItem {
	sorted := make([]news.CandidateItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Firm != sorted[j].Firm {
			return sorted[i].Firm < sorted[j].Firm
		}
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})
	return sorted
}

// escapeLinkText экранирует квадратные скобки, ломающие Markdown-ссылку.
func escapeLinkText(s string) string {
	r := strings.NewReplacer("[", `\[`, "]", `\]`)
	return r.Replace(s)
}
