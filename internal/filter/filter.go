package filter

import (
	"strings"
	"time"

	"github.com/maine/vc_radar/internal/config"
	"github.com/maine/vc_radar/internal/news"
)

// Filter отсеивает ссылки по ключевым словам заголовка и, опционально, по возрасту.
type Filter struct {
	keywords []string
	maxAge   time.Duration
}

// New создаёт экземпляр фильтра.
func New(cfg config.Filters) *Filter {
	keywords := make([]string, 0, len(cfg.IncludeTitleAny))
	for _, k := range cfg.IncludeTitleAny {
		keywords = append(keywords, strings.ToLower(k))
	}

	var maxAge time.Duration
	if cfg.MaxAgeDays > 0 {
		maxAge = time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	}

	return &Filter{keywords: keywords, maxAge: maxAge}
}

// Keep решает, оставлять ли ссылку.
func (f *Filter) Keep(item news.CandidateItem, now time.Time) bool {
	if !KeepByKeywords(item.Title, f.keywords) {
		return false
	}
	return Recent(item.Date, now, f.maxAge)
}

// KeepByKeywords: пустой список пропускает всё, иначе заголовок
// в нижнем регистре должен содержать хотя бы одно ключевое слово.
// Ключевые слова ожидаются уже в нижнем регистре.
func KeepByKeywords(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	t := strings.ToLower(title)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// Recent отсекает только датированные ссылки старше maxAge.
// Без даты или при maxAge <= 0 ссылка остаётся; даты из будущего тоже остаются.
func Recent(date *time.Time, now time.Time, maxAge time.Duration) bool {
	if date == nil || maxAge <= 0 {
		return true
	}
	return !date.Before(now.Add(-maxAge))
}
