// Package notify рассылает короткое уведомление о новых ссылках.
package notify

import (
	"context"
	"errors"

	"github.com/maine/vc_radar/internal/news"
)

// DefaultMaxItems - сколько ссылок попадает в одно уведомление.
const DefaultMaxItems = 15

const headerTitle = "VC Investment Radar"

// Notifier доставляет уведомление о новых ссылках.
// Пустой список - не ошибка и не повод что-то отправлять.
type Notifier interface {
	Notify(ctx context.Context, items []news.CandidateItem) error
}

// Multi по очереди вызывает все уведомители и объединяет их ошибки.
type Multi []Notifier

// Notify реализует Notifier.
func (m Multi) Notify(ctx context.Context, items []news.CandidateItem) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, items); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func capItems(items []news.CandidateItem, max int) []news.CandidateItem {
	if max <= 0 {
		max = DefaultMaxItems
	}
	if len(items) > max {
		return items[:max]
	}
	return items
}
