package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/maine/vc_radar/internal/news"
	"github.com/maine/vc_radar/internal/telegram"
)

// Telegram отправляет то же уведомление одним HTML-сообщением в чат.
type Telegram struct {
	client   telegram.TelegramClient
	chatID   string
	maxItems int
}

// NewTelegram создаёт уведомитель. Без клиента или chatID Notify - no-op.
func NewTelegram(client telegram.TelegramClient, chatID string, maxItems int) *Telegram {
	return &Telegram{client: client, chatID: strings.TrimSpace(chatID), maxItems: maxItems}
}

// Notify реализует Notifier.
func (t *Telegram) Notify(ctx context.Context, items []news.CandidateItem) error {
	if t.client == nil || t.chatID == "" || len(items) == 0 {
		return nil
	}
	if err := t.client.SendMessage(ctx, t.chatID, buildTelegramText(items, t.maxItems), "HTML"); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

func buildTelegramText(items []news.CandidateItem, max int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b> found %d new items\n", headerTitle, len(items)))
	for _, it := range capItems(items, max) {
		sb.WriteString(fmt.Sprintf("\n• <a href=\"%s\">%s</a> — <i>%s</i>",
			html.EscapeString(it.URL), html.EscapeString(it.Title), html.EscapeString(it.Firm)))
	}
	return sb.String()
}
