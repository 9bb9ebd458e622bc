package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maine/vc_radar/internal/news"
)

// Slack отправляет Block Kit сообщение во входящий вебхук.
type Slack struct {
	webhookURL string
	maxItems   int
	client     *http.Client
}

// NewSlack создаёт уведомитель. Пустой webhookURL делает Notify no-op.
func NewSlack(webhookURL string, maxItems int, client *http.Client) *Slack {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Slack{webhookURL: strings.TrimSpace(webhookURL), maxItems: maxItems, client: client}
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

// Notify реализует Notifier.
func (s *Slack) Notify(ctx context.Context, items []news.CandidateItem) error {
	if s.webhookURL == "" || len(items) == 0 {
		return nil
	}

	data, err := json.Marshal(buildSlackPayload(items, s.maxItems))
	if err != nil {
		return fmt.Errorf("slack: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack: webhook status %d", resp.StatusCode)
	}
	return nil
}

func buildSlackPayload(items []news.CandidateItem, max int) slackPayload {
	blocks := []slackBlock{
		section(fmt.Sprintf("*%s* found %d new items", headerTitle, len(items))),
	}
	for _, it := range capItems(items, max) {
		blocks = append(blocks,
			section(fmt.Sprintf("• <%s|%s> — _%s_", it.URL, slackEscape(it.Title), slackEscape(it.Firm))),
			slackBlock{Type: "divider"},
		)
	}
	return slackPayload{Blocks: blocks}
}

func section(text string) slackBlock {
	return slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}}
}

// slackEscape экранирует управляющие символы mrkdwn.
func slackEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
