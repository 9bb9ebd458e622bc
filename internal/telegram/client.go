package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramClient определяет интерфейс для работы с Telegram Bot API.
// Это позволяет легко создавать моки для тестирования.
type TelegramClient interface {
	SendMessage(ctx context.Context, chatID string, text string, parseMode string) error
}

// Client инкапсулирует работу с Telegram Bot API.
type Client struct {
	client *http.Client
	apiURL string
}

// Убеждаемся, что Client реализует интерфейс TelegramClient.
var _ TelegramClient = (*Client)(nil)

// NewClient создаёт клиента. token обязателен.
func NewClient(token string) *Client {
	return NewClientWithBase(defaultAPIBase, token, nil)
}

// NewClientWithBase создаёт клиента с произвольным адресом API (для тестов и прокси).
func NewClientWithBase(base, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		client: httpClient,
		apiURL: fmt.Sprintf("%s/bot%s", strings.TrimSuffix(base, "/"), token),
	}
}

// SendMessage отправляет текстовое сообщение.
func (c *Client) SendMessage(ctx context.Context, chatID string, text string, parseMode string) error {
	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}

	return c.post(ctx, "sendMessage", payload)
}

func (c *Client) post(ctx context.Context, method string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telegram api status %d", resp.StatusCode)
	}

	return nil
}
