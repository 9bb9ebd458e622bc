// Package sources извлекает ссылки-кандидаты из RSS/Atom-лент и HTML-страниц фирм.
package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maine/vc_radar/internal/news"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 VC-Radar"
	maxBodyBytes     = 10 << 20
)

// ErrUnexpectedStatus - источник ответил не 2xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Result - итог обработки одного источника: либо ссылки, либо причина отказа.
type Result struct {
	Source news.Source
	Items  []news.CandidateItem
	Err    error
}

// OK сообщает, что источник обработан без ошибок.
func (r Result) OK() bool {
	return r.Err == nil
}

func failed(src news.Source, err error) Result {
	return Result{Source: src, Err: err}
}

// Extractor извлекает кандидатов из одного источника.
type Extractor interface {
	Extract(ctx context.Context, url string) Result
}

// fetcher - общий HTTP GET с User-Agent и проверкой статуса.
type fetcher struct {
	client    *http.Client
	userAgent string
}

func newFetcher(client *http.Client, userAgent string) fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return fetcher{client: client, userAgent: userAgent}
}

// get выполняет запрос; при успехе вызывающий обязан закрыть resp.Body.
func (f fetcher) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return resp, nil
}

// collapseSpace схлопывает пробельные символы и обрезает края.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
