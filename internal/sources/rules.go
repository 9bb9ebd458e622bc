package sources

import "strings"

// Rules - подменяемые таблицы эвристик для извлечения ссылок со страниц.
type Rules struct {
	// NavWords - тексты ссылок (в нижнем регистре), которые считаются навигацией.
	NavWords map[string]struct{}
	// NavHrefMarkers - подстроки href (в нижнем регистре), выдающие служебные ссылки.
	NavHrefMarkers []string
	// NewsySegments - фрагменты пути, без которых ссылка в fallback-режиме не берётся.
	NewsySegments []string
	// MinTextLen - минимальная длина текста ссылки (в символах) в fallback-режиме.
	MinTextLen int
}

// DefaultRules возвращает стандартный набор правил.
func DefaultRules() Rules {
	return Rules{
		NavWords: wordSet(
			"about", "careers", "jobs", "contact", "newsletter", "subscribe", "privacy",
			"terms", "press", "team", "portfolio", "companies", "submit", "search",
		),
		NavHrefMarkers: []string{
			"#", "/privacy", "/terms", "/careers", "/jobs", "/contact",
			"/subscribe", "/login", "/signin", "/search", "mailto:", "tel:",
		},
		NewsySegments: []string{
			"/news", "/press", "/stories", "/insights", "/blog", "/perspectives", "/latest",
		},
		MinTextLen: 6,
	}
}

// IsNav сообщает, что ссылка - элемент навигации, а не материал.
func (r Rules) IsNav(text, href string) bool {
	if _, ok := r.NavWords[strings.ToLower(strings.TrimSpace(text))]; ok {
		return true
	}
	h := strings.ToLower(href)
	for _, marker := range r.NavHrefMarkers {
		if strings.Contains(h, marker) {
			return true
		}
	}
	return false
}

// IsNewsyPath сообщает, похож ли путь на раздел новостей.
func (r Rules) IsNewsyPath(path string) bool {
	p := strings.ToLower(path)
	for _, seg := range r.NewsySegments {
		if strings.Contains(p, seg) {
			return true
		}
	}
	return false
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
