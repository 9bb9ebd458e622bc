package filter

import (
	"testing"
	"time"

	"github.com/maine/vc_radar/internal/config"
	"github.com/maine/vc_radar/internal/news"
)

func TestKeepByKeywords(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		keywords []string
		want     bool
	}{
		{
			name:     "empty allow-list keeps everything",
			title:    "Acme hires new CFO",
			keywords: nil,
			want:     true,
		},
		{
			name:     "matching keyword",
			title:    "Acme raises $10M",
			keywords: []string{"funding", "raises"},
			want:     true,
		},
		{
			name:     "no matching keyword",
			title:    "Acme hires new CFO",
			keywords: []string{"funding", "raises"},
			want:     false,
		},
		{
			name:     "case insensitive title",
			title:    "SERIES A FUNDING for Beta",
			keywords: []string{"funding"},
			want:     true,
		},
		{
			name:     "substring match",
			title:    "Fundraising update",
			keywords: []string{"fund"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeepByKeywords(tt.title, tt.keywords); got != tt.want {
				t.Errorf("KeepByKeywords(%q, %v) = %v, want %v", tt.title, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-200 * 24 * time.Hour)
	fresh := now.Add(-24 * time.Hour)
	future := now.Add(48 * time.Hour)
	maxAge := 180 * 24 * time.Hour

	tests := []struct {
		name   string
		date   *time.Time
		maxAge time.Duration
		want   bool
	}{
		{name: "no date kept", date: nil, maxAge: maxAge, want: true},
		{name: "disabled keeps old", date: &old, maxAge: 0, want: true},
		{name: "old dropped", date: &old, maxAge: maxAge, want: false},
		{name: "fresh kept", date: &fresh, maxAge: maxAge, want: true},
		{name: "future kept", date: &future, maxAge: maxAge, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recent(tt.date, now, tt.maxAge); got != tt.want {
				t.Errorf("Recent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Keep(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -30)

	f := New(config.Filters{IncludeTitleAny: []string{"Raises"}, MaxAgeDays: 7})

	tests := []struct {
		name string
		item news.CandidateItem
		want bool
	}{
		{name: "keyword and undated", item: news.CandidateItem{Title: "Acme raises $10M"}, want: true},
		{name: "keyword but stale", item: news.CandidateItem{Title: "Acme raises $10M", Date: &old}, want: false},
		{name: "no keyword", item: news.CandidateItem{Title: "Acme hires new CFO"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Keep(tt.item, now); got != tt.want {
				t.Errorf("Keep() = %v, want %v", got, tt.want)
			}
		})
	}
}
