package formatter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maine/vc_radar/internal/news"
)

func TestFormatter_Build(t *testing.T) {
	f := NewFormatter()

	items := []news.CandidateItem{
		{Firm: "sequoia", Title: "beta launch", URL: "https://s/2"},
		{Firm: "a16z", Title: "Zeta raises", URL: "https://a/1"},
		{Firm: "sequoia", Title: "Alpha round", URL: "https://s/1"},
		{Firm: "a16z", Title: "alpha fund", URL: "https://a/2"},
	}

	got := f.Build("2025-01-02", items)
	want := news.Digest{
		Date: "2025-01-02",
		Groups: []news.DigestGroup{
			{Firm: "a16z", Items: []news.CandidateItem{
				{Firm: "a16z", Title: "alpha fund", URL: "https://a/2"},
				{Firm: "a16z", Title: "Zeta raises", URL: "https://a/1"},
			}},
			{Firm: "sequoia", Items: []news.CandidateItem{
				{Firm: "sequoia", Title: "Alpha round", URL: "https://s/1"},
				{Firm: "sequoia", Title: "beta launch", URL: "https://s/2"},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	if got.Total() != 4 {
		t.Errorf("Total() = %d, want 4", got.Total())
	}

	if items[0].Firm != "sequoia" {
		t.Error("Build() must not reorder the input slice")
	}
}

func TestFormatter_Build_Empty(t *testing.T) {
	d := NewFormatter().Build("2025-01-02", nil)
	if !d.Empty() {
		t.Errorf("Build(nil) should be empty, got %+v", d)
	}
}

func TestFormatter_Render(t *testing.T) {
	f := NewFormatter()
	items := []news.CandidateItem{
		{Firm: "sequoia", Title: "Fund [IX] closes", URL: "https://s/1"},
		{Firm: "a16z", Title: "Acme raises $10M", URL: "https://a/1"},
		{Title: "Orphan", URL: "https://o/1"},
	}

	want := "# VC Investment Radar — 2025-01-02\n" +
		"\n## other\n\n" +
		"- [Orphan](https://o/1)\n" +
		"\n## a16z\n\n" +
		"- [Acme raises $10M](https://a/1)\n" +
		"\n## sequoia\n\n" +
		"- [Fund \\[IX\\] closes](https://s/1)\n"

	got := f.Render(f.Build("2025-01-02", items))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}

	// детерминированность: тот же набор в другом порядке даёт тот же документ
	reversed := []news.CandidateItem{items[2], items[1], items[0]}
	if again := f.Render(f.Build("2025-01-02", reversed)); again != got {
		t.Errorf("Render() not deterministic:\n%s\nvs\n%s", got, again)
	}
}
