package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "sources.yaml", `
firms:
  zeta:
    rss: [https://zeta.vc/feed]
  alpha:
    pages:
      - https://alpha.vc/news
      - https://alpha.vc/press
  beta:
filters:
  include_title_any: ["Raises", " funding ", ""]
pipeline:
  fetch_timeout: 5s
  max_page_links: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantFirms := Firms{
		{Name: "zeta", RSS: []string{"https://zeta.vc/feed"}},
		{Name: "alpha", Pages: []string{"https://alpha.vc/news", "https://alpha.vc/press"}},
		{Name: "beta"},
	}
	if diff := cmp.Diff(wantFirms, cfg.Firms); diff != "" {
		t.Errorf("Load() firms mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"raises", "funding"}, cfg.Filters.IncludeTitleAny); diff != "" {
		t.Errorf("Load() keywords mismatch (-want +got):\n%s", diff)
	}

	wantPipeline := Pipeline{
		MaxPageLinks:   10,
		MaxLatestItems: defaultMaxLatestItems,
		MaxNotifyItems: defaultMaxNotifyItems,
		SeenLimit:      defaultSeenLimit,
		FetchTimeout:   5 * time.Second,
		UserAgent:      defaultUserAgent,
	}
	if diff := cmp.Diff(wantPipeline, cfg.Pipeline); diff != "" {
		t.Errorf("Load() pipeline mismatch (-want +got):\n%s", diff)
	}

	if cfg.Paths.StatePath() != filepath.Join("data", "db.json") {
		t.Errorf("StatePath() = %q", cfg.Paths.StatePath())
	}
	if cfg.Paths.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want output", cfg.Paths.OutputDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("Load() should fail for missing file")
		}
	})

	t.Run("firms is not a mapping", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "firms:\n  - a\n  - b\n")
		if _, err := Load(path); err == nil {
			t.Fatal("Load() should fail when firms is a list")
		}
	})
}

func TestLoadEnvConfig(t *testing.T) {
	dotenv := writeFile(t, ".env", "SLACK_WEBHOOK_URL=https://hooks.example.com/x\nTELEGRAM_CHAT_ID=42\n")
	t.Setenv("SLACK_WEBHOOK_URL", "")
	os.Unsetenv("SLACK_WEBHOOK_URL")
	t.Setenv("TELEGRAM_CHAT_ID", "7")
	t.Setenv("RADAR_CONFIG", "")

	env, err := LoadEnvConfig(dotenv)
	if err != nil {
		t.Fatalf("LoadEnvConfig() error = %v", err)
	}
	if env.SlackWebhookURL != "https://hooks.example.com/x" {
		t.Errorf("SlackWebhookURL = %q", env.SlackWebhookURL)
	}
	// переменная окружения важнее .env
	if env.TelegramChatID != "7" {
		t.Errorf("TelegramChatID = %q, want 7", env.TelegramChatID)
	}
	if env.ConfigPath != "configs/sources.yaml" {
		t.Errorf("ConfigPath = %q", env.ConfigPath)
	}

	if _, err := LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnvConfig() with missing .env should not fail: %v", err)
	}
}

func TestFirms_MarshalKeepsOrder(t *testing.T) {
	in := Firms{
		{Name: "zeta", RSS: []string{"https://zeta.example/feed"}},
		{Name: "alpha", Pages: []string{"https://alpha.example/news"}},
	}

	data, err := yaml.Marshal(struct {
		Firms Firms `yaml:"firms"`
	}{in})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out struct {
		Firms Firms `yaml:"firms"`
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out.Firms); diff != "" {
		t.Errorf("firms mismatch (-want +got):\n%s", diff)
	}
}
