package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maine/vc_radar/internal/config"
	"github.com/maine/vc_radar/internal/sources"
	"github.com/maine/vc_radar/internal/urlnorm"
)

// suggestion - фрагмент sources.yaml с найденными лентами.
type suggestion struct {
	Firms config.Firms `yaml:"firms"`
}

func main() {
	configPath := flag.String("config", "configs/sources.yaml", "path to sources.yaml")
	outputFile := flag.String("out", "", "write YAML suggestion to file instead of stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.Pipeline.FetchTimeout}
	d := sources.NewDiscoverer(httpClient, cfg.Pipeline.UserAgent)

	fmt.Fprintf(os.Stderr, "📋 Фирм в конфиге: %d\n", len(cfg.Firms))

	var out suggestion
	for _, firm := range cfg.Firms {
		if len(firm.Pages) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "\n🌐 %s\n", firm.Name)

		known := make(map[string]struct{}, len(firm.RSS))
		for _, u := range firm.RSS {
			known[urlnorm.Normalize(u)] = struct{}{}
		}

		var found []string
		for _, page := range firm.Pages {
			feeds, err := d.Discover(ctx, page)
			if err != nil {
				fmt.Fprintf(os.Stderr, "   ⚠️  %s: %v\n", page, err)
				continue
			}
			for _, f := range feeds {
				if _, ok := known[f]; ok {
					continue
				}
				known[f] = struct{}{}
				found = append(found, f)
				fmt.Fprintf(os.Stderr, "   📰 %s\n", f)
			}
		}

		if len(found) > 0 {
			out.Firms = append(out.Firms, config.Firm{Name: firm.Name, RSS: found})
		}
	}

	fmt.Fprintln(os.Stderr, "\n"+strings.Repeat("=", 70))
	fmt.Fprintf(os.Stderr, "📊 Новых лент: фирм %d\n", len(out.Firms))

	data, err := yaml.Marshal(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка при формировании YAML: %v\n", err)
		os.Exit(1)
	}

	header := "# Найденные ленты; перенесите нужные в rss соответствующей фирмы\n\n"
	if *outputFile == "" {
		fmt.Print(header + string(data))
		return
	}
	if err := os.WriteFile(*outputFile, []byte(header+string(data)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Не удалось сохранить в файл: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "💾 Результаты сохранены в %s\n", *outputFile)
}
