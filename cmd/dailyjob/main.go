package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/maine/vc_radar/internal/app"
	"github.com/maine/vc_radar/internal/config"
	"github.com/maine/vc_radar/internal/filter"
	"github.com/maine/vc_radar/internal/formatter"
	"github.com/maine/vc_radar/internal/logging"
	"github.com/maine/vc_radar/internal/notify"
	"github.com/maine/vc_radar/internal/output"
	"github.com/maine/vc_radar/internal/sources"
	"github.com/maine/vc_radar/internal/state"
	"github.com/maine/vc_radar/internal/telegram"
)

func main() {
	dotenvPath := flag.String("env", ".env", "path to .env file with secrets")
	configPath := flag.String("config", "", "path to sources.yaml (overrides RADAR_CONFIG)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Переменные окружения (секреты, путь к конфигу, уровень логов)
	envCfg, err := config.LoadEnvConfig(*dotenvPath)
	if err != nil {
		log.Fatalf("load env config: %v", err)
	}
	if *configPath != "" {
		envCfg.ConfigPath = *configPath
	}

	logger := logging.New(envCfg.LogLevel)

	// Загружаем конфигурацию из YAML
	rootCfg, err := config.Load(envCfg.ConfigPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Info("config loaded", "path", envCfg.ConfigPath, "firms", len(rootCfg.Firms))

	// Инициализируем модули
	httpClient := &http.Client{Timeout: rootCfg.Pipeline.FetchTimeout}
	ua := rootCfg.Pipeline.UserAgent
	collector := sources.NewCollector(
		rootCfg.Firms,
		sources.NewFeedExtractor(httpClient, ua),
		sources.NewPageExtractor(httpClient, ua, rootCfg.Pipeline.MaxPageLinks, nil),
	)

	notifiers := notify.Multi{
		notify.NewSlack(envCfg.SlackWebhookURL, rootCfg.Pipeline.MaxNotifyItems, nil),
	}
	if envCfg.TelegramBotToken != "" {
		tgClient := telegram.NewClient(envCfg.TelegramBotToken)
		notifiers = append(notifiers, notify.NewTelegram(tgClient, envCfg.TelegramChatID, rootCfg.Pipeline.MaxNotifyItems))
	}

	p := app.NewPipeline(app.PipelineDeps{
		Collector:  collector,
		Filter:     filter.New(rootCfg.Filters),
		StateStore: state.NewFileStore(rootCfg.Paths.StatePath(), logger),
		Formatter:  formatter.NewFormatter(),
		Output:     output.NewWriter(rootCfg.Paths.OutputDir, rootCfg.Pipeline.MaxLatestItems),
		Notifier:   notifiers,
		Logger:     logger,
		SeenLimit:  rootCfg.Pipeline.SeenLimit,
	})

	report, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	logger.Info("pipeline completed",
		"run_id", report.RunID,
		"sources", report.Sources,
		"failed_sources", report.FailedSources,
		"digest", report.DigestPath,
	)
	fmt.Printf("New items: %d\n", len(report.NewItems))
}
