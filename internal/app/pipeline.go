package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maine/vc_radar/internal/formatter"
	"github.com/maine/vc_radar/internal/logging"
	"github.com/maine/vc_radar/internal/news"
	"github.com/maine/vc_radar/internal/sources"
	"github.com/maine/vc_radar/internal/state"
	"github.com/maine/vc_radar/internal/urlnorm"
)

const digestDateLayout = "2006-01-02"

// ErrNotConfigured возвращается, когда пайплайн запущен без обязательных зависимостей.
var ErrNotConfigured = errors.New("pipeline dependencies not configured")

// Clock определяет источник времени (удобно подменять в тестах).
type Clock func() time.Time

// SourceCollector обходит источники всех фирм.
type SourceCollector interface {
	Collect(ctx context.Context) []sources.Result
}

// Filter решает, оставить ли кандидата.
type Filter interface {
	Keep(item news.CandidateItem, now time.Time) bool
}

// StateStore хранит множество уже виденных ссылок.
type StateStore interface {
	Load(ctx context.Context) (*state.Seen, error)
	Save(ctx context.Context, seen *state.Seen) error
}

// Formatter собирает и рендерит дайджест.
type Formatter interface {
	Build(date string, items []news.CandidateItem) news.Digest
	Render(d news.Digest) string
}

// OutputWriter пишет артефакты прогона.
type OutputWriter interface {
	WriteDigest(date, markdown string) (string, error)
	WriteLatest(now time.Time, runID string, items []news.CandidateItem) error
	WriteFeed(now time.Time, items []news.CandidateItem) error
}

// Notifier сообщает о новых ссылках.
type Notifier interface {
	Notify(ctx context.Context, items []news.CandidateItem) error
}

// PipelineDeps перечисляет зависимости пайплайна.
type PipelineDeps struct {
	Collector  SourceCollector
	Filter     Filter
	StateStore StateStore
	Formatter  Formatter
	Output     OutputWriter
	Notifier   Notifier
	Logger     *slog.Logger
	Clock      Clock
	NewRunID   func() string
	SeenLimit  int
}

// Report - итог одного прогона.
type Report struct {
	RunID         string
	NewItems      []news.CandidateItem
	Sources       int
	FailedSources int
	DigestPath    string
}

// Pipeline инкапсулирует один прогон радара.
type Pipeline struct {
	collector  SourceCollector
	filter     Filter
	stateStore StateStore
	formatter  Formatter
	output     OutputWriter
	notifier   Notifier
	logger     *slog.Logger
	clock      Clock
	newRunID   func() string
	seenLimit  int
}

// NewPipeline создаёт новый экземпляр пайплайна.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newRunID := deps.NewRunID
	if newRunID == nil {
		newRunID = func() string { return uuid.NewString() }
	}
	seenLimit := deps.SeenLimit
	if seenLimit <= 0 {
		seenLimit = state.DefaultTrimLimit
	}

	return &Pipeline{
		collector:  deps.Collector,
		filter:     deps.Filter,
		stateStore: deps.StateStore,
		formatter:  deps.Formatter,
		output:     deps.Output,
		notifier:   deps.Notifier,
		logger:     logging.OrDefault(deps.Logger),
		clock:      clock,
		newRunID:   newRunID,
		seenLimit:  seenLimit,
	}
}

// Run исполняет полный цикл: сбор, отсев, дедупликация, запись, уведомление.
// Ошибка источника или уведомления не прерывает прогон; фатальны только
// ошибки хранилища и записи результатов.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if err := p.validateDeps(); err != nil {
		return Report{}, err
	}

	now := p.clock()
	report := Report{RunID: p.newRunID()}
	log := p.logger.With("run_id", report.RunID)

	seen, err := p.stateStore.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load state: %w", err)
	}
	log.Info("state loaded", "seen", seen.Len())

	results := p.collector.Collect(ctx)
	report.Sources = len(results)

	newItems := make([]news.CandidateItem, 0)
	for _, res := range results {
		if !res.OK() {
			report.FailedSources++
			log.Warn("source failed",
				"firm", res.Source.Firm,
				"source", res.Source.URL,
				"kind", string(res.Source.Kind),
				"error", res.Err,
			)
			continue
		}
		log.Debug("source collected",
			"firm", res.Source.Firm,
			"source", res.Source.URL,
			"items", len(res.Items),
		)

		for _, item := range res.Items {
			if item.Firm == "" {
				item.Firm = res.Source.Firm
			}
			if !p.filter.Keep(item, now) {
				continue
			}
			id := urlnorm.ID(urlnorm.Normalize(item.URL))
			if seen.Contains(id) {
				continue
			}
			seen.Record(id, item.Title, now)
			newItems = append(newItems, item)
		}
	}
	// дайджест, latest.json/xml и уведомление видят один порядок: (фирма, заголовок)
	newItems = formatter.SortItems(newItems)
	report.NewItems = newItems

	if dropped := seen.TrimIfOversized(p.seenLimit); dropped > 0 {
		log.Info("state trimmed", "dropped", dropped, "kept", seen.Len())
	}

	if len(newItems) > 0 {
		date := now.Format(digestDateLayout)
		digest := p.formatter.Build(date, newItems)
		path, err := p.output.WriteDigest(date, p.formatter.Render(digest))
		if err != nil {
			return report, fmt.Errorf("write digest: %w", err)
		}
		report.DigestPath = path
		log.Info("digest written", "path", path, "items", digest.Total())
	}

	if err := p.output.WriteLatest(now, report.RunID, newItems); err != nil {
		return report, fmt.Errorf("write latest: %w", err)
	}
	if err := p.output.WriteFeed(now, newItems); err != nil {
		return report, fmt.Errorf("write feed: %w", err)
	}

	if err := p.stateStore.Save(ctx, seen); err != nil {
		return report, fmt.Errorf("save state: %w", err)
	}

	if p.notifier != nil && len(newItems) > 0 {
		if err := p.notifier.Notify(ctx, newItems); err != nil {
			log.Error("notify failed", "error", err)
		}
	}

	return report, nil
}

func (p *Pipeline) validateDeps() error {
	// notifier опционален: без вебхуков прогон только пишет файлы
	switch {
	case p.collector == nil,
		p.filter == nil,
		p.stateStore == nil,
		p.formatter == nil,
		p.output == nil,
		p.clock == nil:
		return ErrNotConfigured
	default:
		return nil
	}
}
