package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxPageLinks   = 40
	defaultMaxLatestItems = 200
	defaultMaxNotifyItems = 15
	defaultSeenLimit      = 5000
	defaultFetchTimeout   = 20 * time.Second
	defaultUserAgent      = "Mozilla/5.0 VC-Radar"
)

type (
	// Root объединяет все конфигурационные блоки (configs/sources.yaml).
	Root struct {
		Firms    Firms    `yaml:"firms"`
		Filters  Filters  `yaml:"filters"`
		Paths    Paths    `yaml:"paths"`
		Pipeline Pipeline `yaml:"pipeline"`
	}

	// Firm - фирма и её источники. Порядок фирм совпадает с порядком в YAML.
	Firm struct {
		Name  string   `yaml:"-"`
		RSS   []string `yaml:"rss,omitempty"`
		Pages []string `yaml:"pages,omitempty"`
	}

	// Firms сохраняет порядок ключей YAML-отображения.
	Firms []Firm

	// Filters описывает отбор ссылок по заголовку и возрасту.
	Filters struct {
		IncludeTitleAny []string `yaml:"include_title_any"`
		MaxAgeDays      int      `yaml:"max_age_days"` // 0 - не фильтровать по дате
	}

	// Paths - каталоги состояния и результатов.
	Paths struct {
		DataDir   string `yaml:"data_dir"`
		OutputDir string `yaml:"output_dir"`
	}

	// Pipeline - лимиты и параметры загрузки.
	Pipeline struct {
		MaxPageLinks   int           `yaml:"max_page_links"`
		MaxLatestItems int           `yaml:"max_latest_items"`
		MaxNotifyItems int           `yaml:"max_notify_items"`
		SeenLimit      int           `yaml:"seen_limit"`
		FetchTimeout   time.Duration `yaml:"fetch_timeout"`
		UserAgent      string        `yaml:"user_agent"`
	}
)

// UnmarshalYAML разбирает отображение firm -> {rss, pages}, сохраняя порядок.
func (f *Firms) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("firms: expected mapping at line %d", node.Line)
	}

	out := make(Firms, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("firms: decode name at line %d: %w", node.Content[i].Line, err)
		}

		firm := Firm{}
		if err := node.Content[i+1].Decode(&firm); err != nil {
			return fmt.Errorf("firms: decode %q: %w", name, err)
		}
		firm.Name = name
		out = append(out, firm)
	}

	*f = out
	return nil
}

// MarshalYAML пишет фирмы обратно отображением в том же порядке.
func (f Firms) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, firm := range f {
		value := &yaml.Node{}
		if err := value.Encode(firm); err != nil {
			return nil, fmt.Errorf("firms: encode %q: %w", firm.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: firm.Name},
			value,
		)
	}
	return node, nil
}

// StatePath возвращает путь к файлу seen-store.
func (p Paths) StatePath() string {
	return filepath.Join(p.DataDir, "db.json")
}

// Load читает основной файл конфигурации и подставляет значения по умолчанию.
func Load(path string) (Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Root{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Root
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Root{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (r *Root) applyDefaults() {
	keywords := make([]string, 0, len(r.Filters.IncludeTitleAny))
	for _, k := range r.Filters.IncludeTitleAny {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	r.Filters.IncludeTitleAny = keywords

	if r.Paths.DataDir == "" {
		r.Paths.DataDir = "data"
	}
	if r.Paths.OutputDir == "" {
		r.Paths.OutputDir = "output"
	}

	p := &r.Pipeline
	if p.MaxPageLinks <= 0 {
		p.MaxPageLinks = defaultMaxPageLinks
	}
	if p.MaxLatestItems <= 0 {
		p.MaxLatestItems = defaultMaxLatestItems
	}
	if p.MaxNotifyItems <= 0 {
		p.MaxNotifyItems = defaultMaxNotifyItems
	}
	if p.SeenLimit <= 0 {
		p.SeenLimit = defaultSeenLimit
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = defaultFetchTimeout
	}
	if strings.TrimSpace(p.UserAgent) == "" {
		p.UserAgent = defaultUserAgent
	}
}
