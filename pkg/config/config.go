package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSourceKey source_mapping 中保留的默认映射键
const DefaultSourceKey = "_default"

// Config 项目配置结构体
type Config struct {
	GoogleSheets GoogleSheetsConfig    `yaml:"google_sheets"`
	Columns      ColumnsConfig         `yaml:"columns"`
	Keywords     []string              `yaml:"keywords"`
	Excludes     []string              `yaml:"exclude_keywords"`
	SourceMap    map[string]SourceInfo `yaml:"source_mapping"`
	ReportFormat ReportFormatConfig    `yaml:"report_format"`
	Output       OutputConfig          `yaml:"output"`
	Summary      SummaryConfig         `yaml:"summary"`
	DB           DBConfig              `yaml:"db"`
	Log          LogConfig             `yaml:"log"`
}

// GoogleSheetsConfig 表格访问配置
type GoogleSheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

// ColumnsConfig 各字段所在列（1 起始）
type ColumnsConfig struct {
	CrawlTime   int `yaml:"crawl_time"`
	Attribute   int `yaml:"attribute"`
	SourceName  int `yaml:"source_name"`
	Category    int `yaml:"category"`
	Title       int `yaml:"title"`
	Link        int `yaml:"link"`
	Description int `yaml:"description"`
	PublishTime int `yaml:"publish_time"`
	Author      int `yaml:"author"`
}

// SourceInfo 来源映射条目，配置中写作 [显示名, 排序, 图标]
type SourceInfo struct {
	DisplayName string
	SortOrder   int
	Icon        string
}

// UnmarshalYAML 支持 [name, order, icon] 三元组写法
func (s *SourceInfo) UnmarshalYAML(value *yaml.Node) error {
	var parts []yaml.Node
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("source_mapping 条目必须是 [显示名, 排序, 图标] 列表: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("source_mapping 条目需要 3 个元素，实际 %d 个", len(parts))
	}
	if err := parts[0].Decode(&s.DisplayName); err != nil {
		return err
	}
	if err := parts[1].Decode(&s.SortOrder); err != nil {
		return err
	}
	return parts[2].Decode(&s.Icon)
}

// ReportFormatConfig 报告格式相关配置
type ReportFormatConfig struct {
	DetailItemsPerSource int  `yaml:"detail_items_per_source"`
	DescriptionMaxLength int  `yaml:"description_max_length"`
	ShowMoreSection      bool `yaml:"show_more_section"`
	KeywordStatsLimit    int  `yaml:"keyword_stats_limit"`
}

// OutputConfig 输出路径配置，支持 {year} {month} {date} 占位符
type OutputConfig struct {
	DailyPath       string `yaml:"daily_path"`
	DailyFilename   string `yaml:"daily_filename"`
	MonthlyPath     string `yaml:"monthly_path"`
	MonthlyFilename string `yaml:"monthly_filename"`
}

// SummaryConfig AI 总结相关配置
type SummaryConfig struct {
	Enabled        bool    `yaml:"enabled"`
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	MaxArticles    int     `yaml:"max_articles"`
	PromptTemplate string  `yaml:"prompt_template"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ReportFormat.DetailItemsPerSource <= 0 {
		c.ReportFormat.DetailItemsPerSource = 10
	}
	if c.ReportFormat.KeywordStatsLimit <= 0 {
		c.ReportFormat.KeywordStatsLimit = 20
	}
	if c.Summary.MaxArticles <= 0 {
		c.Summary.MaxArticles = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 校验必填配置项
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return fmt.Errorf("配置错误: 未设置关键词列表 (keywords)")
	}
	if c.Columns.CrawlTime <= 0 || c.Columns.Title <= 0 {
		return fmt.Errorf("配置错误: columns 中 crawl_time 和 title 为必填且从 1 开始")
	}
	return nil
}
