package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/keyword"
	"github.com/iWorld-y/rss_digest/pkg/logger"
	"github.com/iWorld-y/rss_digest/pkg/render"
	"github.com/iWorld-y/rss_digest/pkg/report"
	"github.com/iWorld-y/rss_digest/pkg/sheet"
	"github.com/iWorld-y/rss_digest/pkg/storage"
	"github.com/iWorld-y/rss_digest/pkg/summarize"
)

// Engine 报告生成引擎，串联取数、筛选、装配、总结、渲染与落盘
type Engine struct {
	cfg        *config.Config
	source     sheet.Sheet
	filter     *report.Filter
	assembler  *report.Assembler
	summarizer *summarize.Summarizer // 可为空，表示未启用 AI 总结
	store      *storage.Storage      // 可为空，表示未配置归档数据库
	now        func() time.Time
}

// NewEngine 创建引擎实例。
// AI 总结与数据库归档都是可选能力，初始化失败只降级不阻断。
func NewEngine(ctx context.Context, cfg *config.Config, source sheet.Sheet) *Engine {
	matcher := keyword.NewMatcher(cfg.Keywords, cfg.Excludes)
	classifier := report.NewClassifier(cfg.SourceMap)

	e := &Engine{
		cfg:       cfg,
		source:    source,
		filter:    report.NewFilter(cfg.Columns, matcher),
		assembler: report.NewAssembler(classifier, cfg.ReportFormat.DetailItemsPerSource),
		now:       time.Now,
	}

	if cfg.Summary.Enabled {
		s, err := summarize.NewSummarizer(ctx, cfg.Summary)
		if err != nil {
			logger.Log.Errorf("AI 总结初始化失败，本次运行不生成总结: %v", err)
		} else {
			e.summarizer = s
		}
	}

	if cfg.DB.Host != "" {
		store, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成报告文件。", err)
		} else {
			e.store = store
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过归档")
	}

	return e
}

// Close 释放引擎持有的资源
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

func (e *Engine) renderOptions() render.Options {
	return render.Options{
		DescriptionMaxLength: e.cfg.ReportFormat.DescriptionMaxLength,
		ShowMoreSection:      e.cfg.ReportFormat.ShowMoreSection,
		KeywordStatsLimit:    e.cfg.ReportFormat.KeywordStatsLimit,
		Now:                  e.now,
	}
}

// RunDaily 生成每日报告。target 为空时取表格中最新的抓取日期。
func (e *Engine) RunDaily(ctx context.Context, target *time.Time) error {
	logger.Log.Info("开始生成每日报告...")

	rows, err := e.source.Values(ctx)
	if err != nil {
		return fmt.Errorf("读取表格数据失败: %w", err)
	}
	logger.Log.Infof("共读取 %d 行数据", max(len(rows)-1, 0))

	date := time.Time{}
	if target != nil {
		date = *target
	} else {
		latest, ok := e.filter.LatestCrawlDate(rows)
		if !ok {
			return fmt.Errorf("未找到有效的抓取日期")
		}
		date = latest
	}
	logger.Log.Infof("目标日期: %s", date.Format(time.DateOnly))

	items := e.filter.ByDate(rows, date)
	logger.Log.Infof("筛选出 %d 条符合条件的数据", len(items))
	if len(items) == 0 {
		logger.Log.Warn("没有符合条件的数据，跳过报告生成")
		return nil
	}

	doc := e.assembler.Assemble(items, date)

	if e.summarizer != nil {
		doc.Summaries = e.summarizer.SummarizeGroups(ctx, doc)
		logger.Log.Infof("AI 总结完成: %d/%d 个来源", len(doc.Summaries), len(doc.Groups))
	}

	opts := e.renderOptions()
	markdown := render.Markdown(doc, opts)
	hugoPage := render.Hugo(doc, opts)
	htmlPage, err := render.HTML(doc, opts)
	if err != nil {
		return err
	}

	dir := expandPath(e.cfg.Output.DailyPath, date)
	name := expandPath(e.cfg.Output.DailyFilename, date)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	if err := writeFile(filepath.Join(dir, base+".md"), markdown); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, base+".hugo.md"), hugoPage); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, base+".html"), htmlPage); err != nil {
		return err
	}

	if e.store != nil {
		if err := e.store.SaveDailyRun(doc, markdown); err != nil {
			logger.Log.Errorf("归档日报失败: %v", err)
		}
	}

	logger.Log.Info("每日报告生成完成")
	return nil
}

// RunMonthly 生成月度报告
func (e *Engine) RunMonthly(ctx context.Context, year int, month time.Month) error {
	logger.Log.Infof("开始生成月度报告: %d年%d月", year, int(month))

	rows, err := e.source.Values(ctx)
	if err != nil {
		return fmt.Errorf("读取表格数据失败: %w", err)
	}

	items := e.filter.ByMonth(rows, year, month)
	logger.Log.Infof("本月命中 %d 条数据", len(items))

	doc := e.assembler.AssembleMonthly(items, year, month)
	markdown := render.MonthlyMarkdown(doc, e.renderOptions())

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	dir := expandPath(e.cfg.Output.MonthlyPath, monthStart)
	name := expandPath(e.cfg.Output.MonthlyFilename, monthStart)

	if err := writeFile(filepath.Join(dir, name), markdown); err != nil {
		return err
	}

	if e.store != nil {
		if err := e.store.SaveMonthlyRun(doc, markdown); err != nil {
			logger.Log.Errorf("归档月报失败: %v", err)
		}
	}

	logger.Log.Info("月度报告生成完成")
	return nil
}

// RunCleanup 删除超过保留期的表格数据
func (e *Engine) RunCleanup(ctx context.Context, days int) error {
	logger.Log.Infof("开始清理超过 %d 天的数据...", days)
	_, err := sheet.Cleanup(ctx, e.source, e.cfg.Columns.CrawlTime, days, e.now())
	return err
}

// expandPath 替换路径模板中的 {year} {month} {date} 占位符
func expandPath(tpl string, date time.Time) string {
	tpl = strings.ReplaceAll(tpl, "{year}", fmt.Sprintf("%04d", date.Year()))
	tpl = strings.ReplaceAll(tpl, "{month}", fmt.Sprintf("%02d", int(date.Month())))
	tpl = strings.ReplaceAll(tpl, "{date}", date.Format(time.DateOnly))
	return tpl
}

// writeFile 落盘，确保目录存在
func writeFile(path string, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}
	logger.Log.Infof("报告已保存: %s", path)
	return nil
}
