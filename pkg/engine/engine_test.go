package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/config"
)

// mockSheet 模拟表格数据源
type mockSheet struct {
	rows    [][]string
	deleted []int
}

func (m *mockSheet) Values(ctx context.Context) ([][]string, error) {
	return m.rows, nil
}

func (m *mockSheet) DeleteRow(ctx context.Context, idx int) error {
	m.deleted = append(m.deleted, idx)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Columns: config.ColumnsConfig{
			CrawlTime: 1, Attribute: 2, SourceName: 3, Category: 4,
			Title: 5, Link: 6, Description: 7, PublishTime: 8, Author: 9,
		},
		Keywords: []string{"TME", "cancer"},
		Excludes: []string{"advertisement", "recruitment"},
		SourceMap: map[string]config.SourceInfo{
			"mpRss":    {DisplayName: "微信公众号", SortOrder: 1, Icon: "💬"},
			"_default": {DisplayName: "其他来源", SortOrder: 99, Icon: "📁"},
		},
		ReportFormat: config.ReportFormatConfig{
			DetailItemsPerSource: 10,
			DescriptionMaxLength: 500,
			ShowMoreSection:      true,
			KeywordStatsLimit:    20,
		},
		Output: config.OutputConfig{
			DailyPath:       filepath.Join(dir, "daily", "{year}", "{month}"),
			DailyFilename:   "{date}.md",
			MonthlyPath:     filepath.Join(dir, "monthly", "{year}"),
			MonthlyFilename: "{year}-{month}.md",
		},
	}
}

func row(crawlTime, title string) []string {
	return []string{crawlTime, "Week012025", "测试号", "mpRss", title,
		"https://example.com/a", "描述", "Mon, 11 Aug 2025 22:37:00 +0800", "张三"}
}

func TestRunDaily_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	source := &mockSheet{rows: [][]string{
		{"抓取时间", "属性", "来源名称", "来源分类", "标题", "链接", "描述", "发布时间", "作者"},
		row("8/12/2025 10:30", "TME analysis reveals immune landscape in cancer"),
		row("8/12/2025 11:00", "The ultimate guide to cancer treatment"),
		row("8/12/2025 12:00", "Job recruitment advertisement for TME research position"),
	}}

	ctx := context.Background()
	e := NewEngine(ctx, cfg, source)
	defer e.Close()

	target := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	if err := e.RunDaily(ctx, &target); err != nil {
		t.Fatalf("RunDaily() error = %v", err)
	}

	base := filepath.Join(strings.ReplaceAll(cfg.Output.DailyPath, "{year}", "2025"), "")
	base = strings.ReplaceAll(base, "{month}", "08")

	md, err := os.ReadFile(filepath.Join(base, "2025-08-12.md"))
	if err != nil {
		t.Fatalf("读取 Markdown 报告失败: %v", err)
	}
	content := string(md)

	wantParts := []string{
		"# 📅 Daily Report - 2025-08-12",
		"> 今日筛选出 **2** 条内容，来自 **1** 个来源", // 排除词行不计入
		"**TME analysis reveals immune landscape in cancer**",
		"| cancer | 2 |",
		"| TME | 1 |",
	}
	for _, part := range wantParts {
		if !strings.Contains(content, part) {
			t.Errorf("日报缺少片段: %s", part)
		}
	}

	// 关键词多的条目排在前面
	first := strings.Index(content, "TME analysis reveals")
	second := strings.Index(content, "The ultimate guide")
	if first < 0 || second < 0 || first > second {
		t.Errorf("排序错误: 命中 2 个关键词的条目应在前")
	}

	// 三种输出格式都要生成
	if _, err := os.Stat(filepath.Join(base, "2025-08-12.hugo.md")); err != nil {
		t.Errorf("缺少 Hugo 输出: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "2025-08-12.html")); err != nil {
		t.Errorf("缺少 HTML 输出: %v", err)
	}
}

func TestRunDaily_NoMatches(t *testing.T) {
	cfg := testConfig(t)
	source := &mockSheet{rows: [][]string{
		{"抓取时间", "属性", "来源名称", "来源分类", "标题", "链接", "描述", "发布时间", "作者"},
		row("8/12/2025 10:30", "Nothing relevant today"),
	}}

	ctx := context.Background()
	e := NewEngine(ctx, cfg, source)
	defer e.Close()

	target := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	if err := e.RunDaily(ctx, &target); err != nil {
		t.Fatalf("无命中数据时应跳过渲染而不报错: %v", err)
	}

	dir := strings.ReplaceAll(cfg.Output.DailyPath, "{year}", "2025")
	dir = strings.ReplaceAll(dir, "{month}", "08")
	if _, err := os.Stat(filepath.Join(dir, "2025-08-12.md")); !os.IsNotExist(err) {
		t.Errorf("无命中数据时不应生成报告文件")
	}
}

func TestRunDaily_NoTargetDateAvailable(t *testing.T) {
	cfg := testConfig(t)
	source := &mockSheet{rows: [][]string{
		{"抓取时间", "标题"},
		{"坏时间", "标题1"},
	}}

	ctx := context.Background()
	e := NewEngine(ctx, cfg, source)
	defer e.Close()

	if err := e.RunDaily(ctx, nil); err == nil {
		t.Errorf("无法确定目标日期时应返回错误")
	}
}

func TestRunMonthly_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	source := &mockSheet{rows: [][]string{
		{"抓取时间", "属性", "来源名称", "来源分类", "标题", "链接", "描述", "发布时间", "作者"},
		row("8/05/2025 10:30", "cancer news one"),
		row("8/20/2025 10:30", "cancer news two"),
	}}

	ctx := context.Background()
	e := NewEngine(ctx, cfg, source)
	defer e.Close()

	if err := e.RunMonthly(ctx, 2025, time.August); err != nil {
		t.Fatalf("RunMonthly() error = %v", err)
	}

	dir := strings.ReplaceAll(cfg.Output.MonthlyPath, "{year}", "2025")
	md, err := os.ReadFile(filepath.Join(dir, "2025-08.md"))
	if err != nil {
		t.Fatalf("读取月报失败: %v", err)
	}
	content := string(md)

	for _, part := range []string{
		"# 📅 Monthly Report - 2025年8月",
		"- ✅ 总命中条目：2",
		"- 📆 活跃天数：2",
		"### 2025-08-20 (1 条)",
	} {
		if !strings.Contains(content, part) {
			t.Errorf("月报缺少片段: %s", part)
		}
	}
}

func TestRunCleanup(t *testing.T) {
	cfg := testConfig(t)
	now := time.Now()
	source := &mockSheet{rows: [][]string{
		{"抓取时间", "标题"},
		{now.AddDate(0, 0, -20).Format("1/2/2006 15:04:05"), "过期"},
		{now.AddDate(0, 0, -1).Format("1/2/2006 15:04:05"), "保留"},
	}}

	ctx := context.Background()
	e := NewEngine(ctx, cfg, source)
	defer e.Close()

	if err := e.RunCleanup(ctx, 15); err != nil {
		t.Fatalf("RunCleanup() error = %v", err)
	}
	if len(source.deleted) != 1 || source.deleted[0] != 1 {
		t.Errorf("deleted = %v, want [1]", source.deleted)
	}
}

func TestExpandPath(t *testing.T) {
	date := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	got := expandPath("reports/{year}/{month}/{date}.md", date)
	want := "reports/2025/08/2025-08-05.md"
	if got != want {
		t.Errorf("expandPath() = %q, want %q", got, want)
	}
}
