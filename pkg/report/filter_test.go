package report

import (
	"testing"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/config"
	"github.com/iWorld-y/rss_digest/pkg/keyword"
)

var testCols = config.ColumnsConfig{
	CrawlTime:   1,
	Attribute:   2,
	SourceName:  3,
	Category:    4,
	Title:       5,
	Link:        6,
	Description: 7,
	PublishTime: 8,
	Author:      9,
}

func testRow(crawlTime, category, title string) []string {
	return []string{
		crawlTime, "Week012025", "测试来源", category, title,
		"https://example.com/a", "描述文本", "Mon, 11 Aug 2025 22:37:00 +0800", "张三",
	}
}

func newTestFilter() *Filter {
	matcher := keyword.NewMatcher([]string{"TME", "cancer", "单细胞"}, []string{"advertisement", "recruitment"})
	return NewFilter(testCols, matcher)
}

func TestByDate(t *testing.T) {
	f := newTestFilter()
	target := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)

	rows := [][]string{
		{"抓取时间", "属性", "来源名称", "来源分类", "标题", "链接", "描述", "发布时间", "作者"},
		testRow("8/12/2025 10:30", "mpRss", "TME analysis reveals immune landscape in cancer"),
		testRow("8/12/2025 11:00", "mpRss", "The ultimate guide to cancer treatment"),
		testRow("8/11/2025 09:00", "mpRss", "cancer research yesterday"),          // 日期不匹配
		testRow("8/12/2025 12:00", "mpRss", "Nothing relevant here"),              // 无关键词
		testRow("垃圾时间", "mpRss", "cancer study with broken time"),              // 时间无法解析
		{"8/12/2025", "x", "y"},                                                   // 列数不足
		testRow("8/12/2025 13:00", "mpRss", "Job recruitment advertisement for TME research position"), // 排除词
	}

	items := f.ByDate(rows, target)
	if len(items) != 2 {
		t.Fatalf("ByDate() 返回 %d 条, want 2", len(items))
	}

	// 行顺序保持
	if items[0].Title != "TME analysis reveals immune landscape in cancer" {
		t.Errorf("items[0].Title = %q", items[0].Title)
	}
	if len(items[0].MatchedKeywords) != 2 {
		t.Errorf("items[0].MatchedKeywords = %v, want [TME cancer]", items[0].MatchedKeywords)
	}
	if len(items[1].MatchedKeywords) != 1 || items[1].MatchedKeywords[0] != "cancer" {
		t.Errorf("items[1].MatchedKeywords = %v, want [cancer]", items[1].MatchedKeywords)
	}

	// 字段映射完整
	if items[0].Author != "张三" || items[0].Category != "mpRss" || items[0].Link == "" {
		t.Errorf("字段映射不完整: %+v", items[0])
	}
	if items[0].CrawlTimeParsed.IsZero() {
		t.Errorf("CrawlTimeParsed 不应为零值")
	}
}

func TestByDate_EmptyRows(t *testing.T) {
	f := newTestFilter()
	if items := f.ByDate(nil, time.Now()); len(items) != 0 {
		t.Errorf("ByDate(nil) = %v, want 空", items)
	}
	header := [][]string{{"抓取时间"}}
	if items := f.ByDate(header, time.Now()); len(items) != 0 {
		t.Errorf("只有表头时应返回空")
	}
}

func TestByMonth(t *testing.T) {
	f := newTestFilter()
	rows := [][]string{
		{"表头"},
		testRow("8/31/2025 10:00", "mpRss", "cancer study late august"),
		testRow("8/01/2025 10:00", "mpRss", "TME study early august"),
		testRow("7/31/2025 10:00", "mpRss", "cancer study in july"), // 不在目标月
	}

	items := f.ByMonth(rows, 2025, time.August)
	if len(items) != 2 {
		t.Fatalf("ByMonth() 返回 %d 条, want 2", len(items))
	}
	// 逐天筛选后按日期先后拼接
	if items[0].Title != "TME study early august" {
		t.Errorf("items[0].Title = %q, 月内应按日期顺序", items[0].Title)
	}
}

func TestLatestCrawlDate(t *testing.T) {
	f := newTestFilter()
	rows := [][]string{
		{"表头"},
		testRow("8/10/2025 10:00", "mpRss", "a"),
		testRow("8/12/2025 09:00", "mpRss", "b"),
		testRow("坏时间", "mpRss", "c"),
		testRow("8/11/2025 23:00", "mpRss", "d"),
	}

	latest, ok := f.LatestCrawlDate(rows)
	if !ok {
		t.Fatalf("LatestCrawlDate() ok = false")
	}
	if latest.Format(time.DateOnly) != "2025-08-12" {
		t.Errorf("LatestCrawlDate() = %v, want 2025-08-12", latest)
	}

	if _, ok := f.LatestCrawlDate([][]string{{"表头"}, testRow("坏时间", "x", "y")}); ok {
		t.Errorf("全部无法解析时 ok 应为 false")
	}
}
