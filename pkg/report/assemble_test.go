package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

func testItem(category, title string, keywords []string, crawl time.Time) model.Item {
	return model.Item{
		Category:        category,
		Title:           title,
		Link:            "https://example.com/" + title,
		CrawlTime:       crawl.Format("2006-01-02 15:04:05"),
		CrawlTimeParsed: crawl,
		MatchedKeywords: keywords,
	}
}

func newTestAssembler(detailCount int) *Assembler {
	return NewAssembler(NewClassifier(testSourceMap()), detailCount)
}

func TestAssemble_GroupingAndOrder(t *testing.T) {
	a := newTestAssembler(10)
	date := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

	items := []model.Item{
		testItem("unknownRss", "其他1", []string{"cancer"}, base),
		testItem("blogRss", "博客1", []string{"cancer"}, base),
		testItem("mpRss", "公众号1", []string{"cancer"}, base),
		testItem("wxRss", "公众号2", []string{"TME", "cancer"}, base.Add(-time.Hour)),
	}

	doc := a.Assemble(items, date)

	if doc.Total != 4 || doc.SourceCount != 3 {
		t.Fatalf("Total = %d, SourceCount = %d, want 4 和 3", doc.Total, doc.SourceCount)
	}

	// 来源按 SortOrder 升序
	wantOrder := []string{"微信公众号", "博客", "其他来源"}
	for i, name := range wantOrder {
		if doc.Groups[i].Identity.DisplayName != name {
			t.Errorf("Groups[%d] = %s, want %s", i, doc.Groups[i].Identity.DisplayName, name)
		}
	}

	// mpRss 和 wxRss 合并为一个分组
	mp := doc.Groups[0]
	if mp.Count() != 2 {
		t.Fatalf("微信公众号分组应有 2 条, got %d", mp.Count())
	}
	// 组内排序：关键词数多的在前
	if mp.Detail[0].Title != "公众号2" {
		t.Errorf("关键词多的条目应排前, got %s", mp.Detail[0].Title)
	}

	// 分组是一个划分：各组条目数之和等于输入总数
	sum := 0
	for _, g := range doc.Groups {
		sum += g.Count()
	}
	if sum != len(items) {
		t.Errorf("分组总条数 = %d, want %d", sum, len(items))
	}
}

func TestAssemble_SortWithinGroup(t *testing.T) {
	a := newTestAssembler(10)
	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

	items := []model.Item{
		testItem("mpRss", "旧但关键词多", []string{"a", "b", "c"}, base.Add(-2*time.Hour)),
		testItem("mpRss", "新但关键词少", []string{"a"}, base),
		testItem("mpRss", "同关键词数较旧", []string{"a", "b"}, base.Add(-time.Hour)),
		testItem("mpRss", "同关键词数较新", []string{"a", "b"}, base),
	}
	// 时间无法解析的条目按零值时间排最后
	noTime := testItem("mpRss", "无时间", []string{"a"}, time.Time{})
	items = append(items, noTime)

	doc := a.Assemble(items, base)
	got := doc.Groups[0].Detail

	want := []string{"旧但关键词多", "同关键词数较新", "同关键词数较旧", "新但关键词少", "无时间"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("Detail[%d] = %s, want %s", i, got[i].Title, title)
		}
	}
}

func TestAssemble_DetailOverflowSplit(t *testing.T) {
	a := newTestAssembler(3)
	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

	var items []model.Item
	for i := 0; i < 5; i++ {
		items = append(items, testItem("mpRss", fmt.Sprintf("标题%d", i), []string{"a"}, base.Add(-time.Duration(i)*time.Minute)))
	}
	items = append(items, testItem("blogRss", "博客标题", []string{"a"}, base))

	doc := a.Assemble(items, base)

	mp := doc.Groups[0]
	if len(mp.Detail) != 3 || len(mp.Overflow) != 2 {
		t.Errorf("切分错误: detail=%d overflow=%d, want 3 和 2", len(mp.Detail), len(mp.Overflow))
	}

	// 条数不超过上限的分组没有 overflow
	blog := doc.Groups[1]
	if len(blog.Detail) != 1 || len(blog.Overflow) != 0 {
		t.Errorf("blog 分组不应有 overflow: detail=%d overflow=%d", len(blog.Detail), len(blog.Overflow))
	}
}

func TestAssemble_KeywordStats(t *testing.T) {
	a := newTestAssembler(10)
	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

	items := []model.Item{
		testItem("mpRss", "t1", []string{"TME", "cancer"}, base),
		testItem("mpRss", "t2", []string{"cancer"}, base),
		testItem("blogRss", "t3", []string{"tumor"}, base),
	}

	doc := a.Assemble(items, base)

	if len(doc.KeywordStats) != 3 {
		t.Fatalf("KeywordStats 长度 = %d, want 3", len(doc.KeywordStats))
	}
	if doc.KeywordStats[0].Keyword != "cancer" || doc.KeywordStats[0].Count != 2 {
		t.Errorf("KeywordStats[0] = %+v, want cancer: 2", doc.KeywordStats[0])
	}
	// 次数相同时保持首次出现顺序
	if doc.KeywordStats[1].Keyword != "TME" || doc.KeywordStats[2].Keyword != "tumor" {
		t.Errorf("并列关键词应保持首见顺序: %+v", doc.KeywordStats[1:])
	}
}

func TestAssemble_Empty(t *testing.T) {
	a := newTestAssembler(10)
	doc := a.Assemble(nil, time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC))

	if doc == nil {
		t.Fatalf("空输入应返回结构完整的空文档")
	}
	if doc.Total != 0 || doc.SourceCount != 0 || len(doc.Groups) != 0 || len(doc.KeywordStats) != 0 {
		t.Errorf("空文档字段不干净: %+v", doc)
	}
}

func TestAssembleMonthly(t *testing.T) {
	a := newTestAssembler(10)

	items := []model.Item{
		testItem("mpRss", "八月初", []string{"cancer"}, time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)),
		testItem("mpRss", "八月末1", []string{"cancer"}, time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)),
		testItem("mpRss", "八月末2", []string{"TME"}, time.Date(2025, 8, 30, 11, 0, 0, 0, time.UTC)),
	}

	doc := a.AssembleMonthly(items, 2025, time.August)

	if doc.Total != 3 || doc.ActiveDays != 2 {
		t.Errorf("Total = %d, ActiveDays = %d, want 3 和 2", doc.Total, doc.ActiveDays)
	}
	if doc.Start.Format(time.DateOnly) != "2025-08-01" || doc.End.Format(time.DateOnly) != "2025-08-31" {
		t.Errorf("统计周期 = %v ~ %v", doc.Start, doc.End)
	}
	// 每日摘要按日期倒序
	if doc.Days[0].Date != "2025-08-30" || doc.Days[1].Date != "2025-08-01" {
		t.Errorf("Days 顺序错误: %v, %v", doc.Days[0].Date, doc.Days[1].Date)
	}
	if len(doc.Days[0].Items) != 2 {
		t.Errorf("2025-08-30 应有 2 条, got %d", len(doc.Days[0].Items))
	}
}
