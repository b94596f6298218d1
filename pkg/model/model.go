package model

import "time"

// Item 一条命中关键词的 RSS 条目
type Item struct {
	CrawlTime       string // 原始抓取时间字符串，保留用于展示
	CrawlTimeParsed time.Time
	Attribute       string
	SourceName      string
	Category        string
	Title           string
	Link            string
	Description     string
	PublishTime     string
	Author          string
	MatchedKeywords []string // 命中的关键词，保持配置顺序，非空
}

// SourceIdentity 来源展示信息（由 category 映射得到）
type SourceIdentity struct {
	DisplayName string
	SortOrder   int
	Icon        string
}

// Group 同一来源下的条目分组，Detail 为详细展示部分，Overflow 为"更多内容"部分
type Group struct {
	Identity SourceIdentity
	Detail   []Item
	Overflow []Item
}

// Count 返回分组内条目总数
func (g *Group) Count() int {
	return len(g.Detail) + len(g.Overflow)
}

// KeywordCount 关键词出现次数
type KeywordCount struct {
	Keyword string
	Count   int
}

// Document 每日报告的文档树，由装配器构建、渲染器消费
type Document struct {
	Date         time.Time
	Total        int
	SourceCount  int
	Groups       []Group          // 按来源 SortOrder 升序
	KeywordStats []KeywordCount   // 按出现次数降序
	Summaries    map[string]string // 来源显示名 -> AI 总结，可能为空
}

// DaySection 月报中某一天的摘要
type DaySection struct {
	Date  string // YYYY-MM-DD
	Items []Item
}

// MonthlyDocument 月度报告的文档树
type MonthlyDocument struct {
	Year         int
	Month        int
	Start        time.Time
	End          time.Time
	Total        int
	ActiveDays   int
	KeywordStats []KeywordCount
	Days         []DaySection // 按日期降序
}
