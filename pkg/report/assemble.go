package report

import (
	"sort"
	"time"

	"github.com/iWorld-y/rss_digest/pkg/model"
)

// Assembler 把打平的条目列表装配成报告文档树
type Assembler struct {
	classifier  *Classifier
	detailCount int
}

// NewAssembler 创建装配器，detailCount 为每个来源详细展示的条数上限
func NewAssembler(classifier *Classifier, detailCount int) *Assembler {
	if detailCount <= 0 {
		detailCount = 10
	}
	return &Assembler{classifier: classifier, detailCount: detailCount}
}

// Assemble 分组、排序、切分并统计关键词，生成每日文档。
// 输入为空时返回结构完整的空文档，由调用方决定是否跳过渲染。
func (a *Assembler) Assemble(items []model.Item, date time.Time) *model.Document {
	buckets := make(map[model.SourceIdentity][]model.Item)
	var order []model.SourceIdentity

	for _, item := range items {
		identity := a.classifier.Classify(item.Category)
		if _, ok := buckets[identity]; !ok {
			order = append(order, identity)
		}
		buckets[identity] = append(buckets[identity], item)
	}

	// 来源按配置的排序值升序，相同排序值保持出现顺序
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].SortOrder < order[j].SortOrder
	})

	groups := make([]model.Group, 0, len(order))
	for _, identity := range order {
		bucket := buckets[identity]
		sortItems(bucket)

		split := a.detailCount
		if split > len(bucket) {
			split = len(bucket)
		}
		groups = append(groups, model.Group{
			Identity: identity,
			Detail:   bucket[:split],
			Overflow: bucket[split:],
		})
	}

	return &model.Document{
		Date:         date,
		Total:        len(items),
		SourceCount:  len(groups),
		Groups:       groups,
		KeywordStats: countKeywords(items),
	}
}

// AssembleMonthly 按日期聚合整月条目，生成月度文档
func (a *Assembler) AssembleMonthly(items []model.Item, year int, month time.Month) *model.MonthlyDocument {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)

	byDate := make(map[string][]model.Item)
	for _, item := range items {
		if item.CrawlTimeParsed.IsZero() {
			continue
		}
		key := item.CrawlTimeParsed.Format(time.DateOnly)
		byDate[key] = append(byDate[key], item)
	}

	keys := make([]string, 0, len(byDate))
	for key := range byDate {
		keys = append(keys, key)
	}
	// 每日摘要按日期倒序
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	days := make([]model.DaySection, 0, len(keys))
	for _, key := range keys {
		days = append(days, model.DaySection{Date: key, Items: byDate[key]})
	}

	return &model.MonthlyDocument{
		Year:         year,
		Month:        int(month),
		Start:        start,
		End:          end,
		Total:        len(items),
		ActiveDays:   len(days),
		KeywordStats: countKeywords(items),
		Days:         days,
	}
}

// sortItems 组内排序：关键词数多的在前，再按抓取时间新的在前。
// 时间无法解析的条目按零值时间处理，排在最后。
func sortItems(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ik, jk := len(items[i].MatchedKeywords), len(items[j].MatchedKeywords)
		if ik != jk {
			return ik > jk
		}
		return items[i].CrawlTimeParsed.After(items[j].CrawlTimeParsed)
	})
}

// countKeywords 统计每个关键词的总出现次数，按次数降序，
// 次数相同时保持首次出现的先后顺序。
func countKeywords(items []model.Item) []model.KeywordCount {
	counts := make(map[string]int)
	var order []string

	for _, item := range items {
		for _, kw := range item.MatchedKeywords {
			if _, ok := counts[kw]; !ok {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	stats := make([]model.KeywordCount, 0, len(order))
	for _, kw := range order {
		stats = append(stats, model.KeywordCount{Keyword: kw, Count: counts[kw]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}
